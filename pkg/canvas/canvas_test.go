package canvas

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/imagesource"
	"github.com/matzehuels/tileboard/pkg/tile"
)

var bounds500 = geometry.Bounds{Width: 500, Height: 500}

func newCanvas(t *testing.T, opts ...Option) *Canvas {
	t.Helper()
	base := []Option{
		WithStore(tile.NewStore(tile.WithIDGenerator(&tile.Sequence{Prefix: "t"}))),
		WithSource(imagesource.Static{"https://img.example/a.png"}),
		WithRand(rand.New(rand.NewPCG(1, 1))),
	}
	return New(append(base, opts...)...)
}

func addTile(t *testing.T, c *Canvas, r geometry.Rect) tile.ID {
	t.Helper()
	tl, err := c.AddTile(context.Background())
	if err != nil {
		t.Fatalf("AddTile() error: %v", err)
	}
	if r != (geometry.Rect{}) {
		c.Store().Update(tl.ID, r, true)
	}
	return tl.ID
}

func mustGet(t *testing.T, c *Canvas, id tile.ID) tile.Tile {
	t.Helper()
	tl, ok := c.Store().Get(id)
	if !ok {
		t.Fatalf("tile %s not in store", id)
	}
	return tl
}

func TestParseCancelPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CancelPolicy
		wantErr bool
	}{
		{"", CancelRollback, false},
		{"rollback", CancelRollback, false},
		{" KEEP ", CancelKeep, false},
		{"undo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCancelPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCancelPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("ParseCancelPolicy(%q) code = %s", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseCancelPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddTile(t *testing.T) {
	c := newCanvas(t, WithTileSize(120, 80))
	tl, err := c.AddTile(context.Background())
	if err != nil {
		t.Fatalf("AddTile() error: %v", err)
	}
	if tl.ID != "t1" {
		t.Errorf("ID = %q, want t1", tl.ID)
	}
	want := geometry.Rect{Width: 120, Height: 80}
	if tl.Rect != want || !tl.Committed {
		t.Errorf("AddTile() = %+v, want committed %v", tl, want)
	}
	if tl.Image != "https://img.example/a.png" {
		t.Errorf("Image = %q", tl.Image)
	}
	if got := mustGet(t, c, tl.ID); got != tl {
		t.Errorf("store has %+v, want %+v", got, tl)
	}
}

// Scenario C: an empty image list fails without appending anything.
func TestAddTileEmptySource(t *testing.T) {
	c := newCanvas(t, WithSource(imagesource.Static{}))
	addBefore := c.Store().Len()

	_, err := c.AddTile(context.Background())
	if !errors.Is(err, errors.ErrCodeImageSourceEmpty) {
		t.Fatalf("AddTile() error = %v, want IMAGE_SOURCE_EMPTY", err)
	}
	if c.Store().Len() != addBefore {
		t.Errorf("store grew to %d tiles", c.Store().Len())
	}
}

func TestAddTileNoSource(t *testing.T) {
	c := New()
	_, err := c.AddTile(context.Background())
	if !errors.Is(err, errors.ErrCodeImageSourceUnavailable) {
		t.Fatalf("AddTile() error = %v, want IMAGE_SOURCE_UNAVAILABLE", err)
	}
	if c.Store().Len() != 0 {
		t.Error("store should be empty")
	}
}

func TestSelection(t *testing.T) {
	c := newCanvas(t)
	if _, ok := c.Selected(); ok {
		t.Fatal("new canvas should have no selection")
	}

	id := addTile(t, c, geometry.Rect{})
	if !c.Select(id) {
		t.Fatal("Select() = false")
	}
	if got, ok := c.Selected(); !ok || got != id {
		t.Errorf("Selected() = %q, %v", got, ok)
	}

	if c.Select("missing") {
		t.Error("Select(missing) should be a no-op")
	}
	if got, _ := c.Selected(); got != id {
		t.Errorf("selection changed to %q", got)
	}

	c.Deselect()
	if _, ok := c.Selected(); ok {
		t.Error("Deselect() left a selection")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newCanvas(t)
	a := addTile(t, c, geometry.Rect{})
	b := addTile(t, c, geometry.Rect{})
	c.Select(a)

	if c.Delete(ctx, "missing") {
		t.Error("Delete(missing) = true")
	}
	if c.Store().Len() != 2 {
		t.Errorf("Delete(missing) changed the store: %d tiles", c.Store().Len())
	}
	if got, _ := c.Selected(); got != a {
		t.Error("Delete(missing) cleared the selection")
	}

	if !c.Delete(ctx, a) {
		t.Fatal("Delete() = false")
	}
	if _, ok := c.Selected(); ok {
		t.Error("deleting the selected tile should clear the selection")
	}
	tiles := c.Tiles()
	if len(tiles) != 1 || tiles[0].ID != b {
		t.Errorf("Tiles() = %v, want only %s", tiles, b)
	}
}
