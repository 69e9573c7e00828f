package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/imagesource"
	"github.com/matzehuels/tileboard/pkg/tile"
)

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{
			name: "valid",
			in: `
[canvas]
width = 500
height = 500

[[step]]
action = "add"

[[step]]
action = "resize"
tile = 1
handle = "se"
dx = 600
dy = 600
`,
		},
		{name: "empty", in: ""},
		{name: "malformed", in: "[[step]\naction=", wantErr: true},
		{name: "unknown action", in: "[[step]]\naction = \"rotate\"\n", wantErr: true},
		{name: "tile before add", in: "[[step]]\naction = \"drag\"\ntile = 1\n", wantErr: true},
		{name: "tile zero", in: "[[step]]\naction = \"add\"\n[[step]]\naction = \"select\"\n", wantErr: true},
		{name: "bad handle", in: "[[step]]\naction = \"add\"\n[[step]]\naction = \"resize\"\ntile = 1\nhandle = \"up\"\n", wantErr: true},
		{name: "negative frames", in: "[[step]]\naction = \"add\"\n[[step]]\naction = \"drag\"\ntile = 1\nframes = -1\n", wantErr: true},
		{name: "bad canvas", in: "[canvas]\nwidth = 0\nheight = 100\n", wantErr: true},
		{name: "bad cancel policy", in: "cancel_policy = \"undo\"\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadScript(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidScript) {
				t.Errorf("error code = %s, want INVALID_SCRIPT", errors.GetCode(err))
			}
		})
	}
}

func newReplayer(src imagesource.Source, b geometry.Bounds, opts ...canvas.Option) *replayer {
	base := []canvas.Option{
		canvas.WithStore(tile.NewStore(tile.WithIDGenerator(&tile.Sequence{Prefix: "t"}))),
		canvas.WithSource(src),
	}
	cv := canvas.New(append(base, opts...)...)
	return &replayer{canvas: cv, bounds: b, logger: log.New(io.Discard)}
}

func runScript(t *testing.T, r *replayer, in string) error {
	t.Helper()
	sc, err := loadScript(strings.NewReader(in))
	if err != nil {
		t.Fatalf("loadScript() error: %v", err)
	}
	return r.run(context.Background(), sc.Steps)
}

func TestReplayResizeClampsToCanvas(t *testing.T) {
	r := newReplayer(imagesource.Static{"a.png"}, geometry.Bounds{Width: 500, Height: 500})
	err := runScript(t, r, `
[[step]]
action = "add"

[[step]]
action = "resize"
tile = 1
handle = "se"
dx = 600
dy = 600
frames = 3
`)
	if err != nil {
		t.Fatal(err)
	}
	tl := r.canvas.Tiles()[0]
	want := geometry.Rect{Width: 500, Height: 500}
	if tl.Rect != want || !tl.Committed {
		t.Errorf("tile = %s, want %s committed", tl, want)
	}
}

func TestReplayDrag(t *testing.T) {
	tests := []struct {
		name   string
		policy canvas.CancelPolicy
		cancel bool
		want   geometry.Rect
	}{
		{"commit", canvas.CancelRollback, false, geometry.Rect{Top: 30, Left: 40, Width: 100, Height: 100}},
		{"cancel rollback", canvas.CancelRollback, true, geometry.Rect{Width: 100, Height: 100}},
		{"cancel keep", canvas.CancelKeep, true, geometry.Rect{Top: 30, Left: 40, Width: 100, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReplayer(imagesource.Static{"a.png"}, geometry.Bounds{Width: 500, Height: 500},
				canvas.WithCancelPolicy(tt.policy))
			sc := &script{Steps: []step{
				{Action: "add"},
				{Action: "drag", Tile: 1, DX: 40, DY: 30, Frames: 2, Cancel: tt.cancel},
			}}
			if err := r.run(context.Background(), sc.Steps); err != nil {
				t.Fatal(err)
			}
			tl := r.canvas.Tiles()[0]
			if tl.Rect != tt.want || !tl.Committed {
				t.Errorf("tile = %s, want %s committed", tl, tt.want)
			}
		})
	}
}

func TestReplayDeletedTile(t *testing.T) {
	r := newReplayer(imagesource.Static{"a.png"}, geometry.Bounds{Width: 500, Height: 500})
	err := runScript(t, r, `
[[step]]
action = "add"

[[step]]
action = "add"

[[step]]
action = "select"
tile = 1

[[step]]
action = "delete"
tile = 1

[[step]]
action = "drag"
tile = 1
dx = 10
`)
	if err != nil {
		t.Fatalf("step on deleted tile should be a no-op, got %v", err)
	}
	tiles := r.canvas.Tiles()
	if len(tiles) != 1 || tiles[0].ID != "t2" {
		t.Fatalf("tiles = %v, want only t2", tiles)
	}
	if _, ok := r.canvas.Selected(); ok {
		t.Error("selection survived delete")
	}
}

func TestReplayAddFails(t *testing.T) {
	r := newReplayer(imagesource.Static{}, geometry.Bounds{Width: 500, Height: 500})
	err := r.run(context.Background(), []step{{Action: "add"}})
	if !errors.Is(err, errors.ErrCodeImageSourceEmpty) {
		t.Fatalf("run() error = %v, want IMAGE_SOURCE_EMPTY", err)
	}
	if !strings.Contains(err.Error(), "step 1") {
		t.Errorf("error %q does not name the step", err)
	}
	if n := len(r.canvas.Tiles()); n != 0 {
		t.Errorf("got %d tiles, want 0", n)
	}
}

func TestReplayCancelledContext(t *testing.T) {
	r := newReplayer(imagesource.Static{"a.png"}, geometry.Bounds{Width: 500, Height: 500})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.run(ctx, []step{{Action: "add"}}); err != context.Canceled {
		t.Errorf("run() = %v, want context.Canceled", err)
	}
}

func TestFractions(t *testing.T) {
	tests := []struct {
		n    int
		want []float64
	}{
		{0, []float64{1}},
		{1, []float64{1}},
		{4, []float64{0.25, 0.5, 0.75, 1}},
	}
	for _, tt := range tests {
		got := fractions(tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("fractions(%d) = %v, want %v", tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("fractions(%d) = %v, want %v", tt.n, got, tt.want)
				break
			}
		}
	}
}

func TestExportCanvas(t *testing.T) {
	r := newReplayer(imagesource.Static{"https://img.example/a.png"}, geometry.Bounds{Width: 500, Height: 500})
	if err := r.run(context.Background(), []step{{Action: "add"}, {Action: "select", Tile: 1}}); err != nil {
		t.Fatal(err)
	}
	b := geometry.Bounds{Width: 500, Height: 500}

	svg, err := exportCanvas(r.canvas, b, "out.SVG")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `id="tile-t1"`) {
		t.Errorf("svg missing tile group: %s", svg)
	}

	data, err := exportCanvas(r.canvas, b, "out.json")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Selected string `json:"selected"`
		Tiles    []struct {
			ID string `json:"id"`
		} `json:"tiles"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Selected != "t1" || len(doc.Tiles) != 1 {
		t.Errorf("json = %s", data)
	}

	if _, err := exportCanvas(r.canvas, b, "out.png"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("png export error = %v, want UNSUPPORTED", err)
	}
}

func TestTileTable(t *testing.T) {
	tiles := []tile.Tile{
		{ID: "t1", Rect: geometry.Rect{Width: 100, Height: 100}, Image: "https://img.example/a.png"},
		{ID: "t2", Rect: geometry.Rect{Top: 20, Left: 30, Width: 50, Height: 60}, Image: "https://img.example/b.png"},
	}
	out := tileTable(tiles, "t2")
	for _, want := range []string{"t1", "t2", "a.png", "b.png", "▸"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestReplayCommand(t *testing.T) {
	c := newTestCLI(t, staticConfig)
	dir := t.TempDir()
	script := writeFile(t, dir, "session.toml", `
images = ["https://img.example/z.png"]

[canvas]
width = 300
height = 300

[[step]]
action = "add"

[[step]]
action = "resize"
tile = 1
handle = "se"
dx = 400
dy = 400
`)
	out := filepath.Join(dir, "canvas.json")

	if _, err := execute(t, c, "replay", script, "--out", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Width float64 `json:"width"`
		Tiles []struct {
			Width float64 `json:"width"`
			Image string  `json:"image"`
		} `json:"tiles"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Width != 300 || len(doc.Tiles) != 1 || doc.Tiles[0].Width != 300 || doc.Tiles[0].Image != "https://img.example/z.png" {
		t.Errorf("exported canvas = %s", data)
	}
}

func TestReplayCommandBadScript(t *testing.T) {
	c := newTestCLI(t, staticConfig)
	script := writeFile(t, t.TempDir(), "bad.toml", "[[step]]\naction = \"fly\"\n")
	if _, err := execute(t, c, "replay", script); !errors.Is(err, errors.ErrCodeInvalidScript) {
		t.Errorf("replay error = %v, want INVALID_SCRIPT", err)
	}
}
