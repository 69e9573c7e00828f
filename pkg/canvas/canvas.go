// Package canvas owns the interactive state of a tile board: the tile store,
// the single selection, and the snapshot of every gesture in progress.
//
// A Canvas is the only writer of tile geometry. Interaction layers (the
// terminal UI, the HTTP API, script replay) report gesture start, frames and
// end; the canvas runs them through the geometry engine and records the
// result in the store, uncommitted while a gesture runs and committed when
// it ends.
//
// Gesture lifecycle:
//
//	snap, _ := c.BeginResize(ctx, id, geometry.HandleSE, bounds)
//	out, _ := c.Resize(id, geometry.PointerFrame(snap, dx, dy))
//	// apply out.Transform to the rendered element
//	c.EndResize(ctx, id, geometry.PointerFrame(snap, dx, dy))
//
// Frames for a tile with no gesture in progress, including a tile deleted
// mid-gesture, report false and change nothing.
package canvas

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/imagesource"
	"github.com/matzehuels/tileboard/pkg/observability"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// CancelPolicy decides what a cancelled gesture leaves behind.
type CancelPolicy string

const (
	// CancelRollback restores the gesture-start rectangle.
	CancelRollback CancelPolicy = "rollback"
	// CancelKeep commits the last in-progress rectangle.
	CancelKeep CancelPolicy = "keep"
)

// ParseCancelPolicy parses a policy name. The empty string is [CancelRollback].
func ParseCancelPolicy(s string) (CancelPolicy, error) {
	switch p := CancelPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CancelRollback, nil
	case CancelRollback, CancelKeep:
		return p, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown cancel policy %q (want rollback or keep)", s)
	}
}

type gesture struct {
	kind     string
	snap     geometry.Snapshot
	started  time.Time
	rendered geometry.Size
	last     geometry.Rect
}

// Canvas is safe for concurrent use.
type Canvas struct {
	mu       sync.Mutex
	store    *tile.Store
	source   imagesource.Source
	policy   CancelPolicy
	size     geometry.Size
	rng      *rand.Rand
	logger   *log.Logger
	selected tile.ID
	gestures map[tile.ID]*gesture
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithStore uses s instead of a fresh store.
func WithStore(s *tile.Store) Option {
	return func(c *Canvas) { c.store = s }
}

// WithSource sets where new tiles get their image.
func WithSource(src imagesource.Source) Option {
	return func(c *Canvas) { c.source = src }
}

// WithCancelPolicy sets the policy applied by [Canvas.Cancel].
func WithCancelPolicy(p CancelPolicy) Option {
	return func(c *Canvas) { c.policy = p }
}

// WithTileSize sets the size of newly added tiles.
func WithTileSize(width, height float64) Option {
	return func(c *Canvas) { c.size = geometry.Size{Width: width, Height: height} }
}

// WithRand sets the generator used to pick images.
func WithRand(r *rand.Rand) Option {
	return func(c *Canvas) { c.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Canvas) { c.logger = l }
}

// New creates an empty canvas with nothing selected.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		policy:   CancelRollback,
		size:     geometry.Size{Width: tile.DefaultWidth, Height: tile.DefaultHeight},
		gestures: make(map[tile.ID]*gesture),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = tile.NewStore()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Store returns the underlying tile store.
func (c *Canvas) Store() *tile.Store { return c.store }

// Policy returns the cancel policy in effect.
func (c *Canvas) Policy() CancelPolicy { return c.policy }

// Tiles returns the tiles in insertion order.
func (c *Canvas) Tiles() []tile.Tile { return c.store.List() }

// AddTile picks an image from the source and appends a committed tile at the
// origin. If the source fails or is empty the store is left unchanged.
func (c *Canvas) AddTile(ctx context.Context) (tile.Tile, error) {
	url, err := imagesource.Pick(ctx, c.source, c.rng)
	if err != nil {
		c.logger.Warn("add tile failed", "err", err)
		observability.Canvas().OnTileAddFailed(ctx, err)
		return tile.Tile{}, err
	}

	t := tile.New(url)
	t.Width, t.Height = c.size.Width, c.size.Height
	t.ID = c.store.Add(t)

	c.logger.Info("added tile", "id", t.ID, "image", url)
	observability.Canvas().OnTileAdded(ctx, string(t.ID), url)
	return t, nil
}

// Select makes id the selection. Selecting a missing tile does nothing and
// returns false.
func (c *Canvas) Select(id tile.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.Get(id); !ok {
		return false
	}
	c.selected = id
	return true
}

// Deselect clears the selection.
func (c *Canvas) Deselect() {
	c.mu.Lock()
	c.selected = ""
	c.mu.Unlock()
}

// Selected returns the selected tile id, if any.
func (c *Canvas) Selected() (tile.ID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.selected != ""
}

// Delete removes the tile, drops any gesture in progress for it and clears
// the selection if it pointed at it. Deleting a missing id returns false.
func (c *Canvas) Delete(ctx context.Context, id tile.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.gestures, id)
	if c.selected == id {
		c.selected = ""
	}
	if !c.store.Remove(id) {
		return false
	}
	c.logger.Info("removed tile", "id", id)
	observability.Canvas().OnTileRemoved(ctx, string(id))
	return true
}
