package canvas

import (
	"context"
	"time"

	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/observability"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// BeginDrag freezes the tile's rectangle and the parent bounds. A gesture
// already running on the tile is replaced.
func (c *Canvas) BeginDrag(ctx context.Context, id tile.ID, bounds geometry.Bounds) (geometry.Snapshot, bool) {
	return c.begin(ctx, observability.GestureDrag, id, "", bounds)
}

// DragTo moves the tile to the proposed container-relative position and
// records it uncommitted.
func (c *Canvas) DragTo(id tile.ID, top, left float64) (geometry.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.active(id, observability.GestureDrag)
	if !ok {
		return geometry.Rect{}, false
	}
	r := geometry.Drag(g.last, top, left)
	if !c.write(id, r, false) {
		return geometry.Rect{}, false
	}
	g.last = r
	return r, true
}

// EndDrag commits the final drag position and ends the gesture.
func (c *Canvas) EndDrag(ctx context.Context, id tile.ID, top, left float64) (geometry.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.active(id, observability.GestureDrag)
	if !ok {
		return geometry.Rect{}, false
	}
	r := geometry.Drag(g.last, top, left)
	return r, c.finish(ctx, id, g, r, false)
}

// BeginResize freezes the tile's rectangle, the parent bounds and the handle
// for a resize. It returns false for a missing tile or an invalid handle.
func (c *Canvas) BeginResize(ctx context.Context, id tile.ID, h geometry.Handle, bounds geometry.Bounds) (geometry.Snapshot, bool) {
	if !h.Valid() {
		return geometry.Snapshot{}, false
	}
	return c.begin(ctx, observability.GestureResize, id, h, bounds)
}

// Resize applies one in-progress frame. The rectangle is recorded
// uncommitted; the returned transform is for the rendered element only.
func (c *Canvas) Resize(id tile.ID, f geometry.ResizeFrame) (geometry.Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.active(id, observability.GestureResize)
	if !ok {
		return geometry.Output{}, false
	}
	out := geometry.Resize(g.snap, f, g.rendered)
	if !c.write(id, out.Rect, false) {
		return geometry.Output{}, false
	}
	g.last = out.Rect
	g.rendered = out.Rect.Size()
	return out, true
}

// EndResize commits the resting rectangle for the final frame and ends the
// gesture.
func (c *Canvas) EndResize(ctx context.Context, id tile.ID, f geometry.ResizeFrame) (geometry.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.active(id, observability.GestureResize)
	if !ok {
		return geometry.Rect{}, false
	}
	r := geometry.CommitResize(g.snap, f)
	return r, c.finish(ctx, id, g, r, false)
}

// Cancel ends the tile's gesture according to the cancel policy and returns
// the committed rectangle.
func (c *Canvas) Cancel(ctx context.Context, id tile.ID) (geometry.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.gestures[id]
	if !ok {
		return geometry.Rect{}, false
	}
	r := g.snap.Rect
	if c.policy == CancelKeep {
		r = g.last
	}
	return r, c.finish(ctx, id, g, r, true)
}

// Gesture returns the snapshot and kind of the tile's gesture in progress.
func (c *Canvas) Gesture(id tile.ID) (geometry.Snapshot, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gestures[id]
	if !ok {
		return geometry.Snapshot{}, "", false
	}
	return g.snap, g.kind, true
}

func (c *Canvas) begin(ctx context.Context, kind string, id tile.ID, h geometry.Handle, bounds geometry.Bounds) (geometry.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.store.Get(id)
	if !ok {
		return geometry.Snapshot{}, false
	}
	if _, running := c.gestures[id]; running {
		c.logger.Debug("replacing gesture", "id", id)
	}
	snap := geometry.NewSnapshot(t.Rect, bounds, h)
	c.gestures[id] = &gesture{
		kind:     kind,
		snap:     snap,
		started:  time.Now(),
		rendered: t.Size(),
		last:     t.Rect,
	}
	c.logger.Debug("gesture started", "kind", kind, "id", id, "handle", h, "bounds", bounds)
	observability.Canvas().OnGestureStart(ctx, kind, string(id))
	return snap, true
}

// active returns the tile's gesture if one of kind is running.
func (c *Canvas) active(id tile.ID, kind string) (*gesture, bool) {
	g, ok := c.gestures[id]
	if !ok || g.kind != kind {
		return nil, false
	}
	return g, true
}

// write records r for id, dropping the gesture if the tile has vanished
// from the store.
func (c *Canvas) write(id tile.ID, r geometry.Rect, committed bool) bool {
	if c.store.Update(id, r, committed) {
		return true
	}
	delete(c.gestures, id)
	return false
}

func (c *Canvas) finish(ctx context.Context, id tile.ID, g *gesture, r geometry.Rect, cancelled bool) bool {
	delete(c.gestures, id)
	if !c.store.Update(id, r, true) {
		return false
	}
	d := time.Since(g.started)
	c.logger.Debug("gesture ended", "kind", g.kind, "id", id, "rect", r, "cancelled", cancelled, "took", d)
	observability.Canvas().OnGestureEnd(ctx, g.kind, string(id), d, cancelled)
	return true
}

// Gestures returns the kind of every gesture in progress, by tile.
func (c *Canvas) Gestures() map[tile.ID]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[tile.ID]string, len(c.gestures))
	for id, g := range c.gestures {
		out[id] = g.kind
	}
	return out
}
