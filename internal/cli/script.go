package cli

import (
	"context"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// Replay step actions.
const (
	actionAdd      = "add"
	actionSelect   = "select"
	actionDeselect = "deselect"
	actionDelete   = "delete"
	actionDrag     = "drag"
	actionResize   = "resize"
)

// script is a recorded interaction session:
//
//	images = ["https://img.example/a.png"]
//
//	[canvas]
//	width = 500
//	height = 500
//
//	[[step]]
//	action = "add"
//
//	[[step]]
//	action = "resize"
//	tile = 1
//	handle = "se"
//	dx = 600
//	frames = 4
//
// Tiles are referenced by their 1-based position in the order they were
// added, counting tiles that have since been deleted.
type script struct {
	Canvas       *geometry.Bounds `toml:"canvas"`
	Images       []string         `toml:"images"`
	CancelPolicy string           `toml:"cancel_policy"`
	Steps        []step           `toml:"step"`
}

type step struct {
	Action string  `toml:"action"`
	Tile   int     `toml:"tile"`
	Handle string  `toml:"handle"`
	DX     float64 `toml:"dx"`
	DY     float64 `toml:"dy"`
	// Frames is the number of in-progress frames before the gesture ends.
	Frames int `toml:"frames"`
	// Cancel ends the gesture with a cancel instead of a commit.
	Cancel bool `toml:"cancel"`
}

func loadScript(r io.Reader) (*script, error) {
	var s script
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "parse script")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *script) validate() error {
	if s.Canvas != nil {
		if err := errors.ValidateDimension("canvas.width", s.Canvas.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "invalid canvas")
		}
		if err := errors.ValidateDimension("canvas.height", s.Canvas.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "invalid canvas")
		}
		if s.Canvas.Degenerate() {
			return errors.New(errors.ErrCodeInvalidScript, "canvas must have a positive width and height")
		}
	}
	if s.CancelPolicy != "" {
		if _, err := canvas.ParseCancelPolicy(s.CancelPolicy); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "invalid cancel_policy")
		}
	}

	added := 0
	for i, st := range s.Steps {
		n := i + 1
		switch strings.ToLower(st.Action) {
		case actionAdd:
			added++
			continue
		case actionDeselect:
			continue
		case actionResize:
			if _, err := geometry.ParseHandle(st.Handle); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", n)
			}
		case actionSelect, actionDelete, actionDrag:
		default:
			return errors.New(errors.ErrCodeInvalidScript, "step %d: unknown action %q", n, st.Action)
		}
		if st.Tile < 1 || st.Tile > added {
			return errors.New(errors.ErrCodeInvalidScript, "step %d: tile %d has not been added", n, st.Tile)
		}
		if st.Frames < 0 {
			return errors.New(errors.ErrCodeInvalidScript, "step %d: frames cannot be negative", n)
		}
		for _, v := range []struct {
			name string
			v    float64
		}{{"dx", st.DX}, {"dy", st.DY}} {
			if err := errors.ValidateCoordinate(v.name, v.v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", n)
			}
		}
	}
	return nil
}

// replayer feeds script steps through a canvas the way an interaction
// layer would.
type replayer struct {
	canvas *canvas.Canvas
	bounds geometry.Bounds
	logger *log.Logger
	ids    []tile.ID
}

func (r *replayer) run(ctx context.Context, steps []step) error {
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, st); err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return errors.Wrap(code, err, "step %d (%s)", i+1, st.Action)
		}
	}
	return nil
}

func (r *replayer) apply(ctx context.Context, st step) error {
	action := strings.ToLower(st.Action)
	if action == actionAdd {
		t, err := r.canvas.AddTile(ctx)
		if err != nil {
			return err
		}
		r.ids = append(r.ids, t.ID)
		return nil
	}
	if action == actionDeselect {
		r.canvas.Deselect()
		return nil
	}

	id := r.ids[st.Tile-1]
	var ok bool
	switch action {
	case actionSelect:
		ok = r.canvas.Select(id)
	case actionDelete:
		ok = r.canvas.Delete(ctx, id)
	case actionDrag:
		ok = r.drag(ctx, id, st)
	case actionResize:
		ok = r.resize(ctx, id, st)
	}
	if !ok {
		r.logger.Warn("step had no effect", "action", action, "tile", id)
	}
	return nil
}

func (r *replayer) drag(ctx context.Context, id tile.ID, st step) bool {
	snap, ok := r.canvas.BeginDrag(ctx, id, r.bounds)
	if !ok {
		return false
	}
	for _, f := range fractions(st.Frames) {
		top, left := geometry.DragProposal(snap, st.DX*f, st.DY*f)
		r.canvas.DragTo(id, top, left)
	}
	if st.Cancel {
		_, ok = r.canvas.Cancel(ctx, id)
		return ok
	}
	top, left := geometry.DragProposal(snap, st.DX, st.DY)
	_, ok = r.canvas.EndDrag(ctx, id, top, left)
	return ok
}

func (r *replayer) resize(ctx context.Context, id tile.ID, st step) bool {
	h, _ := geometry.ParseHandle(st.Handle)
	snap, ok := r.canvas.BeginResize(ctx, id, h, r.bounds)
	if !ok {
		return false
	}
	for _, f := range fractions(st.Frames) {
		out, _ := r.canvas.Resize(id, geometry.PointerFrame(snap, st.DX*f, st.DY*f))
		r.logger.Debug("frame", "tile", id, "rect", out.Rect, "transform", out.Transform.CSS())
	}
	if st.Cancel {
		_, ok = r.canvas.Cancel(ctx, id)
		return ok
	}
	_, ok = r.canvas.EndResize(ctx, id, geometry.PointerFrame(snap, st.DX, st.DY))
	return ok
}

// fractions returns n evenly spaced points in (0, 1]. Zero frames yields a
// single frame at the end position.
func fractions(n int) []float64 {
	n = max(n, 1)
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) / float64(n)
	}
	return out
}
