package geometry

import (
	"strings"

	"github.com/matzehuels/tileboard/pkg/errors"
)

// Handle identifies the edge or corner control a resize is driven from.
type Handle string

// Resize handles, named by compass direction.
const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every handle in render order.
var Handles = []Handle{HandleNW, HandleN, HandleNE, HandleW, HandleE, HandleSW, HandleS, HandleSE}

// ParseHandle parses a handle name, case-insensitively.
func ParseHandle(s string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", errors.New(errors.ErrCodeInvalidHandle, "unknown resize handle %q (want one of n, s, e, w, ne, nw, se, sw)", s)
	}
	return h, nil
}

// Valid reports whether h is one of the eight handles.
func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

// Direction returns the handle's unit vector. A component of -1 means the
// handle sits on the left (x) or top (y) edge and moving it shifts the tile's
// origin; +1 means the right or bottom edge; 0 means the axis is untouched.
func (h Handle) Direction() (x, y int) {
	s := string(h)
	switch {
	case strings.Contains(s, "w"):
		x = -1
	case strings.Contains(s, "e"):
		x = 1
	}
	switch {
	case strings.Contains(s, "n"):
		y = -1
	case strings.Contains(s, "s"):
		y = 1
	}
	return x, y
}

// MovesLeft reports whether the handle is on the left edge (w, nw, sw).
func (h Handle) MovesLeft() bool {
	x, _ := h.Direction()
	return x < 0
}

// MovesTop reports whether the handle is on the top edge (n, nw, ne).
func (h Handle) MovesTop() bool {
	_, y := h.Direction()
	return y < 0
}

func (h Handle) String() string { return string(h) }

// HitTest returns the handle of r under the point (x, y). A point within
// tolerance of an edge engages that edge; a point near two edges engages the
// corner. It returns false when the point is off the handles, including
// points on the tile's interior.
func HitTest(r Rect, x, y, tolerance float64) (Handle, bool) {
	if x < r.Left-tolerance || x > r.Right()+tolerance || y < r.Top-tolerance || y > r.Bottom()+tolerance {
		return "", false
	}

	var v, hz string
	switch {
	case abs(y-r.Top) <= tolerance:
		v = "n"
	case abs(y-r.Bottom()) <= tolerance:
		v = "s"
	}
	switch {
	case abs(x-r.Left) <= tolerance:
		hz = "w"
	case abs(x-r.Right()) <= tolerance:
		hz = "e"
	}
	if v == "" && hz == "" {
		return "", false
	}
	return Handle(v + hz), true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
