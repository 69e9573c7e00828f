package geometry

// Snapshot is the gesture-start state a resize is computed against. It is
// created once per gesture with [NewSnapshot] and threaded through every
// frame; it is never written back to the tile record.
type Snapshot struct {
	Rect   Rect   `json:"rect"`
	Bounds Bounds `json:"bounds"`
	Handle Handle `json:"handle,omitempty"`
}

// NewSnapshot freezes the rectangle and parent bounds at gesture start.
// Handle is empty for drag gestures.
func NewSnapshot(r Rect, b Bounds, h Handle) Snapshot {
	return Snapshot{Rect: r, Bounds: b, Handle: h}
}

// ResizeFrame is what the interaction layer reports for one resize frame:
// the proposed size and the cumulative translate since the gesture began.
type ResizeFrame struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Translate Translate `json:"translate"`
}

// Output is the result of one continuous resize frame. Rect is written to the
// store uncommitted; Transform is applied to the rendered element only.
type Output struct {
	Rect      Rect      `json:"rect"`
	Transform Translate `json:"transform"`
}

// Drag moves r to the proposed position. Width and height are unchanged and
// the position is clamped at the near edges only; the far edges are not
// clamped, so a dragged tile may overhang the bottom or right of its parent.
func Drag(r Rect, top, left float64) Rect {
	r.Top = max(top, 0)
	r.Left = max(left, 0)
	return r
}

// Resize computes one in-progress resize frame.
//
// The far-edge clamp uses the snapshot's frozen top and left, settled inside
// the bounds when a drag left them past a far edge. When the
// translated top or left would go negative it is pinned at zero and the
// translate along that axis collapses to zero. The remaining translate is
// rescaled by the ratio of the clamped size to rendered, the element's box
// before this frame, so the handle stays under the pointer.
func Resize(s Snapshot, f ResizeFrame, rendered Size) Output {
	s = settle(s)
	width, height := clampSize(s, f)

	tx, ty := f.Translate.X, f.Translate.Y
	top := s.Rect.Top + ty
	if top < 0 {
		top, ty = 0, 0
	}
	left := s.Rect.Left + tx
	if left < 0 {
		left, tx = 0, 0
	}

	r := fit(Rect{Top: top, Left: left, Width: width, Height: height}, s.Bounds)
	return Output{
		Rect: r,
		Transform: Translate{
			X: tx * ratio(r.Width, rendered.Width),
			Y: ty * ratio(r.Height, rendered.Height),
		},
	}
}

// CommitResize computes the resting rectangle at the end of a resize. The
// size is clamped as in [Resize]; top and left are the snapshot origin plus
// the final translate, clamped at zero. No ratio is applied.
func CommitResize(s Snapshot, f ResizeFrame) Rect {
	s = settle(s)
	width, height := clampSize(s, f)
	return fit(Rect{
		Top:    max(s.Rect.Top+f.Translate.Y, 0),
		Left:   max(s.Rect.Left+f.Translate.X, 0),
		Width:  width,
		Height: height,
	}, s.Bounds)
}

// settle pulls a snapshot origin that lies past a far edge, which a drag
// allows, back so that at least MinSize of the tile starts inside the bounds.
func settle(s Snapshot) Snapshot {
	b := s.Bounds
	if b.Degenerate() {
		return s
	}
	s.Rect.Top = min(s.Rect.Top, b.Height-min(MinSize, b.Height))
	s.Rect.Left = min(s.Rect.Left, b.Width-min(MinSize, b.Width))
	return s
}

// clampSize shortens the proposed size so the far edges, measured from the
// snapshot origin, end on the parent's edges.
func clampSize(s Snapshot, f ResizeFrame) (width, height float64) {
	width, height = f.Width, f.Height
	if s.Rect.Top+f.Height > s.Bounds.Height {
		height = s.Bounds.Height - s.Rect.Top
	}
	if s.Rect.Left+f.Width > s.Bounds.Width {
		width = s.Bounds.Width - s.Rect.Left
	}
	return width, height
}

// fit restores the containment invariant for the final position. The
// origin is pulled back inside b, leaving room for a MinSize tile, since a
// drag may have parked the snapshot origin past a far edge; then the size is
// shortened to end on the far edges and kept at least MinSize. Degenerate
// bounds only keep sizes non-negative.
func fit(r Rect, b Bounds) Rect {
	if b.Degenerate() {
		r.Width = max(r.Width, 0)
		r.Height = max(r.Height, 0)
		return r
	}
	minW, minH := min(MinSize, b.Width), min(MinSize, b.Height)
	r.Top = max(min(r.Top, b.Height-minH), 0)
	r.Left = max(min(r.Left, b.Width-minW), 0)
	if r.Bottom() > b.Height {
		r.Height = b.Height - r.Top
	}
	if r.Right() > b.Width {
		r.Width = b.Width - r.Left
	}
	r.Width = max(r.Width, minW)
	r.Height = max(r.Height, minH)
	return r
}

// ratio returns num/den, or 1 when den is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 1
	}
	return num / den
}
