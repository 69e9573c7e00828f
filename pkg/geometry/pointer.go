package geometry

// MinSize is the smallest width or height a pointer-driven resize reports.
const MinSize = 1

// PointerFrame converts a pointer displacement (dx, dy) since the gesture
// start into the frame a resizable element reports for the snapshot's handle.
//
// Axes the handle does not touch keep the snapshot size. On the left and top
// edges the cumulative translate equals the size lost (or gained) on that
// axis, so the opposite edge stays put.
func PointerFrame(s Snapshot, dx, dy float64) ResizeFrame {
	x, y := s.Handle.Direction()
	f := ResizeFrame{Width: s.Rect.Width, Height: s.Rect.Height}

	if x != 0 {
		f.Width = max(s.Rect.Width+float64(x)*dx, MinSize)
	}
	if y != 0 {
		f.Height = max(s.Rect.Height+float64(y)*dy, MinSize)
	}
	if x < 0 {
		f.Translate.X = s.Rect.Width - f.Width
	}
	if y < 0 {
		f.Translate.Y = s.Rect.Height - f.Height
	}
	return f
}

// DragProposal returns the container-relative position a drag of (dx, dy)
// since the gesture start proposes.
func DragProposal(s Snapshot, dx, dy float64) (top, left float64) {
	return s.Rect.Top + dy, s.Rect.Left + dx
}
