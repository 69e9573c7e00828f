package geometry

import (
	"math"
	"testing"
)

var canvas500 = Bounds{Width: 500, Height: 500}

func TestDrag(t *testing.T) {
	tests := []struct {
		name      string
		rect      Rect
		top, left float64
		want      Rect
	}{
		{
			name: "inside bounds",
			rect: Rect{Top: 10, Left: 10, Width: 100, Height: 80},
			top:  40, left: 60,
			want: Rect{Top: 40, Left: 60, Width: 100, Height: 80},
		},
		{
			name: "clamped at near edges",
			rect: Rect{Top: 10, Left: 10, Width: 100, Height: 80},
			top:  -15, left: -3,
			want: Rect{Top: 0, Left: 0, Width: 100, Height: 80},
		},
		{
			name: "far edge left unclamped",
			rect: Rect{Top: 0, Left: 0, Width: 100, Height: 100},
			top:  450, left: 480,
			want: Rect{Top: 450, Left: 480, Width: 100, Height: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Drag(tt.rect, tt.top, tt.left); got != tt.want {
				t.Errorf("Drag() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResizeNoSpuriousClamp(t *testing.T) {
	s := NewSnapshot(Rect{Top: 100, Left: 50, Width: 100, Height: 100}, canvas500, HandleSE)
	out := Resize(s, ResizeFrame{Width: 450, Height: 400}, Size{Width: 100, Height: 100})

	if out.Rect.Width != 450 || out.Rect.Height != 400 {
		t.Errorf("size = %gx%g, want 450x400", out.Rect.Width, out.Rect.Height)
	}
	if out.Rect.Top != 100 || out.Rect.Left != 50 {
		t.Errorf("origin = (%g,%g), want (50,100)", out.Rect.Left, out.Rect.Top)
	}
	if !out.Transform.IsZero() {
		t.Errorf("Transform = %+v, want zero", out.Transform)
	}
}

func TestResizeFarEdgeClamp(t *testing.T) {
	s := NewSnapshot(Rect{Top: 120, Left: 30, Width: 100, Height: 100}, canvas500, HandleSE)
	out := Resize(s, ResizeFrame{Width: 900, Height: 700}, Size{Width: 100, Height: 100})

	if out.Rect.Height != 500-120 {
		t.Errorf("Height = %g, want %g", out.Rect.Height, 500.0-120)
	}
	if out.Rect.Width != 500-30 {
		t.Errorf("Width = %g, want %g", out.Rect.Width, 500.0-30)
	}
	if !out.Rect.Within(canvas500) {
		t.Errorf("Rect %v escapes bounds %+v", out.Rect, canvas500)
	}
}

func TestResizeNearEdgeCollapsesTranslate(t *testing.T) {
	s := NewSnapshot(Rect{Top: 10, Left: 10, Width: 100, Height: 100}, canvas500, HandleNW)
	frame := ResizeFrame{Width: 130, Height: 130, Translate: Translate{X: -30, Y: -30}}
	out := Resize(s, frame, Size{Width: 100, Height: 100})

	if out.Rect.Top != 0 || out.Rect.Left != 0 {
		t.Errorf("origin = (%g,%g), want (0,0)", out.Rect.Left, out.Rect.Top)
	}
	if !out.Transform.IsZero() {
		t.Errorf("Transform = %+v, want zero after near-edge clamp", out.Transform)
	}
}

func TestResizeRescalesTranslate(t *testing.T) {
	s := NewSnapshot(Rect{Top: 200, Left: 200, Width: 100, Height: 100}, canvas500, HandleNW)
	frame := ResizeFrame{Width: 150, Height: 120, Translate: Translate{X: -50, Y: -20}}
	out := Resize(s, frame, Size{Width: 100, Height: 80})

	want := Translate{X: -50 * 1.5, Y: -20 * 1.5}
	if out.Transform != want {
		t.Errorf("Transform = %+v, want %+v", out.Transform, want)
	}
	if out.Rect.Top != 180 || out.Rect.Left != 150 {
		t.Errorf("origin = (%g,%g), want (150,180)", out.Rect.Left, out.Rect.Top)
	}
}

func TestResizeZeroRenderedSize(t *testing.T) {
	s := NewSnapshot(Rect{Top: 50, Left: 50, Width: 100, Height: 100}, canvas500, HandleW)
	frame := ResizeFrame{Width: 140, Height: 100, Translate: Translate{X: -40, Y: 0}}
	out := Resize(s, frame, Size{})

	if math.IsNaN(out.Transform.X) || math.IsInf(out.Transform.X, 0) {
		t.Fatalf("Transform.X = %v, want finite", out.Transform.X)
	}
	if out.Transform.X != -40 {
		t.Errorf("Transform.X = %g, want -40 (ratio 1)", out.Transform.X)
	}
}

func TestResizeDegenerateBounds(t *testing.T) {
	s := NewSnapshot(Rect{Top: 20, Left: 20, Width: 100, Height: 100}, Bounds{}, HandleSE)
	out := Resize(s, ResizeFrame{Width: 120, Height: 120}, Size{Width: 100, Height: 100})

	if out.Rect.Width != 0 || out.Rect.Height != 0 {
		t.Errorf("size = %gx%g, want 0x0", out.Rect.Width, out.Rect.Height)
	}
	if math.IsNaN(out.Transform.X) || math.IsNaN(out.Transform.Y) {
		t.Errorf("Transform = %+v, want finite", out.Transform)
	}
}

func TestResizeUsesFrozenOrigin(t *testing.T) {
	s := NewSnapshot(Rect{Top: 100, Left: 100, Width: 100, Height: 100}, canvas500, HandleW)

	// Replaying the same cumulative translate must land on the same rect
	// regardless of how many frames preceded it.
	var last Output
	rendered := s.Rect.Size()
	for _, dx := range []float64{-10, -20, -30, -40} {
		last = Resize(s, ResizeFrame{Width: 100 - dx, Height: 100, Translate: Translate{X: dx}}, rendered)
		rendered = last.Rect.Size()
	}
	if last.Rect.Left != 60 {
		t.Errorf("Left = %g, want 60", last.Rect.Left)
	}
	if last.Rect.Width != 140 {
		t.Errorf("Width = %g, want 140", last.Rect.Width)
	}
}

func TestCommitResize(t *testing.T) {
	tests := []struct {
		name  string
		start Rect
		frame ResizeFrame
		want  Rect
	}{
		{
			name:  "absolute origin",
			start: Rect{Top: 100, Left: 100, Width: 100, Height: 100},
			frame: ResizeFrame{Width: 130, Height: 110, Translate: Translate{X: -30, Y: -10}},
			want:  Rect{Top: 90, Left: 70, Width: 130, Height: 110},
		},
		{
			name:  "far edge clamp",
			start: Rect{Top: 300, Left: 0, Width: 100, Height: 100},
			frame: ResizeFrame{Width: 100, Height: 400},
			want:  Rect{Top: 300, Left: 0, Width: 100, Height: 200},
		},
		{
			name:  "near edge clamp",
			start: Rect{Top: 10, Left: 10, Width: 100, Height: 100},
			frame: ResizeFrame{Width: 140, Height: 140, Translate: Translate{X: -40, Y: -40}},
			want:  Rect{Top: 0, Left: 0, Width: 140, Height: 140},
		},
		{
			name:  "origin dragged past far edge",
			start: Rect{Top: 520, Left: 0, Width: 100, Height: 100},
			frame: ResizeFrame{Width: 110, Height: 100},
			want:  Rect{Top: 500 - MinSize, Left: 0, Width: 110, Height: MinSize},
		},
		{
			name:  "origin dragged past both far edges",
			start: Rect{Top: 700, Left: 650, Width: 100, Height: 100},
			frame: ResizeFrame{Width: 100, Height: 100},
			want:  Rect{Top: 500 - MinSize, Left: 500 - MinSize, Width: MinSize, Height: MinSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommitResize(NewSnapshot(tt.start, canvas500, HandleNW), tt.frame)
			if got != tt.want {
				t.Errorf("CommitResize() = %v, want %v", got, tt.want)
			}
			if !got.Within(canvas500) {
				t.Errorf("CommitResize() = %v escapes bounds", got)
			}
		})
	}
}

func TestCommitResizeIgnoresRenderedSize(t *testing.T) {
	s := NewSnapshot(Rect{Top: 200, Left: 200, Width: 100, Height: 100}, canvas500, HandleNW)
	frame := ResizeFrame{Width: 150, Height: 120, Translate: Translate{X: -50, Y: -20}}

	// The continuous frame rescales translate, the commit must not.
	cont := Resize(s, frame, Size{Width: 37, Height: 11})
	got := CommitResize(s, frame)

	if got.Top != 180 || got.Left != 150 {
		t.Errorf("origin = (%g,%g), want (150,180)", got.Left, got.Top)
	}
	if got != cont.Rect {
		t.Errorf("commit %v differs from continuous rect %v", got, cont.Rect)
	}
}

func TestCommitInvariant(t *testing.T) {
	starts := []Rect{
		{Top: 0, Left: 0, Width: 100, Height: 100},
		{Top: 250, Left: 400, Width: 100, Height: 100},
		{Top: 480, Left: 10, Width: 20, Height: 20},
		// Far-edge origins a drag can produce.
		{Top: 400, Left: 400, Width: 100, Height: 100},
		{Top: 500, Left: 0, Width: 100, Height: 100},
		{Top: 0, Left: 500, Width: 100, Height: 100},
		{Top: 520, Left: 30, Width: 100, Height: 100},
		{Top: 40, Left: 900, Width: 100, Height: 100},
		{Top: 2000, Left: 2000, Width: 50, Height: 50},
	}
	deltas := []float64{-600, -75, -1, 0, 1, 75, 600}

	for _, start := range starts {
		for _, h := range Handles {
			s := NewSnapshot(start, canvas500, h)
			for _, dx := range deltas {
				for _, dy := range deltas {
					f := PointerFrame(s, dx, dy)
					got := CommitResize(s, f)
					if !got.Within(canvas500) {
						t.Fatalf("handle %s start %v delta (%g,%g): %v escapes bounds", h, start, dx, dy, got)
					}
					if got.Width < MinSize || got.Height < MinSize {
						t.Fatalf("handle %s start %v delta (%g,%g): %v collapsed below MinSize", h, start, dx, dy, got)
					}
					if cont := Resize(s, f, s.Rect.Size()).Rect; !cont.Within(canvas500) {
						t.Fatalf("handle %s start %v delta (%g,%g): continuous %v escapes bounds", h, start, dx, dy, cont)
					}
				}
			}
		}
	}
}

func TestResizeAfterDragPastEdge(t *testing.T) {
	dragged := Drag(Rect{Width: 100, Height: 100}, 520, 0)
	if dragged.Within(canvas500) {
		t.Fatalf("Drag() = %v, want overhang past the bottom edge", dragged)
	}

	s := NewSnapshot(dragged, canvas500, HandleE)
	f := PointerFrame(s, 10, 0)

	out := Resize(s, f, s.Rect.Size())
	got := CommitResize(s, f)
	if !got.Within(canvas500) || got.Height <= 0 {
		t.Errorf("CommitResize() = %v, want inside %+v with positive size", got, canvas500)
	}
	if got.Width != 110 {
		t.Errorf("Width = %g, want 110", got.Width)
	}
	if got != out.Rect {
		t.Errorf("commit %v differs from continuous rect %v", got, out.Rect)
	}
}

func TestScenarioGrowPastEdge(t *testing.T) {
	s := NewSnapshot(Rect{Top: 0, Left: 0, Width: 100, Height: 100}, canvas500, HandleE)
	got := CommitResize(s, ResizeFrame{Width: 600, Height: 100})

	want := Rect{Top: 0, Left: 0, Width: 500, Height: 100}
	if got != want {
		t.Errorf("CommitResize() = %v, want %v", got, want)
	}
}

func TestScenarioTopLeftHandle(t *testing.T) {
	s := NewSnapshot(Rect{Top: 50, Left: 50, Width: 100, Height: 100}, canvas500, HandleNW)
	frame := ResizeFrame{Width: 100, Height: 100, Translate: Translate{X: -20, Y: -20}}

	out := Resize(s, frame, s.Rect.Size())
	if out.Rect.Top != 30 || out.Rect.Left != 30 {
		t.Errorf("continuous origin = (%g,%g), want (30,30)", out.Rect.Left, out.Rect.Top)
	}

	got := CommitResize(s, frame)
	if got != out.Rect {
		t.Errorf("committed %v, want %v", got, out.Rect)
	}
}
