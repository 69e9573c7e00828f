package geometry

import "fmt"

// Rect is a tile rectangle relative to its parent's origin, in pixels.
type Rect struct {
	Top    float64 `json:"top" toml:"top"`
	Left   float64 `json:"left" toml:"left"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Size returns the rectangle's width and height.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains reports whether the point (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Within reports whether the rectangle lies entirely inside b.
func (r Rect) Within(b Bounds) bool {
	return r.Top >= 0 && r.Left >= 0 && r.Bottom() <= b.Height && r.Right() <= b.Width
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@(%g,%g)", r.Width, r.Height, r.Left, r.Top)
}

// Bounds is the parent container's rendered size. It is read fresh at the
// start of every gesture because the viewport can change between gestures.
type Bounds struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Degenerate reports whether either side is zero or negative.
func (b Bounds) Degenerate() bool { return b.Width <= 0 || b.Height <= 0 }

// Size is a width/height pair, used for the element's rendered box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Translate is the visual offset applied to a rendered element during a
// gesture. It is never persisted.
type Translate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsZero reports whether the offset is (0, 0).
func (t Translate) IsZero() bool { return t.X == 0 && t.Y == 0 }

// CSS formats the offset as a CSS transform value.
func (t Translate) CSS() string {
	return fmt.Sprintf("translate(%gpx, %gpx)", t.X, t.Y)
}
