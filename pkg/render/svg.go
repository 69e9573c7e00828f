package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/tile"
)

const tileCSS = `
    .canvas { fill: #f8f8f8; stroke: #bbb; }
    .tile { fill: #fff; stroke: #555; stroke-width: 1; }
    .tile.moving { stroke-dasharray: 4 2; }
    .tile.selected { stroke: #2f6fdd; stroke-width: 2; }
    .handle { fill: #fff; stroke: #2f6fdd; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	selected   tile.ID
	handleSize float64
	images     bool
}

// WithSelected outlines the tile and draws its resize handles.
func WithSelected(id tile.ID) SVGOption { return func(r *svgRenderer) { r.selected = id } }

// WithHandleSize sets the side of the square resize handles.
func WithHandleSize(px float64) SVGOption { return func(r *svgRenderer) { r.handleSize = px } }

// WithoutImages draws tile outlines only.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// RenderSVG draws tiles in list order inside a container of size b.
func RenderSVG(b geometry.Bounds, tiles []tile.Tile, opts ...SVGOption) []byte {
	r := svgRenderer{handleSize: 8, images: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		b.Width, b.Height, b.Width, b.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileCSS)
	fmt.Fprintf(&buf, `  <rect class="canvas" x="0" y="0" width="%.1f" height="%.1f"/>`+"\n", b.Width, b.Height)

	var sel *tile.Tile
	for i, t := range tiles {
		r.renderTile(&buf, t)
		if t.ID == r.selected {
			sel = &tiles[i]
		}
	}
	if sel != nil {
		r.renderHandles(&buf, sel.Rect)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t tile.Tile) {
	class := "tile"
	if !t.Committed {
		class += " moving"
	}
	if t.ID == r.selected {
		class += " selected"
	}
	id := html.EscapeString(string(t.ID))

	fmt.Fprintf(buf, `  <g id="tile-%s" transform="translate(%.1f %.1f)">`+"\n", id, t.Left, t.Top)
	fmt.Fprintf(buf, `    <rect class="%s" width="%.1f" height="%.1f"/>`+"\n", class, t.Width, t.Height)
	if r.images && t.Image != "" {
		fmt.Fprintf(buf, `    <image href="%s" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			html.EscapeString(t.Image), t.Width, t.Height)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderHandles(buf *bytes.Buffer, rect geometry.Rect) {
	half := r.handleSize / 2
	for _, h := range geometry.Handles {
		x, y := handlePoint(rect, h)
		fmt.Fprintf(buf, `  <rect class="handle" data-handle="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			h, x-half, y-half, r.handleSize, r.handleSize)
	}
}

// handlePoint returns the center of handle h on rect.
func handlePoint(rect geometry.Rect, h geometry.Handle) (x, y float64) {
	dx, dy := h.Direction()
	return rect.Left + rect.Width*float64(dx+1)/2, rect.Top + rect.Height*float64(dy+1)/2
}
