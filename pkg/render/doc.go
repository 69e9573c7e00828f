// Package render exports a canvas snapshot for viewing outside the terminal.
//
// Two sinks are provided:
//
//   - [RenderSVG] draws the container, every tile with its image, and the
//     resize handles of the selected tile.
//   - [RenderJSON] serializes the same state for clients that draw it
//     themselves.
//
// Both are pure functions of the container bounds and a tile list, usually
// taken from canvas.Canvas.Tiles. Options configure the selection and
// styling:
//
//	svg := render.RenderSVG(bounds, c.Tiles(), render.WithSelected(id))
package render
