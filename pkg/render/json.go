package render

import (
	"encoding/json"

	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	selected tile.ID
	gestures map[tile.ID]string
	indent   bool
}

// WithJSONSelected marks the selected tile.
func WithJSONSelected(id tile.ID) JSONOption { return func(r *jsonRenderer) { r.selected = id } }

// WithJSONGestures records the kind of gesture running on each tile.
func WithJSONGestures(g map[tile.ID]string) JSONOption {
	return func(r *jsonRenderer) { r.gestures = g }
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Selected tile.ID    `json:"selected,omitempty"`
	Tiles    []jsonTile `json:"tiles"`
}

type jsonTile struct {
	ID        tile.ID `json:"id"`
	Top       float64 `json:"top"`
	Left      float64 `json:"left"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Image     string  `json:"image"`
	Committed bool    `json:"committed"`
	Gesture   string  `json:"gesture,omitempty"`
}

// RenderJSON serializes the container size and tiles in list order.
func RenderJSON(b geometry.Bounds, tiles []tile.Tile, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  b.Width,
		Height: b.Height,
		Tiles:  make([]jsonTile, 0, len(tiles)),
	}
	for _, t := range tiles {
		if t.ID == r.selected {
			out.Selected = t.ID
		}
		out.Tiles = append(out.Tiles, jsonTile{
			ID:        t.ID,
			Top:       t.Top,
			Left:      t.Left,
			Width:     t.Width,
			Height:    t.Height,
			Image:     t.Image,
			Committed: t.Committed,
			Gesture:   r.gestures[t.ID],
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
