package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/imagesource"
	"github.com/matzehuels/tileboard/pkg/render"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// replayCommand runs a recorded script against a fresh canvas.
func (c *CLI) replayCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "replay <script.toml>",
		Short: "Replay a scripted interaction session",
		Long: `Replay reads a TOML script of add, select, delete, drag and resize steps,
runs it against an empty canvas and prints the resulting tiles. With --out the
final canvas is written as SVG or JSON, chosen by file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			sc, err := loadScript(f)
			f.Close()
			if err != nil {
				return err
			}

			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			cv := ws.canvas
			if len(sc.Images) > 0 || sc.CancelPolicy != "" {
				cv = c.scriptCanvas(ws, sc)
			}
			bounds := ws.bounds()
			if sc.Canvas != nil {
				bounds = *sc.Canvas
			}

			prog := newProgress(c.Logger)
			r := &replayer{canvas: cv, bounds: bounds, logger: c.Logger}
			if err := r.run(ctx, sc.Steps); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Replayed %d steps", len(sc.Steps)))

			printTiles(cv)
			if out == "" {
				return nil
			}
			data, err := exportCanvas(cv, bounds, out)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the final canvas to this .svg or .json file")
	return cmd
}

// scriptCanvas builds a canvas that honors the script's own images and
// cancel policy.
func (c *CLI) scriptCanvas(ws *workspace, sc *script) *canvas.Canvas {
	src := ws.images
	if len(sc.Images) > 0 {
		src = imagesource.Static(sc.Images)
	}
	policy, _ := ws.cfg.CancelPolicy()
	if sc.CancelPolicy != "" {
		policy, _ = canvas.ParseCancelPolicy(sc.CancelPolicy)
	}
	return canvas.New(
		canvas.WithSource(src),
		canvas.WithCancelPolicy(policy),
		canvas.WithTileSize(ws.cfg.Canvas.TileWidth, ws.cfg.Canvas.TileHeight),
		canvas.WithLogger(c.Logger),
	)
}

func exportCanvas(cv *canvas.Canvas, b geometry.Bounds, path string) ([]byte, error) {
	sel, _ := cv.Selected()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return render.RenderSVG(b, cv.Tiles(), render.WithSelected(sel)), nil
	case ".json":
		return render.RenderJSON(b, cv.Tiles(), render.WithJSONSelected(sel), render.WithJSONIndent())
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (want .svg or .json)", filepath.Ext(path))
	}
}

func printTiles(cv *canvas.Canvas) {
	tiles := cv.Tiles()
	if len(tiles) == 0 {
		printInfo("Canvas is empty")
		return
	}
	sel, _ := cv.Selected()
	fmt.Println(tileTable(tiles, sel))
}

func tileTable(tiles []tile.Tile, selected tile.ID) string {
	rows := make([][]string, 0, len(tiles))
	for _, t := range tiles {
		mark := ""
		if t.ID == selected {
			mark = "▸"
		}
		rows = append(rows, []string{
			mark,
			string(t.ID),
			fmt.Sprintf("%g", t.Top),
			fmt.Sprintf("%g", t.Left),
			fmt.Sprintf("%g", t.Width),
			fmt.Sprintf("%g", t.Height),
			filepath.Base(t.Image),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Tile", "Top", "Left", "Width", "Height", "Image").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(tiles) && tiles[row].ID == selected {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
