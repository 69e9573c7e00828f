package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/observability"
	"github.com/matzehuels/tileboard/pkg/tile"
)

// Board styles
var (
	boardBorderStyle   = lipgloss.NewStyle().Foreground(colorGray)
	boardMovingStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	boardSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	boardLabelStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	headerRows = 1
	footerRows = 2
)

// tuiCommand opens the interactive terminal canvas.
func (c *CLI) tuiCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Arrange tiles interactively in the terminal",
		Long: `Tui opens a full-screen canvas. Drag a tile to move it, drag its edge or
corner to resize it.

Keys: a add tile, d delete selected, tab cycle selection, arrows nudge,
esc cancel gesture or clear selection, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Log lines would corrupt the alternate screen.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			c.Logger.SetOutput(out)
			defer c.Logger.SetOutput(os.Stderr)

			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			m := newBoardModel(ctx, ws.canvas, ws.cfg.TUI.CellWidth, ws.cfg.TUI.CellHeight, ws.cfg.Gesture.HandleTolerance)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}

			printTiles(ws.canvas)
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file while the canvas is open")
	return cmd
}

// =============================================================================
// boardModel - Interactive canvas
// =============================================================================

// pointerGesture is the terminal side of a gesture: where the pointer went
// down and the snapshot the canvas froze for it.
type pointerGesture struct {
	id     tile.ID
	kind   string
	snap   geometry.Snapshot
	x0, y0 float64
}

type tileAddedMsg struct {
	tile tile.Tile
	err  error
}

type boardModel struct {
	ctx       context.Context
	canvas    *canvas.Canvas
	cellW     float64
	cellH     float64
	tolerance float64
	cols      int
	rows      int
	gesture   *pointerGesture
	adding    bool
	status    string
	err       error
}

func newBoardModel(ctx context.Context, cv *canvas.Canvas, cellW, cellH, tolerance float64) boardModel {
	return boardModel{
		ctx:       ctx,
		canvas:    cv,
		cellW:     cellW,
		cellH:     cellH,
		tolerance: tolerance,
		cols:      80,
		rows:      24,
		status:    "press a to add a tile",
	}
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

// bounds is the board area in canvas pixels.
func (m boardModel) bounds() geometry.Bounds {
	return geometry.Bounds{
		Width:  float64(m.cols) * m.cellW,
		Height: float64(max(m.rows-headerRows-footerRows, 0)) * m.cellH,
	}
}

// pixel maps a terminal cell to the canvas pixel at its center.
func (m boardModel) pixel(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * m.cellW, (float64(y-headerRows) + 0.5) * m.cellH
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height

	case tileAddedMsg:
		m.adding = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.canvas.Select(msg.tile.ID)
		m.status = fmt.Sprintf("added %s", msg.tile.ID)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "a":
		if m.adding {
			return m, nil
		}
		m.adding = true
		m.status = "fetching image..."
		ctx, cv := m.ctx, m.canvas
		return m, func() tea.Msg {
			t, err := cv.AddTile(ctx)
			return tileAddedMsg{tile: t, err: err}
		}

	case "d", "x", "delete", "backspace":
		if id, ok := m.canvas.Selected(); ok {
			m.canvas.Delete(m.ctx, id)
			if m.gesture != nil && m.gesture.id == id {
				m.gesture = nil
			}
			m.status = fmt.Sprintf("deleted %s", id)
		}

	case "esc":
		if m.gesture != nil {
			r, _ := m.canvas.Cancel(m.ctx, m.gesture.id)
			m.status = fmt.Sprintf("cancelled %s, %s", m.gesture.kind, r)
			m.gesture = nil
		} else {
			m.canvas.Deselect()
			m.status = ""
		}

	case "tab":
		m.cycleSelection()

	case "up":
		m.nudge(0, -m.cellH)
	case "down":
		m.nudge(0, m.cellH)
	case "left":
		m.nudge(-m.cellW, 0)
	case "right":
		m.nudge(m.cellW, 0)
	}
	return m, nil
}

func (m *boardModel) handleMouse(msg tea.MouseMsg) {
	px, py := m.pixel(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.press(px, py)

	case tea.MouseActionMotion:
		if m.gesture == nil {
			return
		}
		g := m.gesture
		dx, dy := px-g.x0, py-g.y0
		if g.kind == observability.GestureDrag {
			top, left := geometry.DragProposal(g.snap, dx, dy)
			if r, ok := m.canvas.DragTo(g.id, top, left); ok {
				m.status = fmt.Sprintf("drag %s %s", g.id, r)
			}
			return
		}
		if out, ok := m.canvas.Resize(g.id, geometry.PointerFrame(g.snap, dx, dy)); ok {
			m.status = fmt.Sprintf("resize %s %s %s", g.id, out.Rect, out.Transform.CSS())
		}

	case tea.MouseActionRelease:
		if m.gesture == nil {
			return
		}
		g := m.gesture
		m.gesture = nil
		dx, dy := px-g.x0, py-g.y0

		var (
			r  geometry.Rect
			ok bool
		)
		if g.kind == observability.GestureDrag {
			top, left := geometry.DragProposal(g.snap, dx, dy)
			r, ok = m.canvas.EndDrag(m.ctx, g.id, top, left)
		} else {
			r, ok = m.canvas.EndResize(m.ctx, g.id, geometry.PointerFrame(g.snap, dx, dy))
		}
		if ok {
			m.status = fmt.Sprintf("%s %s", g.id, r)
		}
	}
}

// press starts a gesture on the topmost tile under the pointer: a resize
// when an edge is hit, a drag when the interior is.
func (m *boardModel) press(px, py float64) {
	tiles := m.canvas.Tiles()
	for i := len(tiles) - 1; i >= 0; i-- {
		t := tiles[i]
		h, onEdge := geometry.HitTest(t.Rect, px, py, m.tolerance)
		if !onEdge && !t.Contains(px, py) {
			continue
		}

		m.canvas.Select(t.ID)
		var (
			snap geometry.Snapshot
			kind = observability.GestureDrag
		)
		if onEdge {
			kind = observability.GestureResize
			snap, _ = m.canvas.BeginResize(m.ctx, t.ID, h, m.bounds())
		} else {
			snap, _ = m.canvas.BeginDrag(m.ctx, t.ID, m.bounds())
		}
		m.gesture = &pointerGesture{id: t.ID, kind: kind, snap: snap, x0: px, y0: py}
		m.err = nil
		return
	}
	m.canvas.Deselect()
}

// nudge moves the selected tile by (dx, dy) as a one-frame drag.
func (m *boardModel) nudge(dx, dy float64) {
	id, ok := m.canvas.Selected()
	if !ok || m.gesture != nil {
		return
	}
	snap, ok := m.canvas.BeginDrag(m.ctx, id, m.bounds())
	if !ok {
		return
	}
	top, left := geometry.DragProposal(snap, dx, dy)
	if r, ok := m.canvas.EndDrag(m.ctx, id, top, left); ok {
		m.status = fmt.Sprintf("%s %s", id, r)
	}
}

func (m *boardModel) cycleSelection() {
	tiles := m.canvas.Tiles()
	if len(tiles) == 0 {
		return
	}
	next := 0
	if id, ok := m.canvas.Selected(); ok {
		for i, t := range tiles {
			if t.ID == id {
				next = (i + 1) % len(tiles)
				break
			}
		}
	}
	m.canvas.Select(tiles[next].ID)
}

func (m boardModel) View() string {
	var b strings.Builder

	sel, hasSel := m.canvas.Selected()
	tiles := m.canvas.Tiles()
	bounds := m.bounds()

	info := fmt.Sprintf("  %d tiles · %gx%gpx", len(tiles), bounds.Width, bounds.Height)
	if hasSel {
		info += " · selected " + string(sel)
	}
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(info))
	b.WriteString("\n")

	boardRows := max(m.rows-headerRows-footerRows, 0)
	b.WriteString(drawBoard(tiles, sel, m.cols, boardRows, m.cellW, m.cellH))

	b.WriteString(StyleDim.Render("a add · d delete · tab select · arrows nudge · esc cancel · q quit"))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.err))
	case m.status != "":
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status)
	}
	return b.String()
}

// =============================================================================
// Board Rendering
// =============================================================================

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellBorder
	cellMoving
	cellSelected
	cellLabel
)

// drawBoard rasterizes tiles onto a cols x rows character grid, later tiles
// on top. Each row ends with a newline.
func drawBoard(tiles []tile.Tile, selected tile.ID, cols, rows int, cellW, cellH float64) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	runes := make([][]rune, rows)
	kinds := make([][]cellKind, rows)
	for r := range runes {
		runes[r] = []rune(strings.Repeat(" ", cols))
		kinds[r] = make([]cellKind, cols)
	}

	for _, t := range tiles {
		c0 := int(math.Floor(t.Left / cellW))
		c1 := max(int(math.Ceil(t.Right()/cellW))-1, c0)
		r0 := int(math.Floor(t.Top / cellH))
		r1 := max(int(math.Ceil(t.Bottom()/cellH))-1, r0)

		kind := cellBorder
		horiz, vert := '─', '│'
		switch {
		case t.ID == selected:
			kind = cellSelected
		case !t.Committed:
			kind = cellMoving
		}
		if !t.Committed {
			horiz, vert = '╌', '╎'
		}

		for r := max(r0, 0); r <= r1 && r < rows; r++ {
			for c := max(c0, 0); c <= c1 && c < cols; c++ {
				top, bottom, left, right := r == r0, r == r1, c == c0, c == c1
				ch := ' '
				switch {
				case top && left:
					ch = '┌'
				case top && right:
					ch = '┐'
				case bottom && left:
					ch = '└'
				case bottom && right:
					ch = '┘'
				case top || bottom:
					ch = horiz
				case left || right:
					ch = vert
				}
				runes[r][c] = ch
				kinds[r][c] = kind
				if ch == ' ' {
					kinds[r][c] = cellEmpty
				}
			}
		}

		// Label on the first interior row.
		if r := r0 + 1; r < r1 && r >= 0 && r < rows {
			label := []rune(string(t.ID) + " " + path.Base(t.Image))
			for i, ch := range label {
				c := c0 + 1 + i
				if c >= c1 || c >= cols {
					break
				}
				if c < 0 {
					continue
				}
				runes[r][c] = ch
				kinds[r][c] = cellLabel
			}
		}
	}

	var b strings.Builder
	for r := range runes {
		start := 0
		for c := 1; c <= cols; c++ {
			if c < cols && kinds[r][c] == kinds[r][start] {
				continue
			}
			b.WriteString(styleCell(kinds[r][start], string(runes[r][start:c])))
			start = c
		}
		b.WriteString("\n")
	}
	return b.String()
}

func styleCell(k cellKind, s string) string {
	switch k {
	case cellBorder:
		return boardBorderStyle.Render(s)
	case cellMoving:
		return boardMovingStyle.Render(s)
	case cellSelected:
		return boardSelectedStyle.Render(s)
	case cellLabel:
		return boardLabelStyle.Render(s)
	default:
		return s
	}
}
