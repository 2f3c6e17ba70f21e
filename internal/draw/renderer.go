package draw

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// TextStyle controls how overlay text is drawn.
type TextStyle struct {
	Color  string // Hex foreground, empty for the terminal default
	Bold   bool
	Center bool // Center horizontally on the position instead of starting at it
}

type overlayText struct {
	col, row int
	text     string
}

// TerminalOptions configures a Terminal renderer.
type TerminalOptions struct {
	SizeFunc    TermSizeFunc
	Profile     termenv.Profile
	CanvasColor string // Foreground for canvas pixels
}

// Terminal renders frames to an ANSI terminal: shapes go to a scaled
// half-block canvas, text and buttons are overlaid after it.
type Terminal struct {
	writer   io.Writer
	out      *ChunkWriter
	canvas   *Canvas
	sizeFunc TermSizeFunc
	profile  termenv.Profile
	styles   *lipgloss.Renderer
	color    string
	overlay  []overlayText
	frame    strings.Builder
}

// NewTerminal creates a renderer for a logical coordinate space of the given size.
func NewTerminal(w io.Writer, logicalWidth, logicalHeight float64, opts TerminalOptions) *Terminal {
	sizeFunc := opts.SizeFunc
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	styles := lipgloss.NewRenderer(w)
	styles.SetColorProfile(opts.Profile)

	t := &Terminal{
		writer:   w,
		out:      NewChunkWriter(w, 0, 0),
		canvas:   NewScaledCanvas(1, 1, logicalWidth, logicalHeight),
		sizeFunc: sizeFunc,
		profile:  opts.Profile,
		styles:   styles,
		color:    opts.CanvasColor,
	}
	return t
}

// Start prepares the terminal for a game session.
func (t *Terminal) Start() {
	HideCursor(t.writer)
	EnableMouse(t.writer)
	ClearScreen(t.writer)
}

// Stop restores the terminal.
func (t *Terminal) Stop() {
	DisableMouse(t.writer)
	ClearScreen(t.writer)
	ShowCursor(t.writer)
}

// Sync picks up terminal size changes, refitting the render area.
func (t *Terminal) Sync() error {
	termWidth, termHeight, err := t.sizeFunc()
	if err != nil {
		return err
	}
	renderWidth, renderHeight, offsetCol, offsetRow := FitSize(termWidth, termHeight, t.canvas.logicalWidth, t.canvas.logicalHeight)
	t.canvas.Resize(renderWidth, renderHeight)
	t.canvas.SetOffset(offsetCol, offsetRow)
	t.out.SetOffset(offsetCol, offsetRow)
	return nil
}

// ToLogical converts an absolute terminal cell to logical coordinates.
func (t *Terminal) ToLogical(col, row int) Point {
	return t.canvas.TerminalToLogical(col, row)
}

// DrawCircleRings draws a layered disc.
func (t *Terminal) DrawCircleRings(center Point, radius float64, rings int) {
	t.canvas.FillRings(center, radius, rings)
}

// DrawLine draws a straight line.
func (t *Terminal) DrawLine(a, b Point) {
	t.canvas.DrawLine(a, b)
}

// DrawButton draws a boxed label covering bounds.
func (t *Terminal) DrawButton(label string, bounds Rect) {
	c1, r1 := t.canvas.LogicalToTerminal(bounds.X, bounds.Y)
	c2, r2 := t.canvas.LogicalToTerminal(bounds.X+bounds.Width, bounds.Y+bounds.Height)
	if c2-c1 >= 2 && r2-r1 >= 2 {
		inner := strings.Repeat("─", c2-c1-1)
		t.queue(c1, r1, "┌"+inner+"┐")
		for row := r1 + 1; row < r2; row++ {
			t.queue(c1, row, "│")
			t.queue(c2, row, "│")
		}
		t.queue(c1, r2, "└"+inner+"┘")
	}
	center := bounds.Center()
	t.DrawText(center, label, TextStyle{Bold: true, Center: true})
}

// DrawText queues text at a logical position.
func (t *Terminal) DrawText(pos Point, text string, style TextStyle) {
	col, row := t.canvas.LogicalToTerminal(pos.X, pos.Y)
	if style.Center {
		col -= runewidth.StringWidth(text) / 2
	}
	s := t.styles.NewStyle().Bold(style.Bold)
	if style.Color != "" {
		s = s.Foreground(lipgloss.Color(style.Color))
	}
	t.queue(col, row, s.Render(text))
}

func (t *Terminal) queue(col, row int, text string) {
	if row < 1 || row > t.canvas.TerminalHeight() || col > t.canvas.TerminalWidth() {
		return
	}
	t.overlay = append(t.overlay, overlayText{col: max(col, 1), row: row, text: text})
}

// Present writes the frame and resets the buffers for the next one.
func (t *Terminal) Present() error {
	t.out.WriteString("\033[H\033[2J")

	t.frame.Reset()
	t.canvas.Render(&t.frame)
	if t.frame.Len() > 0 {
		body := t.profile.String(t.frame.String())
		if t.color != "" {
			body = body.Foreground(t.profile.Color(t.color))
		}
		t.out.WriteString(body.String())
	}
	t.canvas.RenderBorder(t.out)

	for _, o := range t.overlay {
		t.out.WriteAt(o.col, o.row, o.text)
	}

	t.canvas.Clear()
	t.overlay = t.overlay[:0]
	return t.out.Flush()
}
