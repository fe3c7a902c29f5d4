package simon

import (
	"fmt"

	"github.com/vovakirdan/tui-simon/internal/core"
)

// Minimum screen size for the pad.
const (
	MinWidth  = 30
	MinHeight = 14
)

const (
	hudRows    = 3
	statusRows = 2
	padGap     = 2 // columns between left and right buttons
)

var (
	buttonColors = [TotalButtons]core.Color{core.ColorGreen, core.ColorRed, core.ColorYellow, core.ColorBlue}
	buttonKeys   = [TotalButtons]string{"G", "R", "Y", "B"}
)

// Display returns the screen color of a pad button.
func (c Color) Display() core.Color {
	if !c.Valid() {
		return core.ColorGray
	}
	return buttonColors[c]
}

// Layout places the four buttons on a screen. Green is top-left, red
// top-right, yellow bottom-left and blue bottom-right.
type Layout struct {
	Width, Height int
	Buttons       [TotalButtons]core.Rect
}

// NewLayout computes the pad layout for a screen. Buttons are empty when
// the screen is too small.
func NewLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height}
	if width < MinWidth || height < MinHeight {
		return l
	}
	availW := width - 4
	availH := height - hudRows - statusRows
	bh := (availH - 1) / 2
	// terminal cells are about twice as tall as wide
	bw := min((availW-padGap)/2, bh*4)
	x0 := (width - (bw*2 + padGap)) / 2
	y0 := hudRows
	x1 := x0 + bw + padGap
	y1 := y0 + bh + 1

	l.Buttons[Green] = core.NewRect(x0, y0, bw, bh)
	l.Buttons[Red] = core.NewRect(x1, y0, bw, bh)
	l.Buttons[Yellow] = core.NewRect(x0, y1, bw, bh)
	l.Buttons[Blue] = core.NewRect(x1, y1, bw, bh)
	return l
}

// ButtonAt returns the button under a screen cell.
func (l Layout) ButtonAt(x, y int) (int, bool) {
	for i, r := range l.Buttons {
		if !r.Empty() && r.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// Render draws the game onto dst.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()
	l := NewLayout(dst.Width(), dst.Height())
	if l.Buttons[Green].Empty() {
		e.renderTooSmall(dst)
		return
	}
	e.renderHUD(dst)
	e.renderPad(dst, l)
	e.renderStatus(dst)
}

func (e *Engine) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorBrightRed)
	dst.DrawTextCentered(y, fmt.Sprintf("need %dx%d", MinWidth, MinHeight), core.ColorGray)
}

func (e *Engine) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, "S I M O N", core.ColorBrightWhite)
	info := fmt.Sprintf("%s | Level %d | %d/%d", e.variant.Title(), e.level, len(e.sequence), e.target)
	if len(e.longest) > 0 {
		info += fmt.Sprintf(" | Best %d", len(e.longest))
	}
	dst.DrawTextCentered(1, info, core.ColorGray)
}

func (e *Engine) renderPad(dst *core.Screen, l Layout) {
	for i, r := range l.Buttons {
		fill, c := '░', buttonColors[i]
		switch {
		case !e.active[i]:
			fill, c = '·', core.ColorGray
		case e.pressed[i]:
			fill, c = '█', c.Bright()
		}
		dst.FillRect(r, fill, c)
		dst.DrawBox(r, c)
		cx, cy := r.Center()
		label := "[" + buttonKeys[i] + "]"
		dst.DrawTextColored(cx-len(label)/2, cy, label, core.ColorBrightWhite)
	}
}

func (e *Engine) renderStatus(dst *core.Screen) {
	dst.DrawTextCentered(dst.Height()-2, e.statusText(), e.statusColor())
}

func (e *Engine) statusText() string {
	switch e.mode {
	case ModeIdle:
		return "Press S to start"
	case ModeListening:
		return fmt.Sprintf("Your turn: %d of %d", min(e.playerPos, len(e.sequence)+1), len(e.sequence))
	case ModePlaying:
		return "Watch..."
	case ModeReplaying:
		return "Last sequence"
	case ModeLongPlaying:
		return "Longest sequence"
	case ModeWinning, ModeRazzing:
		return "Winner!"
	case ModeWon:
		return "You win! Press S to play again"
	case ModeLosing:
		return "Wrong!"
	case ModeLost:
		return fmt.Sprintf("Game over at %d. Press S to play again", len(e.sequence))
	default:
		return ""
	}
}

func (e *Engine) statusColor() core.Color {
	switch e.mode {
	case ModeWinning, ModeRazzing, ModeWon:
		return core.ColorBrightGreen
	case ModeLosing, ModeLost:
		return core.ColorBrightRed
	case ModeListening:
		return core.ColorBrightYellow
	default:
		return core.ColorWhite
	}
}
