package simon

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-simon/internal/core"
)

func TestLayoutQuadrants(t *testing.T) {
	l := NewLayout(80, 24)
	g, r, y, b := l.Buttons[Green], l.Buttons[Red], l.Buttons[Yellow], l.Buttons[Blue]
	if g.Empty() {
		t.Fatal("80x24 layout has no buttons")
	}
	if !(g.X < r.X && g.Y == r.Y && y.X == g.X && y.Y > g.Y && b.X == r.X && b.Y == y.Y) {
		t.Errorf("unexpected quadrants: %+v", l.Buttons)
	}
	for i, rect := range l.Buttons {
		cx, cy := rect.Center()
		if got, ok := l.ButtonAt(cx, cy); !ok || got != i {
			t.Errorf("ButtonAt(center of %d) = %d, %v", i, got, ok)
		}
		if rect.Right() > 80 || rect.Bottom() > 24 {
			t.Errorf("button %d %+v leaves the screen", i, rect)
		}
	}
	if _, ok := l.ButtonAt(0, 0); ok {
		t.Error("ButtonAt(0,0) hit a button")
	}
}

func TestLayoutTooSmall(t *testing.T) {
	l := NewLayout(MinWidth-1, MinHeight)
	if _, ok := l.ButtonAt(5, 5); ok {
		t.Error("tiny layout has buttons")
	}
}

func TestRenderLitButton(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 4)
	e.StartGame()
	sched.Advance(50 * time.Millisecond)
	first := int(e.Sequence()[0])

	screen := core.NewScreen(80, 24)
	e.Render(screen)
	rect := NewLayout(80, 24).Buttons[first]
	cell := screen.GetCell(rect.X+1, rect.Y+1)
	if cell.Rune != '█' || cell.Color != buttonColors[first].Bright() {
		t.Errorf("lit cell = %q/%v, expected bright block", cell.Rune, cell.Color)
	}
	if !strings.Contains(screen.String(), "Watch...") {
		t.Error("status line missing")
	}
}

func TestRenderTooSmall(t *testing.T) {
	e, _, _ := newTestEngine(t, Classic, 1, 4)
	screen := core.NewScreen(20, 8)
	e.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("too-small message missing")
	}
}
