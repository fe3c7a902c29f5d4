package simon

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/vovakirdan/tui-simon/internal/core"
)

// ErrGameStalled is returned by Bot.Play when a game does not finish in
// the time allowed.
var ErrGameStalled = errors.New("simon: game did not finish")

const (
	botStep  = 10 * time.Millisecond
	botReact = 150 * time.Millisecond
	botHold  = 100 * time.Millisecond
)

// Bot plays an engine on virtual time, the way a player with a given
// error rate would. The engine must use Clock as both clock and scheduler.
type Bot struct {
	Engine  *Engine
	Clock   *core.ManualScheduler
	Rand    *rand.Rand
	Mistake float64       // chance that a press is wrong, 0..1
	React   time.Duration // pause before each press
	Hold    time.Duration // how long each press lasts
}

func (b *Bot) defaults() {
	if b.Rand == nil {
		b.Rand = rand.New(rand.NewPCG(1, 2))
	}
	if b.React <= 0 {
		b.React = botReact
	}
	if b.Hold <= 0 {
		b.Hold = botHold
	}
}

// Play starts a game and presses buttons until it is won or lost.
// limit bounds the virtual time spent.
func (b *Bot) Play(limit time.Duration) (Mode, error) {
	b.defaults()
	e := b.Engine
	deadline := b.Clock.Now().Add(limit)
	e.StartGame()

	for !e.Mode().Finished() {
		if b.Clock.Now().After(deadline) {
			return e.Mode(), ErrGameStalled
		}
		if !e.Accepting() {
			b.Clock.Advance(botStep)
			continue
		}
		b.Clock.Advance(b.React)
		if !e.Accepting() {
			continue
		}
		i := int(b.choose())
		e.Press(i)
		b.Clock.Advance(b.Hold)
		e.Release(i)
	}
	return e.Mode(), nil
}

// choose picks the next color: the expected one, a fresh one when the
// player extends the sequence, or a wrong one by chance.
func (b *Bot) choose() Color {
	e := b.Engine
	if e.cursor >= len(e.sequence) {
		return b.randomActive(-1)
	}
	want := e.sequence[e.cursor]
	if b.Mistake > 0 && b.Rand.Float64() < b.Mistake {
		return b.randomActive(want)
	}
	return want
}

// randomActive draws a color still in play other than not. Returns not
// when no other color is left.
func (b *Bot) randomActive(not Color) Color {
	var pool []Color
	for c := Green; c <= Blue; c++ {
		if c != not && b.Engine.active[c] {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return not
	}
	return pool[b.Rand.IntN(len(pool))]
}
