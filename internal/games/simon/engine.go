// Package simon implements the Simon memory game engine: sequence playback,
// input matching, three rulesets and the timing loop that paces them.
//
// The engine is single-threaded. Every exported method, and every callback
// it hands to its Scheduler, must run on the same goroutine.
package simon

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-simon/internal/core"
)

// Timers the engine registers with its scheduler.
const (
	TimerTick core.TimerID = iota + 1
	TimerTimeout
)

const (
	noOwner        = -1
	victoryFlashes = 7
)

// razzTune is flashed when an Elimination game is won at RazzLength. A final
// unlit step sounds ToneRazz before the miss that ends the taunt.
var razzTune = [...]Color{Red, Yellow, Blue, Green, Green, Green, Green, Red, Yellow}

// ErrInvalidOptions is returned by New for unusable options.
var ErrInvalidOptions = errors.New("simon: invalid options")

// Options configure a new Engine.
type Options struct {
	Variant Variant // zero means Classic
	Level   Level   // zero means MinLevel
	// Targets are the target lengths for levels 1..4. Zero means DefaultTargets.
	Targets   [MaxLevel]int
	Timing    Timing
	Seed      uint64
	Clock     core.Clock // zero means core.SystemClock
	Scheduler core.Scheduler
	Tones     ToneSource // nil means Silent
	Logger    *log.Logger
}

// Engine is one Simon game session.
type Engine struct {
	clock  core.Clock
	sched  core.Scheduler
	tones  ToneSource
	log    *log.Logger
	timing Timing

	pcg *rand.PCG
	rng *rand.Rand

	variant Variant
	level   Level
	targets [MaxLevel]int
	target  int

	mode      Mode
	sequence  Sequence
	longest   Sequence
	cursor    int
	playerPos int

	winTone  int
	razzTone int
	lit      bool
	beep     time.Duration
	pause    time.Duration

	lastUpdate time.Time
	heardPress bool
	active     [TotalButtons]bool
	pressed    [TotalButtons]bool
	toneOwner  int

	listeners []Listener
}

// New builds an idle engine.
func New(opts Options) (*Engine, error) {
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler is required", ErrInvalidOptions)
	}
	if opts.Variant == 0 {
		opts.Variant = Classic
	}
	if !opts.Variant.Valid() {
		return nil, fmt.Errorf("%w: ruleset %d", ErrInvalidOptions, opts.Variant)
	}
	if opts.Level == 0 {
		opts.Level = MinLevel
	}
	if !opts.Level.Valid() {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidOptions, opts.Level)
	}
	if opts.Targets == ([MaxLevel]int{}) {
		opts.Targets = DefaultTargets
	}
	if err := ValidateTargets(opts.Targets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.Tones == nil {
		opts.Tones = Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	pcg := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	e := &Engine{
		clock:     opts.Clock,
		sched:     opts.Scheduler,
		tones:     opts.Tones,
		log:       opts.Logger,
		timing:    opts.Timing.normalized(),
		pcg:       pcg,
		rng:       rand.New(pcg),
		variant:   opts.Variant,
		level:     opts.Level,
		targets:   opts.Targets,
		target:    opts.Targets[opts.Level-1],
		mode:      ModeIdle,
		sequence:  make(Sequence, 0, MaxSequence),
		playerPos: 1,
		toneOwner: noOwner,
	}
	e.beep = e.timing.BeepFor(1)
	e.lastUpdate = e.clock.Now()
	for i := range e.active {
		e.active[i] = true
	}
	return e, nil
}

// ValidateTargets checks per-level target lengths: each within
// 1..MaxSequence and strictly increasing.
func ValidateTargets(targets [MaxLevel]int) error {
	prev := 0
	for i, t := range targets {
		if t < 1 || t > MaxSequence {
			return fmt.Errorf("level %d target %d outside 1..%d", i+1, t, MaxSequence)
		}
		if t <= prev {
			return fmt.Errorf("level %d target %d not above level %d", i+1, t, i)
		}
		prev = t
	}
	return nil
}

// StartGame begins a new game from any mode.
func (e *Engine) StartGame() {
	e.sched.Cancel(TimerTimeout)
	e.lit = false
	e.pause = 0
	for i := range e.active {
		e.active[i] = true
	}
	e.releaseButtons()
	e.winTone, e.razzTone = 0, 0
	e.sequence = append(e.sequence[:0], e.nextColor())
	e.beep = e.timing.BeepFor(1)
	e.playerPos = 1
	e.lastUpdate = e.clock.Now()
	e.log.Debug("game started", "variant", e.variant, "level", e.level, "target", e.target)
	e.playCurrent()
}

// PlayLast replays the last sequence. Ignored unless the game is idle or
// finished.
func (e *Engine) PlayLast() {
	if !e.canReplay() {
		return
	}
	e.releaseButtons()
	e.lit = false
	e.cursor = 0
	e.setMode(ModeReplaying)
	e.update()
}

// PlayLongest replays the longest sequence completed this session.
// Ignored unless the game is idle or finished.
func (e *Engine) PlayLongest() {
	if !e.canReplay() {
		return
	}
	e.releaseButtons()
	e.lit = false
	e.cursor = 0
	e.beep = e.timing.BeepFor(len(e.longest))
	e.setMode(ModeLongPlaying)
	e.update()
}

func (e *Engine) canReplay() bool {
	return e.mode == ModeIdle || e.mode.Finished()
}

// Press handles a player pressing button index.
func (e *Engine) Press(index int) {
	if e.mode != ModeListening || !validIndex(index) {
		return
	}
	e.heardPress = true
	c := Color(index)
	if e.playerPos > len(e.sequence) && e.cursor == len(e.sequence) && len(e.sequence) < e.target {
		e.sequence = append(e.sequence, c)
		e.playerPos++
	}
	if e.cursor >= len(e.sequence) {
		return
	}
	if e.sequence[e.cursor] == c {
		e.maintainLongest()
		e.showPress(index)
		return
	}
	e.sched.Cancel(TimerTimeout)
	if e.variant == Elimination {
		e.active[c] = false
	}
	e.lose()
}

// Release handles a player releasing button index. Releases without a
// matching press are ignored.
func (e *Engine) Release(index int) {
	if e.mode != ModeListening || !validIndex(index) || !e.heardPress {
		return
	}
	e.heardPress = false
	e.lastUpdate = e.clock.Now()
	e.armTimeout()
	if e.cursor >= len(e.sequence) {
		return
	}
	c := Color(index)
	if e.sequence[e.cursor] != c {
		e.sched.Cancel(TimerTimeout)
		if e.variant == Elimination {
			e.active[c] = false
		}
		e.lose()
		return
	}

	e.showRelease(index)
	e.cursor++
	if e.cursor < len(e.sequence) {
		e.playerPos++
		return
	}

	if len(e.sequence) < e.target {
		if e.variant == PlayerExtends {
			if e.playerPos > len(e.sequence) {
				// the player just added a color; replay from the start
				e.playerPos = 1
				e.cursor = 0
			} else {
				e.playerPos++
			}
			return
		}
		e.sequence = append(e.sequence, e.nextColor())
		e.playerPos = 1
		e.beep = e.timing.BeepFor(len(e.sequence))
		e.cycle()
		return
	}

	if e.variant == Elimination && len(e.sequence) == RazzLength {
		e.razzWin()
		return
	}
	e.win()
}

// ReleaseAllButtons unlights every button and silences the tone.
func (e *Engine) ReleaseAllButtons() {
	for i := range e.pressed {
		e.pressed[i] = false
	}
	if e.toneOwner != noOwner {
		e.tones.StopTone()
		e.toneOwner = noOwner
	}
	e.notifyCleared()
}

// SetLevel selects a difficulty level. Changing the target abandons the
// game in progress.
func (e *Engine) SetLevel(l Level) {
	if !l.Valid() {
		return
	}
	e.level = l
	target := e.targets[l-1]
	if target == e.target {
		return
	}
	e.target = target
	if len(e.sequence) > target {
		e.sequence = e.sequence[:target]
	}
	e.reset()
}

// SetVariant selects a ruleset. Changing it abandons the game in progress.
func (e *Engine) SetVariant(v Variant) {
	if !v.Valid() || v == e.variant {
		return
	}
	e.variant = v
	e.reset()
}

func (e *Engine) reset() {
	e.sched.Cancel(TimerTimeout)
	e.sched.Cancel(TimerTick)
	e.pause = 0
	if e.lit {
		e.releaseButtons()
		e.lit = false
	}
	e.cursor = 0
	e.setMode(ModeIdle)
}

// SetLongest seeds the longest sequence, typically from storage.
// Sequences with bad colors are ignored.
func (e *Engine) SetLongest(s Sequence) {
	if len(s) > MaxSequence {
		s = s[:MaxSequence]
	}
	for _, c := range s {
		if !c.Valid() {
			return
		}
	}
	e.stopLongPlaying()
	e.longest = s.Clone()
}

// ClearLongest forgets the longest sequence.
func (e *Engine) ClearLongest() {
	e.stopLongPlaying()
	e.longest = nil
}

// stopLongPlaying abandons a replay of the longest sequence before it is
// replaced.
func (e *Engine) stopLongPlaying() {
	if e.mode == ModeLongPlaying {
		e.reset()
	}
}

// Close stops the timers and any sounding tone.
func (e *Engine) Close() {
	e.sched.Cancel(TimerTick)
	e.sched.Cancel(TimerTimeout)
	e.tones.StopTone()
	e.toneOwner = noOwner
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// Variant returns the active ruleset.
func (e *Engine) Variant() Variant { return e.variant }

// Level returns the difficulty level.
func (e *Engine) Level() Level { return e.level }

// TargetLength returns the sequence length that wins the game.
func (e *Engine) TargetLength() int { return e.target }

// SequenceLength returns the current sequence length.
func (e *Engine) SequenceLength() int { return len(e.sequence) }

// Sequence returns a copy of the current sequence.
func (e *Engine) Sequence() Sequence { return e.sequence.Clone() }

// Longest returns a copy of the longest sequence completed this session.
func (e *Engine) Longest() Sequence { return e.longest.Clone() }

// Cursor returns the playback or input position.
func (e *Engine) Cursor() int { return e.cursor }

// PlayerPosition returns the 1-based position the player is entering.
func (e *Engine) PlayerPosition() int { return e.playerPos }

// Accepting reports whether the engine is waiting for player input.
func (e *Engine) Accepting() bool { return e.mode == ModeListening }

// ActiveColors reports which colors are still in play.
func (e *Engine) ActiveColors() [TotalButtons]bool { return e.active }

// IsButtonLit reports whether button index is lit.
func (e *Engine) IsButtonLit(index int) bool {
	return validIndex(index) && e.pressed[index]
}

// Timing returns the normalized timings in use.
func (e *Engine) Timing() Timing { return e.timing }

func validIndex(i int) bool {
	return i >= 0 && i < TotalButtons
}

func (e *Engine) setMode(m Mode) {
	if m == e.mode {
		return
	}
	e.log.Debug("mode", "from", e.mode, "to", m, "length", len(e.sequence))
	e.mode = m
}

func (e *Engine) quiescent() bool {
	switch e.mode {
	case ModeIdle, ModeWon, ModeLost, ModePaused:
		return true
	}
	return false
}

// update advances playback when the current hold has elapsed and
// reschedules itself for the remainder.
func (e *Engine) update() {
	now := e.clock.Now()
	hold := e.hold()
	if e.mode != ModeListening {
		if elapsed := now.Sub(e.lastUpdate); elapsed >= hold {
			e.playNext()
			e.lastUpdate = now
			hold = e.hold()
		} else {
			hold -= elapsed
		}
	}
	if e.quiescent() {
		e.sched.Cancel(TimerTick)
		return
	}
	e.sched.Schedule(TimerTick, hold, e.update)
}

// hold is how long the current playback step lasts.
func (e *Engine) hold() time.Duration {
	if e.pause > 0 {
		return e.pause
	}
	switch e.mode {
	case ModeWinning:
		switch {
		case e.lit && e.winTone <= 1:
			return e.timing.VictoryLead
		case e.lit:
			return e.timing.VictoryOn
		default:
			return e.timing.VictoryGap
		}
	case ModeRazzing:
		if e.lit {
			return e.timing.RazzOn()
		}
		return e.timing.Between
	}
	if e.lit {
		return e.beep
	}
	return e.timing.Between
}

func (e *Engine) playNext() {
	if e.pause > 0 {
		e.pause = 0
		return
	}
	switch e.mode {
	case ModePlaying, ModeReplaying:
		if e.cursor >= len(e.sequence) {
			e.finishPlayback()
			return
		}
		c := int(e.sequence[e.cursor])
		if !e.lit {
			e.showPress(c)
			e.lit = true
			return
		}
		e.showRelease(c)
		e.lit = false
		e.cursor++
		if e.cursor == len(e.sequence) {
			e.finishPlayback()
		}

	case ModeLongPlaying:
		if e.lit {
			if e.cursor < len(e.longest) {
				e.showRelease(int(e.longest[e.cursor]))
			}
			e.lit = false
			e.cursor++
			return
		}
		if e.cursor < len(e.longest) {
			e.showPress(int(e.longest[e.cursor]))
			e.lit = true
			return
		}
		e.beep = e.timing.BeepFor(len(e.sequence))
		e.cursor = 0
		e.setMode(ModeIdle)

	case ModeWinning:
		if len(e.sequence) == 0 {
			e.setMode(ModeWon)
			return
		}
		last := int(e.sequence[len(e.sequence)-1])
		if !e.lit {
			e.showPress(last)
			e.lit = true
			e.winTone++
			return
		}
		e.showRelease(last)
		e.lit = false
		if e.winTone >= victoryFlashes {
			e.setMode(ModeWon)
		}

	case ModeRazzing:
		if e.razzTone >= len(razzTune) {
			// one more step lights nothing and sounds the razz, then the
			// game carries on as after a miss
			if !e.lit {
				e.playTone(ToneRazz, noOwner)
				e.lit = true
				return
			}
			e.lit = false
			e.razzTone = len(razzTune) + 1
			e.lose()
			return
		}
		c := int(razzTune[e.razzTone])
		if !e.lit {
			e.showPress(c)
			e.lit = true
			return
		}
		e.showRelease(c)
		e.lit = false
		e.razzTone++

	case ModeLosing:
		e.setMode(ModeLost)
	}
}

func (e *Engine) finishPlayback() {
	e.cursor = 0
	if e.mode == ModePlaying {
		e.heardPress = false
		e.setMode(ModeListening)
		e.armTimeout()
		return
	}
	e.setMode(ModeIdle)
}

func (e *Engine) playCurrent() {
	e.cursor = 0
	e.setMode(ModePlaying)
	e.update()
}

// cycle pauses, then plays the grown sequence.
func (e *Engine) cycle() {
	e.lastUpdate = e.clock.Now()
	e.pause = e.timing.RoundPause
	e.playerPos = 1
	e.playCurrent()
}

func (e *Engine) win() {
	e.log.Debug("game won", "length", len(e.sequence))
	e.lastUpdate = e.clock.Now()
	e.pause = e.timing.RoundPause
	e.winTone = 0
	e.setMode(ModeWinning)
	e.update()
}

func (e *Engine) razzWin() {
	e.log.Debug("razz", "length", len(e.sequence))
	e.lastUpdate = e.clock.Now()
	e.pause = e.timing.RoundPause
	e.razzTone = 0
	e.setMode(ModeRazzing)
	e.update()
}

func (e *Engine) lose() {
	e.log.Debug("miss", "variant", e.variant, "length", len(e.sequence), "position", e.cursor)
	e.playTone(ToneLose, noOwner)
	if e.variant == Elimination {
		if e.activeCount() == 1 {
			e.win()
			return
		}
		e.sequence = append(e.sequence[:0], e.nextColor())
		e.beep = e.timing.BeepFor(1)
		e.cycle()
		return
	}
	e.setMode(ModeLosing)
	e.update()
}

func (e *Engine) onTimeout() {
	if e.mode != ModeListening {
		return
	}
	e.log.Debug("timeout", "position", e.cursor)
	if e.variant == Elimination && e.cursor < len(e.sequence) {
		e.active[e.sequence[e.cursor]] = false
	}
	e.lose()
}

func (e *Engine) armTimeout() {
	e.sched.Schedule(TimerTimeout, e.timing.Timeout, e.onTimeout)
}

// nextColor draws a random color, restricted to colors still in play under
// Elimination.
func (e *Engine) nextColor() Color {
	if e.variant != Elimination || e.activeCount() == 0 {
		return Color(e.rng.IntN(TotalButtons))
	}
	for {
		c := Color(e.rng.IntN(TotalButtons))
		if e.active[c] {
			return c
		}
	}
}

func (e *Engine) activeCount() int {
	n := 0
	for _, a := range e.active {
		if a {
			n++
		}
	}
	return n
}

func (e *Engine) maintainLongest() {
	if len(e.sequence) > len(e.longest) {
		e.longest = e.sequence.Clone()
	}
}

func (e *Engine) showPress(index int) {
	e.sched.Cancel(TimerTimeout)
	if !validIndex(index) || e.pressed[index] {
		return
	}
	e.pressed[index] = true
	own := ToneFor(Color(index))
	switch e.mode {
	case ModeWon:
		e.playTone(ToneVictory, index)
	case ModeWinning:
		e.playTone(ToneRed, index)
	case ModeLosing:
		e.playTone(ToneLose, index)
		return
	case ModeListening:
		if e.cursor < len(e.sequence) && e.sequence[e.cursor] == Color(index) {
			e.playTone(own, index)
		} else {
			e.playTone(ToneLose, index)
		}
	case ModeRazzing:
		if e.razzTone < len(razzTune) {
			e.playTone(own, index)
		}
	default:
		e.playTone(own, index)
	}
	e.notifyButton(index)
}

func (e *Engine) showRelease(index int) {
	if !validIndex(index) || !e.pressed[index] {
		return
	}
	e.pressed[index] = false
	if e.toneOwner == index {
		e.tones.StopTone()
		e.toneOwner = noOwner
	}
	e.notifyButton(index)
}

func (e *Engine) releaseButtons() {
	for i := range TotalButtons {
		e.showRelease(i)
	}
}

func (e *Engine) playTone(t ToneID, owner int) {
	e.tones.PlayTone(t)
	e.toneOwner = owner
}
