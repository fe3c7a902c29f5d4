package simon

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-simon/internal/core"
)

type toneLog struct {
	played []ToneID
	stops  int
}

func (t *toneLog) PlayTone(id ToneID) { t.played = append(t.played, id) }
func (t *toneLog) StopTone()          { t.stops++ }

func (t *toneLog) count(id ToneID) int {
	n := 0
	for _, p := range t.played {
		if p == id {
			n++
		}
	}
	return n
}

type buttonCounter struct {
	changes map[int]int
	clears  int
}

func (c *buttonCounter) ButtonStateChanged(i int) { c.changes[i]++ }
func (c *buttonCounter) AllButtonsCleared()       { c.clears++ }

func newTestEngine(t *testing.T, v Variant, l Level, seed uint64) (*Engine, *core.ManualScheduler, *toneLog) {
	t.Helper()
	sched := core.NewManualScheduler(time.Unix(0, 0))
	tones := &toneLog{}
	e, err := New(Options{
		Variant:   v,
		Level:     l,
		Seed:      seed,
		Clock:     sched,
		Scheduler: sched,
		Tones:     tones,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e, sched, tones
}

// waitForMode advances virtual time in small steps until the engine
// reaches want.
func waitForMode(t *testing.T, e *Engine, sched *core.ManualScheduler, want Mode) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < time.Minute; elapsed += 10 * time.Millisecond {
		if e.Mode() == want {
			return
		}
		sched.Advance(10 * time.Millisecond)
	}
	t.Fatalf("mode = %v after a minute, expected %v", e.Mode(), want)
}

func playBack(e *Engine, seq Sequence) {
	for _, c := range seq {
		e.Press(int(c))
		e.Release(int(c))
	}
}

func wrongColor(e *Engine, not Color) Color {
	active := e.ActiveColors()
	for c := Green; c <= Blue; c++ {
		if c != not && active[c] {
			return c
		}
	}
	return not
}

func TestNewRejectsBadOptions(t *testing.T) {
	sched := core.NewManualScheduler(time.Unix(0, 0))
	tests := []struct {
		name string
		opts Options
	}{
		{"no scheduler", Options{}},
		{"bad variant", Options{Scheduler: sched, Variant: 9}},
		{"bad level", Options{Scheduler: sched, Level: 5}},
		{"target too long", Options{Scheduler: sched, Targets: [MaxLevel]int{8, 14, 20, 40}}},
		{"targets not increasing", Options{Scheduler: sched, Targets: [MaxLevel]int{8, 8, 20, 30}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("New() error = %v, expected ErrInvalidOptions", err)
			}
		})
	}
}

func TestNewEngineIsIdle(t *testing.T) {
	e, sched, _ := newTestEngine(t, 0, 0, 1)
	if e.Mode() != ModeIdle {
		t.Errorf("Mode() = %v, expected idle", e.Mode())
	}
	if e.Variant() != Classic || e.Level() != 1 || e.TargetLength() != 8 {
		t.Errorf("defaults = %v/%d/%d, expected classic/1/8", e.Variant(), e.Level(), e.TargetLength())
	}
	if _, ok := sched.Pending(TimerTick); ok {
		t.Error("idle engine should not schedule a tick")
	}
}

func TestFirstFlashTiming(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 7)
	e.StartGame()
	first := int(e.Sequence()[0])

	sched.Advance(49 * time.Millisecond)
	if e.IsButtonLit(first) {
		t.Fatal("button lit before the between gap elapsed")
	}
	sched.Advance(1 * time.Millisecond)
	if !e.IsButtonLit(first) {
		t.Fatal("button not lit at +50ms")
	}
	if tones.count(ToneFor(Color(first))) != 1 {
		t.Errorf("own tone played %d times, expected 1", tones.count(ToneFor(Color(first))))
	}
	sched.Advance(419 * time.Millisecond)
	if !e.IsButtonLit(first) {
		t.Fatal("button released before the 420ms beep elapsed")
	}
	sched.Advance(1 * time.Millisecond)
	if e.IsButtonLit(first) {
		t.Error("button still lit at +470ms")
	}
	if e.Mode() != ModeListening {
		t.Errorf("Mode() = %v at +470ms, expected listening", e.Mode())
	}
	if _, ok := sched.Pending(TimerTimeout); !ok {
		t.Error("timeout not armed on entering listening")
	}
}

func TestClassicGameWon(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 42)
	e.StartGame()
	for round := 1; round <= 8; round++ {
		waitForMode(t, e, sched, ModeListening)
		if e.SequenceLength() != round {
			t.Fatalf("round %d: SequenceLength() = %d", round, e.SequenceLength())
		}
		playBack(e, e.Sequence())
	}
	if e.Mode() != ModeWinning {
		t.Fatalf("Mode() = %v after the last round, expected winning", e.Mode())
	}
	waitForMode(t, e, sched, ModeWon)

	if !e.Longest().Equal(e.Sequence()) {
		t.Errorf("Longest() = %v, expected %v", e.Longest(), e.Sequence())
	}
	if e.SequenceLength() != 8 {
		t.Errorf("SequenceLength() = %d, expected 8", e.SequenceLength())
	}
	if _, ok := sched.Pending(TimerTick); ok {
		t.Error("won engine still ticking")
	}
}

func TestVictoryFlashesLastColorSevenTimes(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 3)
	counter := &buttonCounter{changes: map[int]int{}}
	e.StartGame()
	for e.SequenceLength() < 8 || e.Mode() != ModeWinning {
		waitForMode(t, e, sched, ModeListening)
		playBack(e, e.Sequence())
	}
	e.AddListener(counter)
	before := tones.count(ToneRed)
	waitForMode(t, e, sched, ModeWon)

	last := int(e.Sequence()[7])
	if got := counter.changes[last]; got != 2*victoryFlashes {
		t.Errorf("button %d changed %d times, expected %d", last, got, 2*victoryFlashes)
	}
	if got := tones.count(ToneRed) - before; got != victoryFlashes {
		t.Errorf("victory tone played %d times, expected %d", got, victoryFlashes)
	}
}

func TestTimeoutLosesOnce(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 11)
	e.StartGame()
	for e.SequenceLength() < 3 {
		waitForMode(t, e, sched, ModeListening)
		playBack(e, e.Sequence())
	}
	waitForMode(t, e, sched, ModeListening)

	sched.Advance(2900 * time.Millisecond)
	if e.Mode() != ModeListening {
		t.Fatalf("Mode() = %v before the timeout, expected listening", e.Mode())
	}
	sched.Advance(100 * time.Millisecond)
	if e.Mode() != ModeLosing && e.Mode() != ModeLost {
		t.Fatalf("Mode() = %v after the timeout, expected losing", e.Mode())
	}
	waitForMode(t, e, sched, ModeLost)
	if n := tones.count(ToneLose); n != 1 {
		t.Errorf("lose tone played %d times, expected 1", n)
	}
	if e.SequenceLength() != 3 {
		t.Errorf("SequenceLength() = %d after losing, expected 3", e.SequenceLength())
	}
}

func TestWrongPressLosesOnce(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 5)
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)

	want := e.Sequence()[0]
	wrong := wrongColor(e, want)
	e.Press(int(wrong))
	e.Release(int(wrong))
	waitForMode(t, e, sched, ModeLost)

	if n := tones.count(ToneLose); n != 1 {
		t.Errorf("lose tone played %d times, expected 1", n)
	}
	if _, ok := sched.Pending(TimerTimeout); ok {
		t.Error("timeout still armed after losing")
	}
}

func TestEliminationLastColorStandingWins(t *testing.T) {
	e, sched, _ := newTestEngine(t, Elimination, 1, 9)
	e.StartGame()

	for miss := 1; miss <= 3; miss++ {
		waitForMode(t, e, sched, ModeListening)
		want := e.Sequence()[0]
		if !e.ActiveColors()[want] {
			t.Fatalf("miss %d: sequence uses eliminated color %v", miss, want)
		}
		wrong := wrongColor(e, want)
		e.Press(int(wrong))
		if e.ActiveColors()[wrong] {
			t.Fatalf("miss %d: %v still active", miss, wrong)
		}
		if miss < 3 && e.Mode() != ModePlaying {
			t.Fatalf("miss %d: Mode() = %v, expected playing", miss, e.Mode())
		}
	}
	if e.Mode() != ModeWinning {
		t.Fatalf("Mode() = %v after three misses, expected winning", e.Mode())
	}
	waitForMode(t, e, sched, ModeWon)

	seq := e.Sequence()
	e.Press(int(Green))
	e.Press(int(Red))
	if e.Mode() != ModeWon || !e.Sequence().Equal(seq) {
		t.Error("presses after winning changed the game")
	}
}

func TestPlayerExtendsAppendsChosenColor(t *testing.T) {
	e, sched, _ := newTestEngine(t, PlayerExtends, 1, 21)
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)

	playBack(e, e.Sequence())
	if e.Mode() != ModeListening || e.SequenceLength() != 1 {
		t.Fatalf("after repeating: mode %v length %d, expected listening 1", e.Mode(), e.SequenceLength())
	}

	e.Press(int(Blue))
	e.Press(int(Blue))
	e.Release(int(Blue))
	if e.SequenceLength() != 2 {
		t.Fatalf("SequenceLength() = %d, expected 2", e.SequenceLength())
	}
	if got := e.Sequence()[1]; got != Blue {
		t.Errorf("added color = %v, expected blue", got)
	}
	if e.Cursor() != 0 || e.PlayerPosition() != 1 {
		t.Errorf("cursor/position = %d/%d, expected 0/1", e.Cursor(), e.PlayerPosition())
	}

	playBack(e, e.Sequence())
	e.Press(int(Yellow))
	e.Release(int(Yellow))
	if e.SequenceLength() != 3 || e.Mode() != ModeListening {
		t.Errorf("after second add: length %d mode %v, expected 3 listening", e.SequenceLength(), e.Mode())
	}
}

func TestPressIsIdempotent(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 13)
	counter := &buttonCounter{changes: map[int]int{}}
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)
	e.AddListener(counter)

	c := int(e.Sequence()[0])
	played := len(tones.played)
	e.Press(c)
	e.Press(c)
	if got := len(tones.played) - played; got != 1 {
		t.Errorf("tones played = %d, expected 1", got)
	}
	if counter.changes[c] != 1 {
		t.Errorf("button changes = %d, expected 1", counter.changes[c])
	}
	if !e.IsButtonLit(c) {
		t.Error("pressed button not lit")
	}
	if e.SequenceLength() != 1 {
		t.Errorf("SequenceLength() = %d, expected 1", e.SequenceLength())
	}
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 17)
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)

	e.Release(int(e.Sequence()[0]))
	if e.Cursor() != 0 || e.Mode() != ModeListening {
		t.Errorf("stray release moved the game: cursor %d mode %v", e.Cursor(), e.Mode())
	}
}

func TestInputIgnoredOutsideListening(t *testing.T) {
	e, _, tones := newTestEngine(t, Classic, 1, 19)
	e.Press(int(Green))
	e.Release(int(Green))
	e.Press(-1)
	e.Press(TotalButtons)
	if e.Mode() != ModeIdle || len(tones.played) != 0 {
		t.Errorf("idle engine reacted to input: mode %v tones %v", e.Mode(), tones.played)
	}
}

func TestReleaseAllButtons(t *testing.T) {
	e, sched, tones := newTestEngine(t, Classic, 1, 23)
	counter := &buttonCounter{changes: map[int]int{}}
	e.AddListener(counter)
	e.StartGame()
	sched.Advance(50 * time.Millisecond)
	first := int(e.Sequence()[0])
	if !e.IsButtonLit(first) {
		t.Fatal("first button not lit")
	}

	stops := tones.stops
	e.ReleaseAllButtons()
	if e.IsButtonLit(first) {
		t.Error("button still lit")
	}
	if tones.stops != stops+1 {
		t.Errorf("StopTone called %d times, expected 1", tones.stops-stops)
	}
	if counter.clears != 1 {
		t.Errorf("AllButtonsCleared called %d times, expected 1", counter.clears)
	}
}

func TestSetLevelAbandonsGame(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 29)
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)

	e.SetLevel(1)
	if e.Mode() != ModeListening {
		t.Errorf("same level reset the game: mode %v", e.Mode())
	}
	e.SetLevel(0)
	e.SetLevel(5)
	if e.Level() != 1 {
		t.Errorf("invalid level accepted: %d", e.Level())
	}

	e.SetLevel(3)
	if e.Mode() != ModeIdle || e.TargetLength() != 20 || e.Level() != 3 {
		t.Errorf("after SetLevel(3): mode %v target %d level %d", e.Mode(), e.TargetLength(), e.Level())
	}
	if _, ok := sched.Pending(TimerTimeout); ok {
		t.Error("timeout survived a level change")
	}
	e.Press(int(e.Sequence()[0]))
	if e.Mode() != ModeIdle {
		t.Error("press accepted after level change")
	}
}

func TestSetVariant(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 31)
	e.StartGame()
	waitForMode(t, e, sched, ModeListening)

	e.SetVariant(Variant(7))
	if e.Variant() != Classic || e.Mode() != ModeListening {
		t.Error("invalid ruleset changed the game")
	}
	e.SetVariant(Elimination)
	if e.Variant() != Elimination || e.Mode() != ModeIdle {
		t.Errorf("after SetVariant: %v %v", e.Variant(), e.Mode())
	}
}

func TestReplayLastAndLongest(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 37)
	e.StartGame()
	for e.SequenceLength() < 3 {
		waitForMode(t, e, sched, ModeListening)
		playBack(e, e.Sequence())
	}
	waitForMode(t, e, sched, ModeListening)
	e.Press(int(wrongColor(e, e.Sequence()[0])))
	waitForMode(t, e, sched, ModeLost)

	e.PlayLast()
	if e.Mode() != ModeReplaying {
		t.Fatalf("Mode() = %v, expected replaying", e.Mode())
	}
	e.PlayLongest()
	if e.Mode() != ModeReplaying {
		t.Error("PlayLongest interrupted a replay")
	}
	waitForMode(t, e, sched, ModeIdle)

	// the third round was never repeated
	if got := len(e.Longest()); got != 2 {
		t.Errorf("len(Longest()) = %d, expected 2", got)
	}
	e.PlayLongest()
	if e.Mode() != ModeLongPlaying {
		t.Fatalf("Mode() = %v, expected long-playing", e.Mode())
	}
	waitForMode(t, e, sched, ModeIdle)
}

func TestReplayEmptySequenceReturnsToIdle(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 41)
	e.PlayLast()
	waitForMode(t, e, sched, ModeIdle)
	e.PlayLongest()
	waitForMode(t, e, sched, ModeIdle)
}

func TestEliminationDrawsOnlyActiveColors(t *testing.T) {
	e, _, _ := newTestEngine(t, Elimination, 1, 43)
	e.active = [TotalButtons]bool{false, true, false, true}
	for range 200 {
		if c := e.nextColor(); c != Red && c != Blue {
			t.Fatalf("nextColor() = %v, expected red or blue", c)
		}
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a, _, _ := newTestEngine(t, Classic, 1, 99)
	b, _, _ := newTestEngine(t, Classic, 1, 99)
	for range 10 {
		if ca, cb := a.nextColor(), b.nextColor(); ca != cb {
			t.Fatalf("same seed diverged: %v vs %v", ca, cb)
		}
	}
}

func newTargetEngine(t *testing.T, v Variant, top int) (*Engine, *core.ManualScheduler, *toneLog) {
	t.Helper()
	sched := core.NewManualScheduler(time.Unix(0, 0))
	tones := &toneLog{}
	e, err := New(Options{
		Variant:   v,
		Level:     MaxLevel,
		Targets:   [MaxLevel]int{8, 14, 20, top},
		Seed:      5,
		Clock:     sched,
		Scheduler: sched,
		Tones:     tones,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e, sched, tones
}

// playToTarget repeats every round without a mistake until the game
// reaches its target.
func playToTarget(t *testing.T, e *Engine, sched *core.ManualScheduler) {
	t.Helper()
	for e.Mode() != ModeWinning && e.Mode() != ModeRazzing {
		waitForMode(t, e, sched, ModeListening)
		playBack(e, e.Sequence())
	}
}

func TestRazzBoundary(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		target  int
		razz    bool
	}{
		{"elimination 30", Elimination, 30, false},
		{"elimination 31", Elimination, 31, true},
		{"elimination 32", Elimination, 32, false},
		{"classic 30", Classic, 30, false},
		{"classic 31", Classic, 31, false},
		{"classic 32", Classic, 32, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sched, tones := newTargetEngine(t, tt.variant, tt.target)
			e.StartGame()
			playToTarget(t, e, sched)

			if e.SequenceLength() != tt.target {
				t.Fatalf("SequenceLength() = %d, expected %d", e.SequenceLength(), tt.target)
			}
			if got := e.Mode() == ModeRazzing; got != tt.razz {
				t.Fatalf("Mode() = %v at the target, razz expected %v", e.Mode(), tt.razz)
			}
			if !tt.razz {
				waitForMode(t, e, sched, ModeWon)
				if n := tones.count(ToneRazz); n != 0 {
					t.Errorf("razz tone played %d times, expected 0", n)
				}
			}
		})
	}
}

func TestRazzTauntThenMiss(t *testing.T) {
	e, sched, tones := newTargetEngine(t, Elimination, RazzLength)
	e.StartGame()
	playToTarget(t, e, sched)
	if e.Mode() != ModeRazzing {
		t.Fatalf("Mode() = %v, expected razzing", e.Mode())
	}

	counter := &buttonCounter{changes: map[int]int{}}
	e.AddListener(counter)
	loses := tones.count(ToneLose)
	waitForMode(t, e, sched, ModePlaying)

	total := 0
	for _, n := range counter.changes {
		total += n
	}
	if total != 2*len(razzTune) {
		t.Errorf("taunt changed buttons %d times, expected %d", total, 2*len(razzTune))
	}
	if got := counter.changes[int(Green)]; got != 8 {
		t.Errorf("green changed %d times, expected 8", got)
	}
	if n := tones.count(ToneRazz); n != 1 {
		t.Errorf("razz tone played %d times, expected 1", n)
	}
	if n := tones.count(ToneLose) - loses; n != 1 {
		t.Errorf("lose tone played %d times after the taunt, expected 1", n)
	}
	if last := tones.played[len(tones.played)-2:]; last[0] != ToneRazz || last[1] != ToneLose {
		t.Errorf("last tones = %v, expected razz then lose", last)
	}

	// every color is still in play, so the game starts over at one color
	if e.SequenceLength() != 1 {
		t.Errorf("SequenceLength() = %d after the taunt, expected 1", e.SequenceLength())
	}
	if e.ActiveColors() != [TotalButtons]bool{true, true, true, true} {
		t.Errorf("ActiveColors() = %v, expected all", e.ActiveColors())
	}
}

func TestRazzWithOneColorLeftWins(t *testing.T) {
	e, sched, tones := newTestEngine(t, Elimination, 1, 2)
	s := e.Snapshot()
	s.Mode = ModeRazzing
	s.Sequence = Sequence{Blue}
	s.RazzTone = len(razzTune)
	s.Active = [TotalButtons]bool{false, false, false, true}
	if err := e.Restore(s); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	waitForMode(t, e, sched, ModeWinning)
	waitForMode(t, e, sched, ModeWon)
	if n := tones.count(ToneRazz); n != 1 {
		t.Errorf("razz tone played %d times, expected 1", n)
	}
	if n := tones.count(ToneLose); n != 1 {
		t.Errorf("lose tone played %d times, expected 1", n)
	}
}

func TestVictoryFlashTiming(t *testing.T) {
	e, sched, _ := newTestEngine(t, Classic, 1, 8)
	e.StartGame()
	playToTarget(t, e, sched)
	last := int(e.Sequence()[7])

	steps := []struct {
		advance time.Duration
		lit     bool
	}{
		{819 * time.Millisecond, false}, // round pause plus gap
		{1 * time.Millisecond, true},    // first flash at +820ms
		{19 * time.Millisecond, true},
		{1 * time.Millisecond, false}, // first flash lasts 20ms
		{20 * time.Millisecond, true}, // second flash at +860ms
		{69 * time.Millisecond, true},
		{1 * time.Millisecond, false}, // later flashes last 70ms
	}
	for i, st := range steps {
		sched.Advance(st.advance)
		if got := e.IsButtonLit(last); got != st.lit {
			t.Fatalf("step %d: IsButtonLit() = %v, expected %v", i, got, st.lit)
		}
	}
}

func TestLongestChangedDuringLongReplay(t *testing.T) {
	tests := []struct {
		name   string
		change func(*Engine)
	}{
		{"clear", func(e *Engine) { e.ClearLongest() }},
		{"replace", func(e *Engine) { e.SetLongest(Sequence{Green}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sched, _ := newTestEngine(t, Classic, 1, 4)
			e.SetLongest(Sequence{Red, Blue, Green})
			e.PlayLongest()
			for range 100 {
				if e.IsButtonLit(int(Red)) {
					break
				}
				sched.Advance(10 * time.Millisecond)
			}
			if !e.IsButtonLit(int(Red)) {
				t.Fatal("long replay never lit the first color")
			}

			tt.change(e)
			sched.Advance(2 * time.Second)

			if e.Mode() != ModeIdle {
				t.Errorf("Mode() = %v, expected idle", e.Mode())
			}
			for i := range TotalButtons {
				if e.IsButtonLit(i) {
					t.Errorf("button %d still lit", i)
				}
			}
			if _, ok := sched.Pending(TimerTick); ok {
				t.Error("engine still ticking")
			}
		})
	}
}
