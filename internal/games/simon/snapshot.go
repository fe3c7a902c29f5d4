package simon

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// ErrInvalidSnapshot is returned when a snapshot fails validation.
var ErrInvalidSnapshot = errors.New("simon: invalid snapshot")

// Snapshot is the complete resumable state of an engine.
type Snapshot struct {
	Variant        Variant
	Level          Level
	Longest        Sequence
	Sequence       Sequence
	Cursor         int
	Target         int
	PlayerPosition int
	Mode           Mode
	WinTone        int
	RazzTone       int
	Lit            bool
	Beep           time.Duration
	HeardPress     bool
	Pause          time.Duration
	Active         [TotalButtons]bool
	// RNG is the marshaled random source; empty keeps the current one.
	RNG []byte
}

// Snapshot captures the engine state.
func (e *Engine) Snapshot() Snapshot {
	rng, _ := e.pcg.MarshalBinary()
	return Snapshot{
		Variant:        e.variant,
		Level:          e.level,
		Longest:        e.longest.Clone(),
		Sequence:       e.sequence.Clone(),
		Cursor:         e.cursor,
		Target:         e.target,
		PlayerPosition: e.playerPos,
		Mode:           e.mode,
		WinTone:        e.winTone,
		RazzTone:       e.razzTone,
		Lit:            e.lit,
		Beep:           e.beep,
		HeardPress:     e.heardPress,
		Pause:          e.pause,
		Active:         e.active,
		RNG:            rng,
	}
}

// Validate checks that every field is within range.
func (s Snapshot) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
	switch {
	case !s.Variant.Valid():
		return bad("ruleset %d", s.Variant)
	case !s.Level.Valid():
		return bad("level %d", s.Level)
	case s.Mode < ModeIdle || s.Mode >= ModePaused:
		return bad("mode %d", s.Mode)
	case s.Target < 1 || s.Target > MaxSequence:
		return bad("target %d", s.Target)
	case len(s.Sequence) > s.Target:
		return bad("sequence of %d exceeds target %d", len(s.Sequence), s.Target)
	case len(s.Longest) > MaxSequence:
		return bad("longest sequence of %d", len(s.Longest))
	case s.PlayerPosition < 0 || s.PlayerPosition > MaxSequence+1:
		return bad("player position %d", s.PlayerPosition)
	case s.WinTone < 0 || s.WinTone > victoryFlashes:
		return bad("victory step %d", s.WinTone)
	case s.RazzTone < 0 || s.RazzTone > len(razzTune)+1:
		return bad("razz step %d", s.RazzTone)
	case s.Beep < 0 || s.Pause < 0:
		return bad("negative duration")
	}
	limit := len(s.Sequence)
	if s.Mode == ModeLongPlaying {
		limit = len(s.Longest)
	}
	if s.Cursor < 0 || s.Cursor > limit {
		return bad("cursor %d beyond %d", s.Cursor, limit)
	}
	switch s.Mode {
	case ModePlaying, ModeReplaying, ModeLongPlaying:
		if s.Lit && s.Cursor >= limit {
			return bad("lit cursor %d at end of %d", s.Cursor, limit)
		}
	case ModeWinning:
		if len(s.Sequence) == 0 {
			return bad("winning with an empty sequence")
		}
	}
	for _, seq := range []Sequence{s.Sequence, s.Longest} {
		for _, c := range seq {
			if !c.Valid() {
				return bad("color %d", c)
			}
		}
	}
	if len(s.RNG) > 0 {
		var p rand.PCG
		if err := p.UnmarshalBinary(s.RNG); err != nil {
			return bad("random state: %v", err)
		}
	}
	return nil
}

// Restore replaces the engine state with s and resumes the timing loop.
// On error the engine is left unchanged.
func (e *Engine) Restore(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(s.RNG) > 0 {
		if err := e.pcg.UnmarshalBinary(s.RNG); err != nil {
			return fmt.Errorf("%w: random state: %v", ErrInvalidSnapshot, err)
		}
	}

	e.sched.Cancel(TimerTick)
	e.sched.Cancel(TimerTimeout)
	e.setMode(ModePaused)
	if e.toneOwner != noOwner {
		e.tones.StopTone()
		e.toneOwner = noOwner
	}
	e.pressed = [TotalButtons]bool{}

	e.variant = s.Variant
	e.level = s.Level
	e.target = s.Target
	e.longest = s.Longest.Clone()
	e.sequence = append(make(Sequence, 0, MaxSequence), s.Sequence...)
	e.cursor = s.Cursor
	e.playerPos = s.PlayerPosition
	e.winTone = s.WinTone
	e.razzTone = s.RazzTone
	e.lit = s.Lit
	e.beep = s.Beep
	e.heardPress = s.HeardPress
	e.pause = s.Pause
	e.active = s.Active
	e.lastUpdate = e.clock.Now()

	e.setMode(s.Mode)
	e.log.Debug("restored", "mode", e.mode, "length", len(e.sequence))
	e.notifyCleared()
	if e.mode == ModeListening {
		e.armTimeout()
	}
	e.update()
	return nil
}

// Snapshot field keys, as persisted.
const (
	KeyGame           = "game"
	KeyLevel          = "level"
	KeyLongest        = "longest"
	KeySequence       = "sequence"
	KeyCursor         = "cursor"
	KeyTarget         = "target"
	KeyPlayerPosition = "player_position"
	KeyMode           = "mode"
	KeyWinTone        = "win_tone"
	KeyRazzTone       = "razz_tone"
	KeyLit            = "lit"
	KeyBeep           = "beep_ms"
	KeyHeardPress     = "heard_press"
	KeyPause          = "pause_ms"
	KeyActive         = "active_colors"
	KeyRNG            = "rng"
)

// Fields flattens the snapshot into string key/value pairs.
func (s Snapshot) Fields() map[string]string {
	active := make([]byte, TotalButtons)
	for i, a := range s.Active {
		active[i] = '0'
		if a {
			active[i] = '1'
		}
	}
	return map[string]string{
		KeyGame:           s.Variant.String(),
		KeyLevel:          strconv.Itoa(int(s.Level)),
		KeyLongest:        s.Longest.String(),
		KeySequence:       s.Sequence.String(),
		KeyCursor:         strconv.Itoa(s.Cursor),
		KeyTarget:         strconv.Itoa(s.Target),
		KeyPlayerPosition: strconv.Itoa(s.PlayerPosition),
		KeyMode:           s.Mode.String(),
		KeyWinTone:        strconv.Itoa(s.WinTone),
		KeyRazzTone:       strconv.Itoa(s.RazzTone),
		KeyLit:            strconv.FormatBool(s.Lit),
		KeyBeep:           strconv.FormatInt(s.Beep.Milliseconds(), 10),
		KeyHeardPress:     strconv.FormatBool(s.HeardPress),
		KeyPause:          strconv.FormatInt(s.Pause.Milliseconds(), 10),
		KeyActive:         string(active),
		KeyRNG:            hex.EncodeToString(s.RNG),
	}
}

// SnapshotFromFields parses the output of Fields. Every key except rng is
// required. The result is validated.
func SnapshotFromFields(f map[string]string) (Snapshot, error) {
	var s Snapshot
	get := func(key string) (string, error) {
		v, ok := f[key]
		if !ok {
			return "", fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, key)
		}
		return v, nil
	}
	atoi := func(key string) (int, error) {
		v, err := get(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, key, err)
		}
		return n, nil
	}
	boolean := func(key string) (bool, error) {
		v, err := get(key)
		if err != nil {
			return false, err
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, key, err)
		}
		return b, nil
	}
	seq := func(key string) (Sequence, error) {
		v, err := get(key)
		if err != nil {
			return nil, err
		}
		out, err := ParseSequence(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, key, err)
		}
		return out, nil
	}

	game, err := get(KeyGame)
	if err != nil {
		return s, err
	}
	if s.Variant, err = ParseVariant(game); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	mode, err := get(KeyMode)
	if err != nil {
		return s, err
	}
	if s.Mode, err = ParseMode(mode); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	level, err := atoi(KeyLevel)
	if err != nil {
		return s, err
	}
	s.Level = Level(level)
	if s.Longest, err = seq(KeyLongest); err != nil {
		return s, err
	}
	if s.Sequence, err = seq(KeySequence); err != nil {
		return s, err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{KeyCursor, &s.Cursor},
		{KeyTarget, &s.Target},
		{KeyPlayerPosition, &s.PlayerPosition},
		{KeyWinTone, &s.WinTone},
		{KeyRazzTone, &s.RazzTone},
	}
	for _, it := range ints {
		if *it.dst, err = atoi(it.key); err != nil {
			return s, err
		}
	}
	beep, err := atoi(KeyBeep)
	if err != nil {
		return s, err
	}
	s.Beep = time.Duration(beep) * time.Millisecond
	pause, err := atoi(KeyPause)
	if err != nil {
		return s, err
	}
	s.Pause = time.Duration(pause) * time.Millisecond
	if s.Lit, err = boolean(KeyLit); err != nil {
		return s, err
	}
	if s.HeardPress, err = boolean(KeyHeardPress); err != nil {
		return s, err
	}

	active, err := get(KeyActive)
	if err != nil {
		return s, err
	}
	if len(active) != TotalButtons {
		return s, fmt.Errorf("%w: %s %q", ErrInvalidSnapshot, KeyActive, active)
	}
	for i := range TotalButtons {
		switch active[i] {
		case '1':
			s.Active[i] = true
		case '0':
		default:
			return s, fmt.Errorf("%w: %s %q", ErrInvalidSnapshot, KeyActive, active)
		}
	}

	if v, ok := f[KeyRNG]; ok && v != "" {
		if s.RNG, err = hex.DecodeString(v); err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, KeyRNG, err)
		}
	}
	return s, s.Validate()
}
