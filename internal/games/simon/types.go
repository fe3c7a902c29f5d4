package simon

import (
	"fmt"
	"strconv"
	"strings"
)

// Pad geometry and sequence bounds.
const (
	TotalButtons = 4
	MaxSequence  = 32
	// RazzLength is the sequence length at which an Elimination win plays
	// the razz tune instead of the victory flashes.
	RazzLength = 31
)

// Color identifies one of the four pad buttons. The value doubles as the
// button index.
type Color int

const (
	Green Color = iota
	Red
	Yellow
	Blue
)

// Valid reports whether c names a pad button.
func (c Color) Valid() bool {
	return c >= Green && c <= Blue
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// Mode is the engine state. Exactly one mode is active at a time.
type Mode int

const (
	ModeIdle Mode = iota
	ModeListening
	ModePlaying
	ModeReplaying
	ModeLongPlaying
	ModeWinning
	ModeRazzing
	ModeWon
	ModeLosing
	ModeLost
	ModePaused // restore in progress
)

var modeNames = [...]string{
	ModeIdle:        "idle",
	ModeListening:   "listening",
	ModePlaying:     "playing",
	ModeReplaying:   "replaying",
	ModeLongPlaying: "long-playing",
	ModeWinning:     "winning",
	ModeRazzing:     "razzing",
	ModeWon:         "won",
	ModeLosing:      "losing",
	ModeLost:        "lost",
	ModePaused:      "paused",
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("simon: unknown mode %q", s)
}

// Finished reports whether the mode ends a game.
func (m Mode) Finished() bool {
	return m == ModeWon || m == ModeLost
}

// Variant selects the ruleset.
type Variant int

const (
	// Classic replays the whole sequence and adds a random color each round.
	Classic Variant = iota + 1
	// PlayerExtends lets the player choose each new color.
	PlayerExtends
	// Elimination drops a color from play on every miss.
	Elimination
)

// Variants lists every ruleset in menu order.
func Variants() []Variant {
	return []Variant{Classic, PlayerExtends, Elimination}
}

// Valid reports whether v is a known ruleset.
func (v Variant) Valid() bool {
	return v >= Classic && v <= Elimination
}

// String returns the ruleset id used in config files and storage.
func (v Variant) String() string {
	switch v {
	case Classic:
		return "classic"
	case PlayerExtends:
		return "extend"
	case Elimination:
		return "eliminate"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Title returns the display name.
func (v Variant) Title() string {
	switch v {
	case Classic:
		return "Classic"
	case PlayerExtends:
		return "Player Adds"
	case Elimination:
		return "Choose Your Color"
	default:
		return v.String()
	}
}

// Description returns a one-line summary of the rules.
func (v Variant) Description() string {
	switch v {
	case Classic:
		return "Repeat the sequence; the pad adds one color each round."
	case PlayerExtends:
		return "Repeat the sequence, then add the next color yourself."
	case Elimination:
		return "Each miss knocks a color out; be the last color standing."
	default:
		return ""
	}
}

// ParseVariant accepts a ruleset id ("classic"), its number ("1") or its
// title, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		if v := Variant(n); v.Valid() {
			return v, nil
		}
		return 0, fmt.Errorf("simon: unknown ruleset %q", s)
	}
	for _, v := range Variants() {
		if s == v.String() || s == strings.ToLower(v.Title()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("simon: unknown ruleset %q", s)
}

// Level is the difficulty setting, 1 through 4.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 4
)

// DefaultTargets are the target sequence lengths for levels 1..4.
var DefaultTargets = [MaxLevel]int{8, 14, 20, 30}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// LevelForTarget maps a target length back to the level that uses it.
func LevelForTarget(target int, targets [MaxLevel]int) Level {
	for i, t := range targets[:MaxLevel-1] {
		if target <= t {
			return Level(i + 1)
		}
	}
	return MaxLevel
}

// ToneID names a sound the engine asks the tone source to play.
type ToneID int

const (
	ToneGreen ToneID = iota
	ToneRed
	ToneYellow
	ToneBlue
	ToneVictory
	ToneLose
	ToneRazz
)

// ToneFor returns the tone of a pad color.
func ToneFor(c Color) ToneID {
	return ToneID(c)
}

// String returns the tone name.
func (t ToneID) String() string {
	switch t {
	case ToneGreen, ToneRed, ToneYellow, ToneBlue:
		return Color(t).String()
	case ToneVictory:
		return "victory"
	case ToneLose:
		return "lose"
	case ToneRazz:
		return "razz"
	default:
		return fmt.Sprintf("tone(%d)", int(t))
	}
}
