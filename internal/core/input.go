package core

// Action represents a semantic input, abstracted from physical keys and
// mouse buttons. The platform maps terminal events onto actions.
type Action int

const (
	ActionNone        Action = iota
	ActionGreen              // G, 1 - top-left pad button
	ActionRed                // R, 2 - top-right pad button
	ActionYellow             // Y, 3 - bottom-left pad button
	ActionBlue               // B, 4 - bottom-right pad button
	ActionStart              // S, Enter - start a new game
	ActionLast               // L - replay the last sequence
	ActionLongest            // Shift+L - replay the longest sequence
	ActionLevelUp            // ] - next level
	ActionLevelDown          // [ - previous level
	ActionNextVariant        // V - cycle rulesets
	ActionClearLongest       // C - forget the longest sequence
	ActionHelp               // ? - toggle help
	ActionBack               // Esc - back to menu
	ActionQuit               // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionGreen:
		return "Green"
	case ActionRed:
		return "Red"
	case ActionYellow:
		return "Yellow"
	case ActionBlue:
		return "Blue"
	case ActionStart:
		return "Start"
	case ActionLast:
		return "Last"
	case ActionLongest:
		return "Longest"
	case ActionLevelUp:
		return "LevelUp"
	case ActionLevelDown:
		return "LevelDown"
	case ActionNextVariant:
		return "NextVariant"
	case ActionClearLongest:
		return "ClearLongest"
	case ActionHelp:
		return "Help"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Button returns the pad button index for a button action.
// ok is false for actions that do not press a button.
func (a Action) Button() (index int, ok bool) {
	switch a {
	case ActionGreen:
		return 0, true
	case ActionRed:
		return 1, true
	case ActionYellow:
		return 2, true
	case ActionBlue:
		return 3, true
	default:
		return -1, false
	}
}
