package simon

// ToneSource plays the sounds the engine asks for. PlayTone replaces any
// tone already sounding; StopTone silences it. Implementations must not
// block.
type ToneSource interface {
	PlayTone(ToneID)
	StopTone()
}

// Listener observes button lighting. Callbacks run synchronously inside
// engine calls and must not call back into the engine.
type Listener interface {
	ButtonStateChanged(index int)
	AllButtonsCleared()
}

// Silent is a ToneSource that plays nothing.
type Silent struct{}

func (Silent) PlayTone(ToneID) {}
func (Silent) StopTone()       {}

// AddListener registers l for button notifications.
func (e *Engine) AddListener(l Listener) {
	if l == nil {
		return
	}
	e.listeners = append(e.listeners, l)
}

// RemoveListener unregisters l. Listeners must be comparable.
func (e *Engine) RemoveListener(l Listener) {
	for i, cur := range e.listeners {
		if cur == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Engine) notifyButton(index int) {
	for _, l := range e.listeners {
		l.ButtonStateChanged(index)
	}
}

func (e *Engine) notifyCleared() {
	for _, l := range e.listeners {
		l.AllButtonsCleared()
	}
}
