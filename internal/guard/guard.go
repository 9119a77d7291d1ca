package guard

import (
	"sync"

	"github.com/MitsuruMe/momomoving-fe/internal/session"
)

type Decision int

const (
	// Fallback shows the caller's placeholder while the session resolves.
	Fallback Decision = iota
	// Redirect sends the user to the login screen and renders nothing.
	Redirect
	// Render lets the protected screen through.
	Render
)

const LoginPath = "/login"

func (d Decision) String() string {
	switch d {
	case Fallback:
		return "fallback"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

func Evaluate(s session.State) Decision {
	if s.Loading || s.Status == session.StatusUninitialized || s.Status == session.StatusInitializing {
		return Fallback
	}
	if s.IsAuthenticated() {
		return Render
	}
	return Redirect
}

// Observable is a session that reports its changes.
type Observable interface {
	Snapshot() session.State
	Subscribe(fn func(session.State)) func()
}

// Watch calls onChange with the current decision and again whenever the
// decision changes. onChange runs serialized and must not block. The
// returned function stops watching.
func Watch(s Observable, onChange func(Decision, session.State)) func() {
	var (
		mu      sync.Mutex
		started bool
		last    Decision
	)
	emit := func(state session.State) {
		d := Evaluate(state)
		mu.Lock()
		defer mu.Unlock()
		if started && d == last {
			return
		}
		started = true
		last = d
		onChange(d, state)
	}

	stop := s.Subscribe(emit)
	emit(s.Snapshot())
	return stop
}
