// Package historyprompt decides when to ask which calendar date a progress
// edit applies to. Transition is pure: effects are returned, never executed.
package historyprompt

import (
	"math"
	"strings"
	"time"
)

// Phase is the machine's position: Idle → Armed → (Prompting | Idle).
type Phase string

const (
	Idle      Phase = "idle"
	Armed     Phase = "armed"
	Prompting Phase = "prompting"
)

// Effect is a side effect the caller must carry out after a transition.
type Effect string

const (
	EffectNone Effect = "none"
	// EffectShowPrompt asks the user for the history date.
	EffectShowPrompt Effect = "show_prompt"
	// EffectPersist stores State.Suppression.
	EffectPersist Effect = "persist"
)

const (
	// SuppressFor is how long an answered or dismissed prompt stays quiet.
	SuppressFor = 8 * time.Hour
	// ChangeEpsilon is the smallest total change that counts as an edit.
	ChangeEpsilon = 1e-6
	// UntitledIdentity stands in for a project with no name or title.
	UntitledIdentity = "(untitled)"
)

// Suppression records the last answered (or dismissed) prompt.
type Suppression struct {
	Day      string    `json:"day"`
	Session  string    `json:"session"`
	Identity string    `json:"identity"`
	At       time.Time `json:"at"`
	// Date is the calendar date chosen; blank when dismissed.
	Date string `json:"date,omitempty"`
}

// Active reports whether prompting is still suppressed for the given
// context. Any of a new day, a new session, a different project or the
// window elapsing lifts it.
func (s *Suppression) Active(now time.Time, session, identity string) bool {
	if s == nil || s.At.IsZero() {
		return false
	}
	switch {
	case s.Day != dayKey(now):
		return false
	case s.Session == "" || s.Session != session:
		return false
	case s.Identity != identity:
		return false
	case now.Sub(s.At) >= SuppressFor:
		return false
	}
	return true
}

// State is the full machine state.
type State struct {
	Phase       Phase        `json:"phase"`
	LastTotal   *float64     `json:"last_total,omitempty"`
	Suppression *Suppression `json:"suppression,omitempty"`
}

// Context identifies when and where an event happens.
type Context struct {
	Now      time.Time
	Session  string
	Identity string
}

// Event drives a transition.
type Event interface{ isEvent() }

// Arm is sent on every raw edit of a scope's progress.
type Arm struct{}

// Observe reports the recomputed project total.
type Observe struct {
	Context
	Total float64
}

// Select records the date the user picked.
type Select struct {
	Context
	Date string
}

// Dismiss records the prompt being closed without an answer. It suppresses
// exactly like a selection.
type Dismiss struct {
	Context
}

func (Arm) isEvent()     {}
func (Observe) isEvent() {}
func (Select) isEvent()  {}
func (Dismiss) isEvent() {}

// Transition applies one event.
func Transition(s State, ev Event) (State, Effect) {
	if s.Phase == "" {
		s.Phase = Idle
	}
	switch e := ev.(type) {
	case Arm:
		if s.Phase == Idle {
			s.Phase = Armed
		}
		return s, EffectNone

	case Observe:
		prev := s.LastTotal
		total := e.Total
		s.LastTotal = &total
		if s.Phase != Armed {
			return s, EffectNone
		}
		s.Phase = Idle
		if !shouldPrompt(prev, total) || s.Suppression.Active(e.Now, e.Session, e.Identity) {
			return s, EffectNone
		}
		s.Phase = Prompting
		return s, EffectShowPrompt

	case Select:
		s.Phase = Idle
		s.Suppression = suppress(e.Context, e.Date)
		return s, EffectPersist

	case Dismiss:
		s.Phase = Idle
		s.Suppression = suppress(e.Context, "")
		return s, EffectPersist
	}
	return s, EffectNone
}

func shouldPrompt(prev *float64, total float64) bool {
	last := 0.0
	if prev != nil {
		last = *prev
	}
	if math.Abs(total-last) <= ChangeEpsilon {
		return false
	}
	return math.Abs(total) > ChangeEpsilon
}

func suppress(c Context, date string) *Suppression {
	return &Suppression{
		Day:      dayKey(c.Now),
		Session:  c.Session,
		Identity: c.Identity,
		At:       c.Now,
		Date:     date,
	}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ProjectIdentity derives the identity that latches suppression to a
// project from its name and title fields.
func ProjectIdentity(fields ...string) string {
	for _, f := range fields {
		norm := strings.Join(strings.Fields(strings.ToLower(f)), " ")
		if norm != "" {
			return norm
		}
	}
	return UntitledIdentity
}
