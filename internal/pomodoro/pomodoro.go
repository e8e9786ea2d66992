// Package pomodoro implements a work/break interval timer. The session is
// driven by Tick so callers own the clock.
package pomodoro

import (
	"fmt"
	"time"
)

// Phase is one timer interval kind
type Phase string

const (
	Work       Phase = "work"
	ShortBreak Phase = "short_break"
	LongBreak  Phase = "long_break"
)

// Label returns a display name for the phase
func (p Phase) Label() string {
	switch p {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Work Time"
	}
}

// Color returns the phase accent colour
func (p Phase) Color() string {
	switch p {
	case ShortBreak:
		return "#2ecc71"
	case LongBreak:
		return "#3498db"
	default:
		return "#e74c3c"
	}
}

// IsBreak reports whether p is a break phase
func (p Phase) IsBreak() bool {
	return p == ShortBreak || p == LongBreak
}

// Durations configures a session
type Durations struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
	Extend         time.Duration
}

// DefaultDurations returns the classic 25/5/15 cycle
func DefaultDurations() Durations {
	return Durations{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
		Extend:         5 * time.Minute,
	}
}

// FromMinutes builds Durations from config values, keeping defaults for
// anything non-positive.
func FromMinutes(work, shortBreak, longBreak, every int) Durations {
	d := DefaultDurations()
	if work > 0 {
		d.Work = time.Duration(work) * time.Minute
	}
	if shortBreak > 0 {
		d.ShortBreak = time.Duration(shortBreak) * time.Minute
	}
	if longBreak > 0 {
		d.LongBreak = time.Duration(longBreak) * time.Minute
	}
	if every > 0 {
		d.LongBreakEvery = every
	}
	return d
}

// Event reports a phase that ran out during Tick
type Event struct {
	Phase       Phase
	Completed   int // work phases completed so far
	WorkMinutes int // minutes credited by this event, zero for breaks
	Next        Phase
}

// Session is a running pomodoro session. It is not safe for concurrent use.
type Session struct {
	durations Durations
	phase     Phase
	remaining time.Duration
	running   bool
	completed int
	total     time.Duration
	// phaseLength is the full length of the current phase, for Progress
	phaseLength time.Duration
}

// New creates a stopped session at the start of a work phase
func New(d Durations) *Session {
	if d.LongBreakEvery <= 0 {
		d.LongBreakEvery = DefaultDurations().LongBreakEvery
	}
	if d.Extend <= 0 {
		d.Extend = DefaultDurations().Extend
	}
	s := &Session{durations: d}
	s.enter(Work)
	return s
}

func (s *Session) enter(p Phase) {
	s.phase = p
	s.remaining = s.length(p)
	s.phaseLength = s.remaining
}

func (s *Session) length(p Phase) time.Duration {
	switch p {
	case ShortBreak:
		return s.durations.ShortBreak
	case LongBreak:
		return s.durations.LongBreak
	default:
		return s.durations.Work
	}
}

// Toggle starts or pauses the clock
func (s *Session) Toggle() {
	if !s.running && s.remaining <= 0 {
		return
	}
	s.running = !s.running
}

// Tick advances a running clock by d. It returns an event when the current
// phase runs out; the clock is then stopped.
func (s *Session) Tick(d time.Duration) (Event, bool) {
	if !s.running || d <= 0 {
		return Event{}, false
	}
	s.remaining -= d
	if s.remaining > 0 {
		return Event{}, false
	}

	s.remaining = 0
	s.running = false
	finished := s.phase

	if finished != Work {
		return Event{Phase: finished, Completed: s.completed, Next: Work}, true
	}

	s.completed++
	s.total += s.durations.Work
	next := ShortBreak
	if s.completed%s.durations.LongBreakEvery == 0 {
		next = LongBreak
	}
	s.enter(next)
	return Event{
		Phase:       Work,
		Completed:   s.completed,
		WorkMinutes: int(s.durations.Work / time.Minute),
		Next:        next,
	}, true
}

// StartWork skips to a fresh running work phase
func (s *Session) StartWork() {
	s.enter(Work)
	s.running = true
}

// ExtendBreak adds the extension to the current break; it does nothing
// during work.
func (s *Session) ExtendBreak() {
	if !s.phase.IsBreak() {
		return
	}
	s.remaining += s.durations.Extend
	if s.remaining > s.phaseLength {
		s.phaseLength = s.remaining
	}
}

// Reset stops the clock and returns to the start of a work phase
func (s *Session) Reset() {
	s.running = false
	s.enter(Work)
}

// ResetSession also clears the completed count and total
func (s *Session) ResetSession() {
	s.Reset()
	s.completed = 0
	s.total = 0
}

// Progress is the elapsed fraction of the current phase in [0,1]
func (s *Session) Progress() float64 {
	if s.phaseLength <= 0 {
		return 0
	}
	p := 1 - float64(s.remaining)/float64(s.phaseLength)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Remaining time in the current phase
func (s *Session) Remaining() time.Duration { return s.remaining }

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.phase }

// Running reports whether the clock is running
func (s *Session) Running() bool { return s.running }

// Completed returns the number of finished work phases
func (s *Session) Completed() int { return s.completed }

// Total returns the work time credited this session
func (s *Session) Total() time.Duration { return s.total }

// UntilLongBreak returns how many work phases remain before a long break
func (s *Session) UntilLongBreak() int {
	every := s.durations.LongBreakEvery
	return every - s.completed%every
}

// FormatClock renders d as MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
