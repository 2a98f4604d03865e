// Package session hosts running battles: it owns each Battle exclusively,
// serialises actions against it, abandons battles that go idle and reports
// finished battles to a ResultRecorder.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/game/combat"
)

// Session is one running battle.
type Session struct {
	ID            uuid.UUID
	BattlefieldID string
	StartedAt     time.Time

	mu         sync.Mutex
	battle     *combat.Battle
	objective  combat.Objective
	timer      *IdleTimer
	lastActive time.Time
	closed     bool
	abandoned  bool
	done       chan struct{}
	logger     *zap.Logger
}

// Status is a snapshot of a session's progress.
type Status struct {
	Round   int
	Phase   combat.Phase
	Outcome combat.Outcome
	// Goal is the objective's victory condition.
	Goal string
}

// Status returns a snapshot of the battle.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Round:   s.battle.Round(),
		Phase:   s.battle.Phase(),
		Outcome: s.battle.Outcome(),
		Goal:    s.objective.Condition(s.battle, true),
	}
}

// View calls fn with the battle while holding the session lock. fn must not
// mutate the battle or retain it.
func (s *Session) View(fn func(b *combat.Battle, obj combat.Objective)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.battle, s.objective)
}

// Done is closed when the battle resolves or the session is abandoned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Abandoned reports whether the session ended without a result.
func (s *Session) Abandoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abandoned
}

// close marks the session finished. Caller holds mu.
//
// Postcondition: Returns false when the session was already closed.
func (s *Session) close(abandoned bool) bool {
	if s.closed {
		return false
	}
	s.closed = true
	s.abandoned = abandoned
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.done)
	return true
}

func (s *Session) result(now time.Time) Result {
	r := Result{
		SessionID:   s.ID.String(),
		Battlefield: s.BattlefieldID,
		Outcome:     s.battle.Outcome().String(),
		Rounds:      s.battle.Round(),
		Survivors:   len(s.battle.Players()),
		StartedAt:   s.StartedAt,
		FinishedAt:  now,
	}
	for _, p := range s.battle.Roster() {
		r.Players = append(r.Players, p.Name)
	}
	return r
}
