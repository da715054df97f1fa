package game

import (
	"time"

	"picreveal-quiz-service/internal/domain"
)

// GridView is a query-friendly copy of the grid state.
type GridView struct {
	Size          int    `json:"size"`
	Revealed      []bool `json:"revealed"`
	RevealedCount int    `json:"revealedCount"`
	Complete      bool   `json:"complete"`
}

// Snapshot is the full queryable session state at one instant.
type Snapshot struct {
	ID            string                `json:"id"`
	State         State                 `json:"state"`
	Config        domain.SessionConfig  `json:"config"`
	Grid          *GridView             `json:"grid,omitempty"`
	Score         *domain.ScoreSnapshot `json:"score,omitempty"`
	QuestionIndex int                   `json:"questionIndex"`
	PendingCell   *int                  `json:"pendingCell,omitempty"`
	Question      *domain.Question      `json:"question,omitempty"`
	Remaining     int                   `json:"remaining"`
	LastOutcome   domain.Outcome        `json:"lastOutcome"`
	StartedAt     time.Time             `json:"startedAt"`
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentQuestion returns the pending question, if any.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQuestionPending || s.pending == nil {
		return domain.Question{}, false
	}
	return s.pending.question, true
}

// GridSnapshot returns the reveal state, or nil before Start.
func (s *Session) GridSnapshot() *GridView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gridViewLocked()
}

// ScoreSnapshot returns the score state; the zero snapshot before Start.
func (s *Session) ScoreSnapshot() domain.ScoreSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.score == nil {
		return domain.ScoreSnapshot{}
	}
	return s.score.Snapshot()
}

// RemainingTime reports the countdown while a question is pending. In Idle
// it reports the full time limit the next selection will get.
func (s *Session) RemainingTime() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateQuestionPending:
		return s.countdown.Remaining()
	case StateIdle:
		return s.cfg.TimeLimitSeconds
	default:
		return 0
	}
}

// LastOutcome returns the judgement of the most recently resolved question,
// feeding the presentation layer's feedback dwell.
func (s *Session) LastOutcome() domain.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

// Snapshot captures the full session state for clients attaching mid-game.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:            s.id,
		State:         s.state,
		Config:        s.cfg,
		Grid:          s.gridViewLocked(),
		QuestionIndex: s.questionIndex,
		LastOutcome:   s.lastOutcome,
		StartedAt:     s.startedAt,
	}
	if s.score != nil {
		sc := s.score.Snapshot()
		snap.Score = &sc
	}
	if s.state == StateQuestionPending && s.pending != nil {
		cell := s.pending.cell
		q := s.pending.question
		snap.PendingCell = &cell
		snap.Question = &q
		snap.Remaining = s.countdown.Remaining()
	} else if s.state == StateIdle {
		snap.Remaining = s.cfg.TimeLimitSeconds
	}
	return snap
}

func (s *Session) gridViewLocked() *GridView {
	if s.grid == nil {
		return nil
	}
	return &GridView{
		Size:          s.grid.Size(),
		Revealed:      s.grid.Snapshot(),
		RevealedCount: s.grid.RevealedCount(),
		Complete:      s.grid.IsComplete(),
	}
}

// Subscribe returns a channel of session events. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest event so slow consumers never block the game.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
