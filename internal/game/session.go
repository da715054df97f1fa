package game

import (
	"sync"
	"time"

	"picreveal-quiz-service/internal/domain"
)

// State is the session lifecycle tag. All per-state data (pending cell,
// question, outcome) lives alongside it and is only populated when valid.
type State string

const (
	StateSetup           State = "setup"
	StateIdle            State = "idle"
	StateQuestionPending State = "questionPending"
	StateWon             State = "won"
)

// pendingQuestion is the one selected-but-unresolved cell. The resolved flag
// is flipped under the session lock before any side effect runs, so a late
// timeout and a manual submission can never both resolve the same question.
type pendingQuestion struct {
	cell     int
	question domain.Question
	resolved bool
}

// Session is the game orchestrator: it owns the grid, the score keeper, and
// the countdown, borrows the question bank read-only, and mediates every
// mutation through its command methods.
type Session struct {
	id       string
	interval time.Duration
	now      func() time.Time

	mu            sync.Mutex
	state         State
	cfg           domain.SessionConfig
	bank          *domain.Bank
	grid          *Grid
	score         *ScoreKeeper
	countdown     *Countdown
	questionIndex int
	pending       *pendingQuestion
	lastOutcome   domain.Outcome
	startedAt     time.Time
	subscribers   map[chan Event]struct{}
}

// Option customizes a session; used by tests to shrink tick intervals and
// pin clocks.
type Option func(*Session)

// WithTickInterval overrides the one-second countdown tick.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session in Setup, awaiting Start.
func NewSession(id string, opts ...Option) *Session {
	s := &Session{
		id:          id,
		interval:    time.Second,
		now:         time.Now,
		state:       StateSetup,
		lastOutcome: domain.OutcomeNone,
		subscribers: make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.countdown = NewCountdown(s.interval)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start validates the config and bank and enters Idle with a fresh grid,
// score keeper, and question pointer. Starting over an existing game resets
// it, which is also how a restart after Won works.
func (s *Session) Start(cfg domain.SessionConfig, bank *domain.Bank) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if bank == nil || bank.Len() == 0 {
		return domain.ErrNoQuestions
	}

	grid, err := NewGrid(cfg.GridSize)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdown.Cancel()
	s.cfg = cfg
	s.bank = bank
	s.grid = grid
	s.score = NewScoreKeeper(cfg.Mode)
	s.questionIndex = 0
	s.pending = nil
	s.lastOutcome = domain.OutcomeNone
	s.startedAt = s.now()
	s.state = StateIdle

	s.broadcastLocked(Event{Type: EventStarted, Turn: s.turnLocked()})
	return nil
}

// SelectCell picks a hidden cell and poses the next question, starting the
// countdown. Rejected while another selection is pending, for revealed
// cells, and in any state but Idle.
func (s *Session) SelectCell(cell int) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
	case StateWon:
		return domain.Question{}, domain.ErrSessionFinished
	default:
		return domain.Question{}, domain.ErrInvalidSelection
	}
	if cell < 0 || cell >= s.grid.Cells() {
		return domain.Question{}, domain.ErrOutOfRange
	}
	if s.grid.IsRevealed(cell) {
		return domain.Question{}, domain.ErrInvalidSelection
	}

	question, err := s.bank.Next(s.questionIndex)
	if err != nil {
		return domain.Question{}, err
	}

	p := &pendingQuestion{cell: cell, question: question}
	s.pending = p
	s.lastOutcome = domain.OutcomeNone
	s.state = StateQuestionPending

	s.countdown.Start(s.cfg.TimeLimitSeconds,
		func(remaining int) { s.onTick(p, remaining) },
		func() { s.onExpire(p) },
	)

	q := question
	s.broadcastLocked(Event{Type: EventQuestion, Cell: cell, Question: &q, Turn: s.turnLocked()})
	return question, nil
}

// SubmitAnswer judges the pending question against the given option index.
// Correct answers reveal the selected cell and score; incorrect ones only
// advance the turn. Either way the question pointer moves on.
func (s *Session) SubmitAnswer(optionIndex int) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQuestionPending || s.pending == nil {
		return domain.OutcomeNone, domain.ErrInvalidSubmission
	}
	p := s.pending
	if p.resolved {
		return domain.OutcomeNone, domain.ErrInvalidSubmission
	}
	if optionIndex < 0 || optionIndex >= len(p.question.Options) {
		return domain.OutcomeNone, domain.ErrInvalidSubmission
	}

	return s.resolveLocked(p, optionIndex == p.question.CorrectIndex), nil
}

// ForceWin short-circuits to Won from any non-Won state; the out-of-band
// "guess the picture" escape hatch. It is not a scoring event.
func (s *Session) ForceWin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateWon {
		return domain.ErrSessionFinished
	}
	s.countdown.Cancel()
	if s.pending != nil {
		s.pending.resolved = true
		s.pending = nil
	}
	s.state = StateWon
	s.broadcastLocked(Event{Type: EventWon, Summary: s.summaryLocked(true)})
	return nil
}

// ReturnToSetup discards all session state from any state, leaving the
// session indistinguishable from a freshly constructed one.
func (s *Session) ReturnToSetup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdown.Cancel()
	if s.pending != nil {
		s.pending.resolved = true
	}
	s.cfg = domain.SessionConfig{}
	s.bank = nil
	s.grid = nil
	s.score = nil
	s.questionIndex = 0
	s.pending = nil
	s.lastOutcome = domain.OutcomeNone
	s.startedAt = time.Time{}
	s.state = StateSetup

	s.broadcastLocked(Event{Type: EventReset})
}

// onExpire resolves a timed-out question as incorrect. The pending pointer
// pins the resolution to the question the countdown was started for; a
// question already resolved by a submission is left alone.
func (s *Session) onExpire(p *pendingQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQuestionPending || s.pending != p || p.resolved {
		return
	}
	s.resolveLocked(p, false)
}

func (s *Session) onTick(p *pendingQuestion, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQuestionPending || s.pending != p || p.resolved {
		return
	}
	s.broadcastLocked(Event{Type: EventTick, Remaining: remaining})
}

// resolveLocked applies a judgement. The resolved flag is set before any
// side effect so no second resolution path can reapply them.
func (s *Session) resolveLocked(p *pendingQuestion, correct bool) domain.Outcome {
	p.resolved = true
	s.countdown.Cancel()

	if correct {
		// Reveal first checked via pending invariants; errors cannot occur
		// for a cell that passed SelectCell.
		_ = s.grid.Reveal(p.cell)
		s.score.RecordCorrect()
		s.lastOutcome = domain.OutcomeCorrect
		s.broadcastLocked(Event{Type: EventCellRevealed, Cell: p.cell})
	} else {
		s.score.RecordIncorrect()
		s.lastOutcome = domain.OutcomeIncorrect
	}
	s.broadcastLocked(Event{Type: EventAnswerJudged, Cell: p.cell, Outcome: s.lastOutcome})

	if correct && s.grid.IsComplete() {
		s.pending = nil
		s.state = StateWon
		s.broadcastLocked(Event{Type: EventWon, Summary: s.summaryLocked(false)})
		return domain.OutcomeCorrect
	}

	outcome := s.lastOutcome
	s.pending = nil
	s.questionIndex = (s.questionIndex + 1) % s.bank.Len()
	wasTurn := s.turnLocked()
	s.score.EndTurn()
	s.state = StateIdle
	if turn := s.turnLocked(); turn != "" && turn != wasTurn {
		s.broadcastLocked(Event{Type: EventTurnChanged, Turn: turn})
	}
	return outcome
}

func (s *Session) turnLocked() domain.Team {
	if s.score == nil || s.cfg.Mode != domain.ModeTeam {
		return ""
	}
	return s.score.ActiveTeam()
}

func (s *Session) summaryLocked(forced bool) *Summary {
	sum := &Summary{Forced: forced}
	if s.score != nil {
		sum.Score = s.score.Snapshot()
	}
	if s.grid != nil {
		sum.RevealedCells = s.grid.RevealedCount()
		sum.TotalCells = s.grid.Cells()
	}
	return sum
}
