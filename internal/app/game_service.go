package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"picreveal-quiz-service/internal/domain"
	"picreveal-quiz-service/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis-
// backed liveness, etc).
type SessionRepository interface {
	Create(session *game.Session)
	Get(id string) (*game.Session, bool)
	Delete(id string)
	List() []*game.Session
}

// BankRepository loads question-bank content (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankEditor mutates question banks. Edits are only legal while no active
// session references the bank.
type BankEditor interface {
	SaveBank(ctx context.Context, bank domain.Bank) error
	AddQuestion(ctx context.Context, bankID string, q domain.Question) error
	RemoveQuestion(ctx context.Context, bankID, questionID string) error
	ClearBank(ctx context.Context, bankID string) error
}

// BankCacheInvalidator drops cached bank content after an edit so the next
// read reloads from the backing store.
type BankCacheInvalidator interface {
	Invalidate(ctx context.Context, bankID string)
}

// ErrBankEditingDisabled is returned when no bank editor is configured.
var ErrBankEditingDisabled = errors.New("bank editing not supported by this deployment")

// GameService contains the picture-reveal game use cases.
type GameService struct {
	sessions    SessionRepository
	banks       BankRepository
	editor      BankEditor
	invalidator BankCacheInvalidator
	sessionOpts []game.Option
}

// Option customizes the service.
type Option func(*GameService)

// WithSessionOptions forwards options to every session the service creates;
// tests use it to shrink countdown ticks.
func WithSessionOptions(opts ...game.Option) Option {
	return func(s *GameService) { s.sessionOpts = opts }
}

// WithBankCacheInvalidator wires cache invalidation into the edit path.
func WithBankCacheInvalidator(inv BankCacheInvalidator) Option {
	return func(s *GameService) { s.invalidator = inv }
}

func NewGameService(store SessionRepository, banks BankRepository, editor BankEditor, opts ...Option) *GameService {
	s := &GameService{sessions: store, banks: banks, editor: editor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession loads the configured bank, creates a session, and starts it.
// It returns the initial snapshot; the session ID is inside.
func (s *GameService) StartSession(ctx context.Context, cfg domain.SessionConfig) (game.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return game.Snapshot{}, err
	}
	bank, err := s.banks.GetBank(ctx, cfg.BankID)
	if err != nil {
		return game.Snapshot{}, err
	}

	session := game.NewSession(uuid.NewString(), s.sessionOpts...)
	if err := session.Start(cfg, &bank); err != nil {
		return game.Snapshot{}, err
	}
	s.sessions.Create(session)
	return session.Snapshot(), nil
}

// SelectCell poses the next question for a hidden cell.
func (s *GameService) SelectCell(sessionID string, cell int) (domain.Question, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Question{}, domain.ErrSessionNotFound
	}
	return session.SelectCell(cell)
}

// SubmitAnswer judges the pending question.
func (s *GameService) SubmitAnswer(sessionID string, optionIndex int) (domain.Outcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.OutcomeNone, domain.ErrSessionNotFound
	}
	return session.SubmitAnswer(optionIndex)
}

// ForceWin ends the game immediately; the "guessed the picture" escape hatch.
func (s *GameService) ForceWin(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.ForceWin()
}

// ReturnToSetup discards the session's game state but keeps the session
// registered so clients can start again.
func (s *GameService) ReturnToSetup(sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ReturnToSetup()
	return nil
}

// Restart starts a new game on an existing session, reusing its ID and its
// subscribers.
func (s *GameService) Restart(ctx context.Context, sessionID string, cfg domain.SessionConfig) (game.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return game.Snapshot{}, domain.ErrSessionNotFound
	}
	if err := cfg.Validate(); err != nil {
		return game.Snapshot{}, err
	}
	bank, err := s.banks.GetBank(ctx, cfg.BankID)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := session.Start(cfg, &bank); err != nil {
		return game.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Snapshot returns the queryable state of a session.
func (s *GameService) Snapshot(sessionID string) (game.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return game.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel of session events. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *GameService) Subscribe(sessionID string) (<-chan game.Event, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// EndSession drops a session from the store, cancelling its countdown.
func (s *GameService) EndSession(sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.ReturnToSetup()
	s.sessions.Delete(sessionID)
}

// bankInUse reports whether any running session references the bank. Setup
// and Won sessions hold no claim on bank content.
func (s *GameService) bankInUse(bankID string) bool {
	for _, session := range s.sessions.List() {
		snap := session.Snapshot()
		if snap.Config.BankID != bankID {
			continue
		}
		if snap.State == game.StateIdle || snap.State == game.StateQuestionPending {
			return true
		}
	}
	return false
}

func (s *GameService) guardBankEdit(bankID string) error {
	if s.editor == nil {
		return ErrBankEditingDisabled
	}
	if s.bankInUse(bankID) {
		return domain.ErrBankInUse
	}
	return nil
}

func (s *GameService) invalidate(ctx context.Context, bankID string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, bankID)
	}
}

// SaveBank replaces a bank wholesale.
func (s *GameService) SaveBank(ctx context.Context, bank domain.Bank) error {
	if err := s.guardBankEdit(bank.ID); err != nil {
		return err
	}
	for _, q := range bank.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	if err := s.editor.SaveBank(ctx, bank); err != nil {
		return err
	}
	s.invalidate(ctx, bank.ID)
	return nil
}

// AddQuestion appends a validated question to a bank.
func (s *GameService) AddQuestion(ctx context.Context, bankID string, q domain.Question) error {
	if err := s.guardBankEdit(bankID); err != nil {
		return err
	}
	if err := s.editor.AddQuestion(ctx, bankID, q); err != nil {
		return err
	}
	s.invalidate(ctx, bankID)
	return nil
}

// RemoveQuestion removes a question by ID; absent IDs are a no-op.
func (s *GameService) RemoveQuestion(ctx context.Context, bankID, questionID string) error {
	if err := s.guardBankEdit(bankID); err != nil {
		return err
	}
	if err := s.editor.RemoveQuestion(ctx, bankID, questionID); err != nil {
		return err
	}
	s.invalidate(ctx, bankID)
	return nil
}

// ClearBank empties a bank.
func (s *GameService) ClearBank(ctx context.Context, bankID string) error {
	if err := s.guardBankEdit(bankID); err != nil {
		return err
	}
	if err := s.editor.ClearBank(ctx, bankID); err != nil {
		return err
	}
	s.invalidate(ctx, bankID)
	return nil
}
