package memory

import (
	"context"
	"sync"

	"picreveal-quiz-service/internal/domain"
)

// BankStore is an in-memory bank loader that also supports edits, serving
// both the read path (app.BankRepository via a cache) and the edit path
// (app.BankEditor). Useful for tests, demos, and single-node deployments.
type BankStore struct {
	mu    sync.RWMutex
	banks map[string]domain.Bank
}

func NewBankStore(banks map[string]domain.Bank) *BankStore {
	if banks == nil {
		banks = make(map[string]domain.Bank)
	}
	copied := make(map[string]domain.Bank, len(banks))
	for id, bank := range banks {
		copied[id] = cloneBank(bank)
	}
	return &BankStore{banks: copied}
}

func (s *BankStore) LoadBank(_ context.Context, bankID string) (domain.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if bank, ok := s.banks[bankID]; ok {
		return cloneBank(bank), nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

func (s *BankStore) SaveBank(_ context.Context, bank domain.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[bank.ID] = cloneBank(bank)
	return nil
}

func (s *BankStore) AddQuestion(_ context.Context, bankID string, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bank, ok := s.banks[bankID]
	if !ok {
		bank = domain.Bank{ID: bankID}
	}
	if err := bank.Add(q); err != nil {
		return err
	}
	s.banks[bankID] = bank
	return nil
}

func (s *BankStore) RemoveQuestion(_ context.Context, bankID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bank, ok := s.banks[bankID]
	if !ok {
		return domain.ErrBankNotFound
	}
	bank.Remove(questionID)
	s.banks[bankID] = bank
	return nil
}

func (s *BankStore) ClearBank(_ context.Context, bankID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bank, ok := s.banks[bankID]
	if !ok {
		return domain.ErrBankNotFound
	}
	bank.Clear()
	s.banks[bankID] = bank
	return nil
}

func cloneBank(bank domain.Bank) domain.Bank {
	questions := make([]domain.Question, len(bank.Questions))
	copy(questions, bank.Questions)
	for i := range questions {
		opts := make([]string, len(questions[i].Options))
		copy(opts, questions[i].Options)
		questions[i].Options = opts
	}
	return domain.Bank{ID: bank.ID, Questions: questions}
}
