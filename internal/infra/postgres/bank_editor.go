package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"picreveal-quiz-service/internal/domain"
)

// BankEditor persists question-bank edits as JSONB upserts. Question-level
// edits are read-modify-write on the stored document.
type BankEditor struct {
	pool *pgxpool.Pool
}

func NewBankEditor(pool *pgxpool.Pool) *BankEditor {
	return &BankEditor{pool: pool}
}

func (e *BankEditor) SaveBank(ctx context.Context, bank domain.Bank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = e.pool.Exec(ctx,
		`INSERT INTO question_banks (id, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		bank.ID, data)
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}

func (e *BankEditor) AddQuestion(ctx context.Context, bankID string, q domain.Question) error {
	bank, err := e.loadForEdit(ctx, bankID)
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			bank = domain.Bank{ID: bankID}
		} else {
			return err
		}
	}
	if err := bank.Add(q); err != nil {
		return err
	}
	return e.SaveBank(ctx, bank)
}

func (e *BankEditor) RemoveQuestion(ctx context.Context, bankID, questionID string) error {
	bank, err := e.loadForEdit(ctx, bankID)
	if err != nil {
		return err
	}
	bank.Remove(questionID)
	return e.SaveBank(ctx, bank)
}

func (e *BankEditor) ClearBank(ctx context.Context, bankID string) error {
	bank, err := e.loadForEdit(ctx, bankID)
	if err != nil {
		return err
	}
	bank.Clear()
	return e.SaveBank(ctx, bank)
}

func (e *BankEditor) loadForEdit(ctx context.Context, bankID string) (domain.Bank, error) {
	var raw []byte
	err := e.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var bank domain.Bank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	return bank, nil
}
