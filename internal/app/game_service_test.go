package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"picreveal-quiz-service/internal/app"
	"picreveal-quiz-service/internal/domain"
	"picreveal-quiz-service/internal/game"
	"picreveal-quiz-service/internal/infra/memory"
)

func sampleBank() domain.Bank {
	return domain.Bank{
		ID: "bank-1",
		Questions: []domain.Question{
			{ID: "q1", Prompt: "First", Options: []string{"A", "B"}, CorrectIndex: 1},
			{ID: "q2", Prompt: "Second", Options: []string{"A", "B"}, CorrectIndex: 0},
		},
	}
}

func newTestService() *app.GameService {
	store := memory.NewSessionStore()
	bankStore := memory.NewBankStore(map[string]domain.Bank{"bank-1": sampleBank()})
	repo := memory.NewBankRepository(bankStore, 5*time.Minute)
	return app.NewGameService(store, repo, bankStore,
		app.WithBankCacheInvalidator(repo))
}

func startCfg() domain.SessionConfig {
	return domain.SessionConfig{
		Mode:             domain.ModeSolo,
		GridSize:         2,
		TimeLimitSeconds: 15,
		BankID:           "bank-1",
	}
}

func TestStartSelectSubmitFlow(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if snap.State != game.StateIdle {
		t.Fatalf("expected idle, got %v", snap.State)
	}

	q, err := service.SelectCell(snap.ID, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	outcome, err := service.SubmitAnswer(snap.ID, q.CorrectIndex)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %v", outcome)
	}

	after, err := service.Snapshot(snap.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if after.Grid.RevealedCount != 1 || after.Score.Solo != 1 {
		t.Fatalf("expected one revealed cell and score 1, got %+v", after)
	}
}

func TestStartSessionUnknownBank(t *testing.T) {
	service := newTestService()
	cfg := startCfg()
	cfg.BankID = "missing"
	if _, err := service.StartSession(context.Background(), cfg); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestCommandsRequireSession(t *testing.T) {
	service := newTestService()
	if _, err := service.SelectCell("nope", 0); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.SubmitAnswer("nope", 0); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := service.ForceWin("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubscribeReceivesGameEvents(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	events, cancel, err := service.Subscribe(snap.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	if _, err := service.SelectCell(snap.ID, 0); err != nil {
		t.Fatalf("select: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == game.EventQuestion {
				return
			}
		case <-deadline:
			t.Fatal("never received question event")
		}
	}
}

func TestBankEditsBlockedWhileSessionActive(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	q := domain.Question{ID: "q3", Prompt: "Third", Options: []string{"A", "B"}, CorrectIndex: 0}
	if err := service.AddQuestion(ctx, "bank-1", q); !errors.Is(err, domain.ErrBankInUse) {
		t.Fatalf("expected ErrBankInUse, got %v", err)
	}

	// Ending the game releases the bank.
	if err := service.ForceWin(snap.ID); err != nil {
		t.Fatalf("force win: %v", err)
	}
	if err := service.AddQuestion(ctx, "bank-1", q); err != nil {
		t.Fatalf("add after finish: %v", err)
	}

	// The cache was invalidated, so a fresh session sees three questions.
	snap2, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	bankLen := 0
	for i := 0; i < 4; i++ {
		question, err := service.SelectCell(snap2.ID, i)
		if err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if question.ID == "q3" {
			bankLen = 3
		}
		if _, err := service.SubmitAnswer(snap2.ID, question.CorrectIndex); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if bankLen != 3 {
		t.Fatal("expected the added question to appear in rotation")
	}
}

func TestRestartReusesSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := service.ForceWin(snap.ID); err != nil {
		t.Fatalf("force win: %v", err)
	}

	again, err := service.Restart(ctx, snap.ID, startCfg())
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if again.ID != snap.ID {
		t.Fatalf("restart must keep the session ID: %s != %s", again.ID, snap.ID)
	}
	if again.State != game.StateIdle {
		t.Fatalf("expected idle after restart, got %v", again.State)
	}
}

func TestEndSessionRemoves(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	snap, err := service.StartSession(ctx, startCfg())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	service.EndSession(snap.ID)
	if _, err := service.Snapshot(snap.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
