package memory

import (
	"testing"

	"picreveal-quiz-service/internal/game"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := game.NewSession("s1")
	store.Create(session)
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}
	if got := len(store.List()); got != 1 {
		t.Fatalf("expected 1 session listed, got %d", got)
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
