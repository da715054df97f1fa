package game

import (
	"testing"

	"picreveal-quiz-service/internal/domain"
)

func TestSoloScoring(t *testing.T) {
	keeper := NewScoreKeeper(domain.ModeSolo)

	keeper.RecordCorrect()
	keeper.RecordIncorrect()
	keeper.RecordCorrect()
	keeper.EndTurn() // no-op in solo

	snap := keeper.Snapshot()
	if snap.Solo != 2 {
		t.Fatalf("expected solo score 2, got %d", snap.Solo)
	}
	if keeper.Winner() != domain.VerdictNone {
		t.Fatalf("solo games have no winner, got %v", keeper.Winner())
	}
}

func TestSpeedScoresLikeSolo(t *testing.T) {
	keeper := NewScoreKeeper(domain.ModeSpeed)
	keeper.RecordCorrect()
	keeper.EndTurn()
	keeper.RecordCorrect()

	if snap := keeper.Snapshot(); snap.Solo != 2 {
		t.Fatalf("expected speed score 2, got %d", snap.Solo)
	}
}

func TestTeamTurnAlternation(t *testing.T) {
	keeper := NewScoreKeeper(domain.ModeTeam)
	if keeper.ActiveTeam() != domain.TeamRed {
		t.Fatalf("red starts, got %v", keeper.ActiveTeam())
	}

	// One flip per resolved question regardless of outcome: after an even
	// number of turns the initial team is active again.
	for i := 0; i < 6; i++ {
		keeper.EndTurn()
	}
	if keeper.ActiveTeam() != domain.TeamRed {
		t.Fatalf("after even turns expected red, got %v", keeper.ActiveTeam())
	}
	keeper.EndTurn()
	if keeper.ActiveTeam() != domain.TeamBlue {
		t.Fatalf("after odd turns expected blue, got %v", keeper.ActiveTeam())
	}
}

func TestTeamScoringAndWinner(t *testing.T) {
	keeper := NewScoreKeeper(domain.ModeTeam)

	keeper.RecordCorrect() // red 1
	keeper.EndTurn()
	keeper.RecordIncorrect() // blue misses
	keeper.EndTurn()
	keeper.RecordCorrect() // red 2
	keeper.EndTurn()
	keeper.RecordCorrect() // blue 1

	snap := keeper.Snapshot()
	if snap.Red != 2 || snap.Blue != 1 {
		t.Fatalf("expected 2-1, got %d-%d", snap.Red, snap.Blue)
	}
	if keeper.Winner() != domain.VerdictRed {
		t.Fatalf("expected red verdict, got %v", keeper.Winner())
	}

	keeper.RecordCorrect() // blue 2, tie
	if keeper.Winner() != domain.VerdictTie {
		t.Fatalf("expected tie, got %v", keeper.Winner())
	}
}
