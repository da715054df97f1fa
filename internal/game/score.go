package game

import "picreveal-quiz-service/internal/domain"

// ScoreKeeper tracks either a single counter (solo and speed modes) or two
// team counters with turn alternation. Counters only ever increase.
type ScoreKeeper struct {
	mode   domain.Mode
	solo   int
	red    int
	blue   int
	active domain.Team
}

// NewScoreKeeper starts a keeper for the given mode. Team games begin with
// the red team active.
func NewScoreKeeper(mode domain.Mode) *ScoreKeeper {
	return &ScoreKeeper{mode: mode, active: domain.TeamRed}
}

func (k *ScoreKeeper) teamMode() bool {
	return k.mode == domain.ModeTeam
}

// ActiveTeam returns whose turn it is; meaningful only in team mode.
func (k *ScoreKeeper) ActiveTeam() domain.Team {
	return k.active
}

// RecordCorrect increments the active counter by one.
func (k *ScoreKeeper) RecordCorrect() {
	if !k.teamMode() {
		k.solo++
		return
	}
	if k.active == domain.TeamRed {
		k.red++
	} else {
		k.blue++
	}
}

// RecordIncorrect leaves the counters untouched; scores only increase.
func (k *ScoreKeeper) RecordIncorrect() {}

// EndTurn flips the active team after a resolved question. Solo and speed
// games have no turns, so it is a no-op there.
func (k *ScoreKeeper) EndTurn() {
	if !k.teamMode() {
		return
	}
	if k.active == domain.TeamRed {
		k.active = domain.TeamBlue
	} else {
		k.active = domain.TeamRed
	}
}

// Winner compares the team counters; strictly greater wins, equal is a tie.
// Solo games report no verdict.
func (k *ScoreKeeper) Winner() domain.Verdict {
	if !k.teamMode() {
		return domain.VerdictNone
	}
	switch {
	case k.red > k.blue:
		return domain.VerdictRed
	case k.blue > k.red:
		return domain.VerdictBlue
	default:
		return domain.VerdictTie
	}
}

// Snapshot returns a query-friendly copy of the score state.
func (k *ScoreKeeper) Snapshot() domain.ScoreSnapshot {
	snap := domain.ScoreSnapshot{
		Mode: k.mode,
		Solo: k.solo,
		Red:  k.red,
		Blue: k.blue,
	}
	if k.teamMode() {
		snap.ActiveTeam = k.active
		snap.Winner = k.Winner()
	}
	return snap
}
