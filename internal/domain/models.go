package domain

import "strings"

// Question models a single multiple-choice question hiding behind a grid cell.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return ErrInvalidQuestion
	}
	if len(q.Options) < 2 {
		return ErrInvalidQuestion
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return ErrInvalidQuestion
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ErrInvalidQuestion
	}
	return nil
}

// Bank is an ordered collection of questions with unique IDs.
// It is mutated only between sessions; during play it is read-only.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.Questions)
}

// Next returns the question at index modulo the bank length.
func (b *Bank) Next(index int) (Question, error) {
	if len(b.Questions) == 0 {
		return Question{}, ErrEmptyBank
	}
	if index < 0 {
		index = -index
	}
	return b.Questions[index%len(b.Questions)], nil
}

// Add validates and appends a question, preserving insertion order.
// Duplicate IDs are rejected.
func (b *Bank) Add(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	for _, existing := range b.Questions {
		if existing.ID == q.ID {
			return ErrInvalidQuestion
		}
	}
	b.Questions = append(b.Questions, q)
	return nil
}

// Remove deletes the question with the given ID; absent IDs are a no-op.
func (b *Bank) Remove(id string) {
	for i, q := range b.Questions {
		if q.ID == id {
			b.Questions = append(b.Questions[:i], b.Questions[i+1:]...)
			return
		}
	}
}

// Clear empties the bank.
func (b *Bank) Clear() {
	b.Questions = nil
}

// Mode selects how a session keeps score.
type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeTeam  Mode = "team"
	ModeSpeed Mode = "speed" // scores like solo; shorter time limit is caller policy
)

// Valid reports whether the mode is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSolo, ModeTeam, ModeSpeed:
		return true
	}
	return false
}

// Team identifies one of the two sides in team mode.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Outcome is the judgement of a resolved question.
type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Verdict tags the final result of a team game. Solo games carry no winner
// concept; the final counter is the result.
type Verdict string

const (
	VerdictNone Verdict = ""
	VerdictRed  Verdict = "red"
	VerdictBlue Verdict = "blue"
	VerdictTie  Verdict = "tie"
)

// SessionConfig is the configuration accepted when starting a session.
type SessionConfig struct {
	Mode             Mode   `json:"mode"`
	GridSize         int    `json:"gridSize"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	BankID           string `json:"bankId"`
}

// Validate rejects configs that cannot start a session. Bank emptiness is
// checked separately by the caller once the bank is loaded.
func (c SessionConfig) Validate() error {
	if !c.Mode.Valid() {
		return ErrInvalidConfig
	}
	if c.GridSize < 2 || c.GridSize > 5 {
		return ErrInvalidConfig
	}
	if c.TimeLimitSeconds < 1 {
		return ErrInvalidConfig
	}
	return nil
}

// ScoreSnapshot is a query-friendly view of the score state.
type ScoreSnapshot struct {
	Mode       Mode    `json:"mode"`
	Solo       int     `json:"solo"`
	Red        int     `json:"red"`
	Blue       int     `json:"blue"`
	ActiveTeam Team    `json:"activeTeam,omitempty"`
	Winner     Verdict `json:"winner,omitempty"`
}
