package game

import "picreveal-quiz-service/internal/domain"

// EventType tags session events delivered to presentation subscribers.
// Sound and visual effects are pure reactions to these; they never feed
// state back into the session.
type EventType string

const (
	EventStarted      EventType = "started"
	EventQuestion     EventType = "question"
	EventTick         EventType = "tick"
	EventCellRevealed EventType = "cellRevealed"
	EventAnswerJudged EventType = "answerJudged"
	EventTurnChanged  EventType = "turnChanged"
	EventWon          EventType = "won"
	EventReset        EventType = "reset"
)

// Event is a single session notification. Only the fields relevant to the
// event type are populated.
type Event struct {
	Type      EventType        `json:"type"`
	Cell      int              `json:"cell,omitempty"`
	Remaining int              `json:"remaining,omitempty"`
	Outcome   domain.Outcome   `json:"outcome,omitempty"`
	Turn      domain.Team      `json:"turn,omitempty"`
	Question  *domain.Question `json:"question,omitempty"`
	Summary   *Summary         `json:"summary,omitempty"`
}

// Summary reports the final standings when a session reaches Won.
type Summary struct {
	Score         domain.ScoreSnapshot `json:"score"`
	RevealedCells int                  `json:"revealedCells"`
	TotalCells    int                  `json:"totalCells"`
	Forced        bool                 `json:"forced"`
}
