package domain

import "errors"

var (
	// ErrInvalidConfig is returned when a session start request carries a bad
	// mode, grid size, or time limit.
	ErrInvalidConfig = errors.New("invalid session config")
	// ErrNoQuestions is returned when a session is started on an empty bank.
	ErrNoQuestions = errors.New("cannot start session without questions")
	// ErrInvalidSelection is returned when selecting a revealed cell, or
	// selecting while another cell is pending or the session is not running.
	ErrInvalidSelection = errors.New("invalid cell selection")
	// ErrInvalidSubmission is returned when answering with no pending question
	// or with an out-of-range option index.
	ErrInvalidSubmission = errors.New("invalid answer submission")
	// ErrEmptyBank is returned when asking an empty bank for a question.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrInvalidQuestion rejects malformed questions added to a bank.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidSize rejects grid sizes outside 2..5.
	ErrInvalidSize = errors.New("invalid grid size")
	// ErrOutOfRange rejects cell indexes outside the grid.
	ErrOutOfRange = errors.New("cell index out of range")
	// ErrAlreadyRevealed guards reveal idempotence; a cell reveals once.
	ErrAlreadyRevealed = errors.New("cell already revealed")
	// ErrSessionNotFound is returned when a session ID is unknown.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrBankNotFound indicates the bank content could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrSessionFinished rejects commands issued to a session in a terminal state.
	ErrSessionFinished = errors.New("game session already finished")
	// ErrBankInUse rejects bank edits while an active session references it.
	ErrBankInUse = errors.New("question bank is in use by an active session")
)
