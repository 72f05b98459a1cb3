// internal/game/types.go
//
// Core type definitions for the word-guessing engine.
// Defines:
//   - Status: per-letter result of a guess (correct/present/absent).
//   - LetterResult: one letter of a guess with its status and position.
//   - Attempt: a submitted word plus its five LetterResults.
//   - Snapshot: the full serializable state of one session.

package game

// Word length and attempt limit are fixed for every language.
const (
	WordLength  = 5
	MaxAttempts = 6
)

// Status represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter is correct and in the correct position.
//   - "present": letter exists in the secret word but in a different position.
//   - "absent":  letter does not exist in the secret word at all.
type Status string

const (
	StatusCorrect Status = "correct"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// LetterResult is the evaluation of one guessed letter.
type LetterResult struct {
	Letter   string `json:"letter"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}

// Attempt is one submitted guess and its per-letter results.
// Immutable once produced by Submit.
type Attempt struct {
	Word    string         `json:"word"`
	Results []LetterResult `json:"results"`
}

// Snapshot is the complete state of a session, suitable for serializing
// between requests and restoring with Restore. Attempts always equals
// len(Guesses); GameOver is true iff Won or Attempts == MaxAttempts.
type Snapshot struct {
	Lang       string    `json:"lang"`
	SecretWord string    `json:"secretWord"`
	Attempts   int       `json:"attempts"`
	Guesses    []Attempt `json:"guesses"`
	GameOver   bool      `json:"gameOver"`
	Won        bool      `json:"won"`
}
