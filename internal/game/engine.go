// internal/game/engine.go
//
// Game engine for a single word-guessing session.
// Responsibilities:
//   - Create new sessions (6 attempts, 5-letter words).
//   - Validate and apply guesses (length, alphabetic, session not over).
//   - Evaluate guesses using the classic two-pass algorithm.
//   - Track state transitions: in progress → won/lost.
//
// Notes:
//   - Secret words are chosen by the words package; the engine never draws.
//   - Restore rebuilds a session from a Snapshot with a deep-copied guess
//     history, so two sessions can never share one backing slice.

package game

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation and state errors returned by Submit. A rejected guess never
// consumes an attempt and never touches the guess history.
var (
	ErrInvalidLength     = errors.New("guess must be exactly 5 letters")
	ErrInvalidCharacters = errors.New("guess must contain only letters")
	ErrSessionOver       = errors.New("the game is already over")
)

// Session holds the state of a single game.
type Session struct {
	lang     string
	secret   string // always uppercase
	attempts int
	guesses  []Attempt
	gameOver bool
	won      bool
}

// New constructs a session around an already-drawn secret word.
// The guess history is freshly allocated for every session.
func New(lang, secret string) *Session {
	return &Session{
		lang:    lang,
		secret:  strings.ToUpper(secret),
		guesses: []Attempt{},
	}
}

// Restore rebuilds a session from a snapshot. The guess history is deep
// copied; no side effects run and no secret word is re-drawn.
func Restore(snap Snapshot) *Session {
	guesses := make([]Attempt, len(snap.Guesses))
	for i, g := range snap.Guesses {
		results := make([]LetterResult, len(g.Results))
		copy(results, g.Results)
		guesses[i] = Attempt{Word: g.Word, Results: results}
	}
	return &Session{
		lang:     snap.Lang,
		secret:   snap.SecretWord,
		attempts: snap.Attempts,
		guesses:  guesses,
		gameOver: snap.GameOver,
		won:      snap.Won,
	}
}

// Result is what a caller sees after an accepted guess. SecretWord is
// populated only once the session is terminal.
type Result struct {
	Results     []LetterResult `json:"results"`
	Attempts    int            `json:"attempts"`
	MaxAttempts int            `json:"maxAttempts"`
	GameOver    bool           `json:"gameOver"`
	Won         bool           `json:"won"`
	SecretWord  string         `json:"secretWord,omitempty"`
}

// Submit validates and applies one guess, mutating the session.
//
// Validation (in order, nothing consumed on failure):
//   - exactly 5 characters → ErrInvalidLength
//   - alphabetic only      → ErrInvalidCharacters
//   - session not terminal → ErrSessionOver
//
// Transitions: guess == secret → won; 6th non-winning guess → lost.
func (s *Session) Submit(guess string) (Result, error) {
	guess = strings.ToUpper(strings.TrimSpace(guess))
	// Count runes, not bytes: a 5-letter accented guess is the right length
	// and must fall through to the character check instead.
	if utf8.RuneCountInString(guess) != WordLength {
		return Result{}, ErrInvalidLength
	}
	if !isAlpha(guess) {
		return Result{}, ErrInvalidCharacters
	}
	if s.gameOver {
		return Result{}, ErrSessionOver
	}

	results := Evaluate(guess, s.secret)
	s.attempts++
	s.guesses = append(s.guesses, Attempt{Word: guess, Results: results})

	s.won = guess == s.secret
	s.gameOver = s.won || s.attempts >= MaxAttempts

	res := Result{
		Results:     results,
		Attempts:    s.attempts,
		MaxAttempts: MaxAttempts,
		GameOver:    s.gameOver,
		Won:         s.won,
	}
	if s.gameOver {
		res.SecretWord = s.secret
	}
	return res, nil
}

// Snapshot returns the full current state for persistence between requests.
// The returned guess history is a deep copy.
func (s *Session) Snapshot() Snapshot {
	guesses := make([]Attempt, len(s.guesses))
	for i, g := range s.guesses {
		results := make([]LetterResult, len(g.Results))
		copy(results, g.Results)
		guesses[i] = Attempt{Word: g.Word, Results: results}
	}
	return Snapshot{
		Lang:       s.lang,
		SecretWord: s.secret,
		Attempts:   s.attempts,
		Guesses:    guesses,
		GameOver:   s.gameOver,
		Won:        s.won,
	}
}

// Lang returns the session language.
func (s *Session) Lang() string { return s.lang }

// Over reports whether the session is terminal.
func (s *Session) Over() bool { return s.gameOver }

// Won reports whether the session ended in a win.
func (s *Session) Won() bool { return s.won }

// Attempts returns the number of accepted guesses so far.
func (s *Session) Attempts() int { return s.attempts }

// Evaluate implements the standard two-pass evaluation algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) secret letters.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for
//     that letter, mark present and decrement; otherwise mark absent.
//
// Each secret letter is consumed by at most one guess position, so a secret
// with a single "E" never yields two present results for a guess with two.
// Deterministic and side-effect free; inputs are assumed validated.
func Evaluate(guess, secret string) []LetterResult {
	n := len(secret)
	out := make([]LetterResult, n)

	// Pass 1: correct positions and frequency of the rest.
	freq := make(map[byte]int, n)
	for i := 0; i < n; i++ {
		out[i] = LetterResult{Letter: string(guess[i]), Position: i}
		if guess[i] == secret[i] {
			out[i].Status = StatusCorrect
		} else {
			freq[secret[i]]++
		}
	}

	// Pass 2: resolve present/absent for the remaining tiles.
	for i := 0; i < n; i++ {
		if out[i].Status == StatusCorrect {
			continue
		}
		if freq[guess[i]] > 0 {
			out[i].Status = StatusPresent
			freq[guess[i]]--
		} else {
			out[i].Status = StatusAbsent
		}
	}
	return out
}

// isAlpha reports whether s is all ASCII letters A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
