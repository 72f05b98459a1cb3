// internal/store/store.go
//
// Collaborator interfaces for everything the game core persists:
//   - PlayerStore: registered player profiles, keyed by username.
//   - WordUsageStore: per (lang, word) draw counters.
//   - ScoreLedger: append-only history of finished games.
//   - SessionStore: the in-flight game snapshot for each player.
//
// Implementations may be backed by memory (dev/tests) or SQLite.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/parolagame/go-server/internal/game"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Profile is a registered player's cumulative record.
type Profile struct {
	Username      string               `json:"username"`
	DisplayName   string               `json:"displayName"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastPlayed    *time.Time           `json:"lastPlayed"`
	GamesPlayed   int                  `json:"gamesPlayed"`
	GamesWon      int                  `json:"gamesWon"`
	TotalAttempts int                  `json:"totalAttempts"`
	TotalScore    int                  `json:"totalScore"`
	AverageScore  float64              `json:"averageScore"`
	BestScore     int                  `json:"bestScore"`
	CurrentStreak int                  `json:"currentStreak"`
	BestStreak    int                  `json:"bestStreak"`
	LangStats     map[string]LangStats `json:"langStats"`
}

// LangStats is the per-language slice of a profile.
type LangStats struct {
	Played int `json:"played"`
	Won    int `json:"won"`
}

// WordUsage tracks how often a word has been drawn as the secret.
type WordUsage struct {
	Lang      string    `json:"lang"`
	Word      string    `json:"word"`
	UseCount  int       `json:"count"`
	FirstUsed time.Time `json:"firstUsed"`
	LastUsed  time.Time `json:"lastUsed"`
}

// ScoreRecord is one append-only ledger entry for a finished game.
type ScoreRecord struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Attempts  int       `json:"attempts"`
	Won       bool      `json:"won"`
	Lang      string    `json:"lang"`
	CreatedAt time.Time `json:"timestamp"`
}

// PlayerStore holds registered player profiles.
// Create returns ErrAlreadyExists for a taken username; Get returns
// ErrNotFound for an unknown one. Put replaces the whole profile in one
// write so a failed call leaves no partial update behind.
type PlayerStore interface {
	Create(ctx context.Context, username, displayName, passwordHash string) (*Profile, error)
	Get(ctx context.Context, username string) (*Profile, error)
	Put(ctx context.Context, p *Profile) error
	All(ctx context.Context) ([]*Profile, error)
	PasswordHash(ctx context.Context, username string) (string, error)
}

// WordUsageStore records secret-word draws. TopByCount returns records
// ordered by count descending; a non-positive limit returns all of them.
type WordUsageStore interface {
	Increment(ctx context.Context, lang, word string, now time.Time) error
	TopByCount(ctx context.Context, lang string, limit int) ([]WordUsage, error)
}

// ScoreLedger is the append-only game history.
type ScoreLedger interface {
	Append(ctx context.Context, rec ScoreRecord) error
	AllFor(ctx context.Context, player string) ([]ScoreRecord, error)
}

// SessionStore carries at most one active game snapshot per player between
// requests. Get returns ErrNotFound when no game is active.
type SessionStore interface {
	Save(ctx context.Context, username string, snap game.Snapshot) error
	Get(ctx context.Context, username string) (game.Snapshot, error)
	Delete(ctx context.Context, username string) error
}
