// internal/stats/aggregator.go
//
// Folds a finished game into the player's cumulative profile. Invoked
// exactly once per terminal game; aborted games never reach this code.
//
// The fold is computed on a detached copy of the profile and written back
// with a single Put, so a failing store call leaves no partial update.

package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parolagame/go-server/internal/store"
)

// ErrUnknownPlayer is returned when the identity was never registered.
// Profiles are created only via explicit registration, never by playing.
var ErrUnknownPlayer = errors.New("unknown player")

// Aggregator updates player profiles and the score ledger.
type Aggregator struct {
	players store.PlayerStore
	ledger  store.ScoreLedger
	now     func() time.Time
}

func NewAggregator(players store.PlayerStore, ledger store.ScoreLedger) *Aggregator {
	return &Aggregator{players: players, ledger: ledger, now: time.Now}
}

// RecordGame folds the game into the profile and appends it to the ledger:
// counters, per-language stats, streaks, best score, and an average score
// recomputed from the full ledger plus this game (not an incremental mean,
// so out-of-band ledger corrections are picked up). The ledger append comes
// last; a failed profile write leaves no orphan ledger row behind.
// Returns the updated profile.
func (a *Aggregator) RecordGame(ctx context.Context, username, lang string, attempts int, won bool, score int) (*store.Profile, error) {
	p, err := a.players.Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownPlayer
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	now := a.now().UTC()
	p.GamesPlayed++
	p.TotalAttempts += attempts
	p.TotalScore += score
	if score > p.BestScore {
		p.BestScore = score
	}

	ls := p.LangStats[lang]
	ls.Played++
	if won {
		ls.Won++
	}
	p.LangStats[lang] = ls

	if won {
		p.GamesWon++
		p.CurrentStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
	} else {
		p.CurrentStreak = 0
	}

	records, err := a.ledger.AllFor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	sum := score
	for _, r := range records {
		sum += r.Score
	}
	p.AverageScore = float64(sum) / float64(len(records)+1)
	p.LastPlayed = &now

	if err := a.players.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	if err := a.ledger.Append(ctx, store.ScoreRecord{
		Player:    username,
		Score:     score,
		Attempts:  attempts,
		Won:       won,
		Lang:      lang,
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("append score: %w", err)
	}
	return p, nil
}
