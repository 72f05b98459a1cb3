// internal/stats/leaderboard.go
//
// Derives the ranked player view over all profiles.

package stats

import (
	"errors"
	"math"
	"sort"

	"github.com/parolagame/go-server/internal/store"
)

// ErrInvalidLimit is returned for non-positive leaderboard limits.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// DefaultLimit is used when the caller does not specify one.
const DefaultLimit = 10

// LeaderboardEntry is the projection of one profile for ranking.
type LeaderboardEntry struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	TotalScore  int     `json:"totalScore"`
	GamesPlayed int     `json:"gamesPlayed"`
	GamesWon    int     `json:"gamesWon"`
	BestScore   int     `json:"bestScore"`
	BestStreak  int     `json:"bestStreak"`
	WinRate     float64 `json:"winRate"`
}

// TopPlayers ranks profiles by total score descending and truncates to
// limit. Ties keep the input (registration) order; the sort is stable.
// WinRate is games_won/games_played as a percentage, rounded to 2 decimals.
func TopPlayers(profiles []*store.Profile, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		e := LeaderboardEntry{
			Username:    p.Username,
			DisplayName: p.DisplayName,
			TotalScore:  p.TotalScore,
			GamesPlayed: p.GamesPlayed,
			GamesWon:    p.GamesWon,
			BestScore:   p.BestScore,
			BestStreak:  p.BestStreak,
		}
		if p.GamesPlayed > 0 {
			e.WinRate = round2(100 * float64(p.GamesWon) / float64(p.GamesPlayed))
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
