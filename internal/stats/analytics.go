// internal/stats/analytics.go
//
// Derived analytics: per-player summaries over the score ledger and
// frequency rankings over word-usage records.

package stats

import "github.com/parolagame/go-server/internal/store"

// Analytics is the summary of a player's full score history.
type Analytics struct {
	MeanScore  float64 `json:"meanScore"`
	MinScore   int     `json:"minScore"`
	MaxScore   int     `json:"maxScore"`
	TotalGames int     `json:"totalGames"`
	WinRate    float64 `json:"winRate"`
}

// Compute summarizes a player's ledger entries. Returns nil when the
// player has no finished games yet.
func Compute(records []store.ScoreRecord) *Analytics {
	if len(records) == 0 {
		return nil
	}
	a := &Analytics{
		MinScore:   records[0].Score,
		MaxScore:   records[0].Score,
		TotalGames: len(records),
	}
	sum, wins := 0, 0
	for _, r := range records {
		sum += r.Score
		if r.Score < a.MinScore {
			a.MinScore = r.Score
		}
		if r.Score > a.MaxScore {
			a.MaxScore = r.Score
		}
		if r.Won {
			wins++
		}
	}
	a.MeanScore = float64(sum) / float64(len(records))
	a.WinRate = round2(100 * float64(wins) / float64(len(records)))
	return a
}

// WordFrequency decorates a usage record with its rank and share of draws.
type WordFrequency struct {
	store.WordUsage
	FrequencyRank   int     `json:"frequencyRank"`
	UsagePercentage float64 `json:"usagePercentage"`
}

// RankWords assigns a dense frequency rank (equal counts share a rank) and
// each word's percentage of all draws. Input must already be sorted by
// count descending, as WordUsageStore.TopByCount returns it.
func RankWords(usages []store.WordUsage) []WordFrequency {
	total := 0
	for _, u := range usages {
		total += u.UseCount
	}
	out := make([]WordFrequency, 0, len(usages))
	rank := 0
	prevCount := -1
	for _, u := range usages {
		if u.UseCount != prevCount {
			rank++
			prevCount = u.UseCount
		}
		wf := WordFrequency{WordUsage: u, FrequencyRank: rank}
		if total > 0 {
			wf.UsagePercentage = round2(100 * float64(u.UseCount) / float64(total))
		}
		out = append(out, wf)
	}
	return out
}
