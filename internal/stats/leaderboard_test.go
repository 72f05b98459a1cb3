package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parolagame/go-server/internal/store"
)

func profile(username string, totalScore, played, won int) *store.Profile {
	return &store.Profile{
		Username:    username,
		TotalScore:  totalScore,
		GamesPlayed: played,
		GamesWon:    won,
	}
}

func TestTopPlayers(t *testing.T) {
	profiles := []*store.Profile{
		profile("anna", 300, 4, 3),
		profile("bruno", 500, 5, 5),
		profile("carla", 300, 3, 1),
		profile("dario", 0, 0, 0),
	}

	got, err := TopPlayers(profiles, 10)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "bruno", got[0].Username)
	// Equal scores keep registration order (stable sort).
	assert.Equal(t, "anna", got[1].Username)
	assert.Equal(t, "carla", got[2].Username)
	assert.Equal(t, "dario", got[3].Username)

	assert.Equal(t, 100.0, got[0].WinRate)
	assert.Equal(t, 75.0, got[1].WinRate)
	assert.Equal(t, 33.33, got[2].WinRate)
	assert.Equal(t, 0.0, got[3].WinRate, "no games played means a zero rate")
}

func TestTopPlayersTruncates(t *testing.T) {
	profiles := []*store.Profile{
		profile("anna", 300, 1, 1),
		profile("bruno", 200, 1, 0),
		profile("carla", 100, 1, 0),
	}
	got, err := TopPlayers(profiles, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "anna", got[0].Username)
	assert.Equal(t, "bruno", got[1].Username)
}

func TestTopPlayersInvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := TopPlayers(nil, limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	}
}

func TestComputeAnalytics(t *testing.T) {
	assert.Nil(t, Compute(nil))

	records := []store.ScoreRecord{
		{Score: 120, Won: true},
		{Score: 40, Won: false},
		{Score: 140, Won: true},
	}
	a := Compute(records)
	require.NotNil(t, a)
	assert.Equal(t, 100.0, a.MeanScore)
	assert.Equal(t, 40, a.MinScore)
	assert.Equal(t, 140, a.MaxScore)
	assert.Equal(t, 3, a.TotalGames)
	assert.Equal(t, 66.67, a.WinRate)
}

func TestRankWords(t *testing.T) {
	usages := []store.WordUsage{
		{Word: "CARNE", UseCount: 5},
		{Word: "PORTA", UseCount: 3},
		{Word: "SEDIA", UseCount: 3},
		{Word: "PIANO", UseCount: 2},
	}
	got := RankWords(usages)
	require.Len(t, got, 4)

	// Dense rank: equal counts share a rank, the next count takes rank+1.
	assert.Equal(t, 1, got[0].FrequencyRank)
	assert.Equal(t, 2, got[1].FrequencyRank)
	assert.Equal(t, 2, got[2].FrequencyRank)
	assert.Equal(t, 3, got[3].FrequencyRank)

	assert.Equal(t, 38.46, got[0].UsagePercentage)
	assert.Equal(t, 23.08, got[1].UsagePercentage)
	assert.Equal(t, 15.38, got[3].UsagePercentage)

	assert.Empty(t, RankWords(nil))
}
