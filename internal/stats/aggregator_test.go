package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parolagame/go-server/internal/store"
)

func newAggregator(t *testing.T) (*Aggregator, *store.MemoryPlayerStore, *store.MemoryScoreLedger) {
	t.Helper()
	players := store.NewMemoryPlayerStore()
	ledger := store.NewMemoryScoreLedger()
	a := NewAggregator(players, ledger)
	a.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return a, players, ledger
}

func TestRecordGameWin(t *testing.T) {
	a, players, ledger := newAggregator(t)
	ctx := context.Background()
	_, err := players.Create(ctx, "anna", "Anna", "")
	require.NoError(t, err)

	p, err := a.RecordGame(ctx, "anna", "it", 3, true, 120)
	require.NoError(t, err)

	assert.Equal(t, 1, p.GamesPlayed)
	assert.Equal(t, 1, p.GamesWon)
	assert.Equal(t, 3, p.TotalAttempts)
	assert.Equal(t, 120, p.TotalScore)
	assert.Equal(t, 120, p.BestScore)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 1, p.BestStreak)
	assert.Equal(t, 120.0, p.AverageScore)
	assert.Equal(t, store.LangStats{Played: 1, Won: 1}, p.LangStats["it"])
	require.NotNil(t, p.LastPlayed)

	recs, err := ledger.AllFor(ctx, "anna")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 120, recs[0].Score)
	assert.True(t, recs[0].Won)
}

func TestRecordGameStreaks(t *testing.T) {
	a, players, _ := newAggregator(t)
	ctx := context.Background()
	_, err := players.Create(ctx, "bruno", "Bruno", "")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := a.RecordGame(ctx, "bruno", "en", 2, true, 130)
		require.NoError(t, err)
	}
	p, err := a.RecordGame(ctx, "bruno", "en", 6, false, 40)
	require.NoError(t, err)

	assert.Equal(t, 0, p.CurrentStreak, "a loss resets the streak")
	assert.Equal(t, 3, p.BestStreak, "best streak survives the loss")
	assert.Equal(t, 4, p.GamesPlayed)
	assert.Equal(t, 3, p.GamesWon)
	assert.Equal(t, 130, p.BestScore)
}

func TestRecordGameAverageFromFullLedger(t *testing.T) {
	a, players, ledger := newAggregator(t)
	ctx := context.Background()
	_, err := players.Create(ctx, "carla", "Carla", "")
	require.NoError(t, err)

	// An out-of-band correction is already in the ledger.
	require.NoError(t, ledger.Append(ctx, store.ScoreRecord{Player: "carla", Score: 60, Lang: "it"}))

	p, err := a.RecordGame(ctx, "carla", "it", 2, true, 130)
	require.NoError(t, err)

	// Average spans the whole ledger, including the pre-existing entry.
	assert.Equal(t, 95.0, p.AverageScore)
	assert.Equal(t, 130, p.TotalScore, "counters only reflect games folded here")
}

type haltedPlayerStore struct {
	store.PlayerStore
	putErr error
}

func (h *haltedPlayerStore) Put(ctx context.Context, p *store.Profile) error {
	if h.putErr != nil {
		return h.putErr
	}
	return h.PlayerStore.Put(ctx, p)
}

func TestRecordGameFailedWriteLeavesLedgerClean(t *testing.T) {
	players := store.NewMemoryPlayerStore()
	ledger := store.NewMemoryScoreLedger()
	halted := &haltedPlayerStore{PlayerStore: players, putErr: errors.New("store down")}
	a := NewAggregator(halted, ledger)
	ctx := context.Background()
	_, err := players.Create(ctx, "anna", "Anna", "")
	require.NoError(t, err)

	_, err = a.RecordGame(ctx, "anna", "it", 2, true, 130)
	require.Error(t, err)

	recs, err := ledger.AllFor(ctx, "anna")
	require.NoError(t, err)
	assert.Empty(t, recs, "a failed profile write must not leave a ledger row")

	// Once the store recovers the same game folds cleanly, with no
	// double-counted ledger entry inflating the average.
	halted.putErr = nil
	p, err := a.RecordGame(ctx, "anna", "it", 2, true, 130)
	require.NoError(t, err)
	assert.Equal(t, 1, p.GamesPlayed)
	assert.Equal(t, 130.0, p.AverageScore)
	recs, err = ledger.AllFor(ctx, "anna")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecordGameUnknownPlayer(t *testing.T) {
	a, _, ledger := newAggregator(t)
	ctx := context.Background()

	_, err := a.RecordGame(ctx, "ghost", "it", 3, true, 120)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	recs, err := ledger.AllFor(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, recs, "nothing is written for unregistered players")
}
