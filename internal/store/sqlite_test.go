package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pooled connection gets its own :memory: database; keep one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ddl, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(ddl))
	require.NoError(t, err)
	return db
}

func TestSQLitePlayerStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSQLitePlayerStore(openTestDB(t))

	p, err := s.Create(ctx, "anna", "Anna", "hash")
	require.NoError(t, err)
	assert.Equal(t, "Anna", p.DisplayName)

	_, err = s.Create(ctx, "ANNA", "Shadow", "hash")
	assert.ErrorIs(t, err, ErrAlreadyExists, "usernames are case-insensitive unique")

	_, err = s.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	h, err := s.PasswordHash(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, "hash", h)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.GamesPlayed = 3
	p.GamesWon = 2
	p.TotalAttempts = 9
	p.TotalScore = 280
	p.AverageScore = 93.5
	p.BestScore = 140
	p.CurrentStreak = 2
	p.BestStreak = 2
	p.LastPlayed = &now
	p.LangStats["it"] = LangStats{Played: 2, Won: 1}
	p.LangStats["en"] = LangStats{Played: 1, Won: 1}
	require.NoError(t, s.Put(ctx, p))

	got, err := s.Get(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 93.5, got.AverageScore)
	require.NotNil(t, got.LastPlayed)
	assert.Equal(t, now, got.LastPlayed.UTC())
	assert.Equal(t, LangStats{Played: 2, Won: 1}, got.LangStats["it"])
	assert.Equal(t, LangStats{Played: 1, Won: 1}, got.LangStats["en"])

	assert.ErrorIs(t, s.Put(ctx, &Profile{Username: "ghost", LangStats: map[string]LangStats{}}), ErrNotFound)

	_, err = s.Create(ctx, "bruno", "Bruno", "hash")
	require.NoError(t, err)
	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "anna", all[0].Username)
}

func TestSQLitePlayerStoreDuplicateInsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	s := NewSQLitePlayerStore(db)

	// Seed the row behind the store's back. Create has no pre-check, so the
	// key constraint itself must surface as ErrAlreadyExists; two racing
	// signups for the same name can never both succeed.
	_, err := db.Exec(`INSERT INTO players (username, display_name, password_hash, created_at)
		VALUES ('anna','Anna','h','2024-03-01T12:00:00Z')`)
	require.NoError(t, err)

	_, err = s.Create(ctx, "anna", "Shadow", "h")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	_, err = s.Create(ctx, "ANNA", "Shadow", "h")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSQLiteCorruptTimestampSurfaces(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO players (username, display_name, password_hash, created_at)
		VALUES ('anna','Anna','h','not-a-time')`)
	require.NoError(t, err)
	_, err = NewSQLitePlayerStore(db).Get(ctx, "anna")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse timestamp")

	_, err = db.Exec(`INSERT INTO scores (player, score, attempts, won, lang, created_at)
		VALUES ('anna', 120, 3, 1, 'it', 'garbage')`)
	require.NoError(t, err)
	_, err = NewSQLiteScoreLedger(db).AllFor(ctx, "anna")
	require.Error(t, err)
}

func TestSQLiteWordUsageStore(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteWordUsageStore(openTestDB(t))
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	require.NoError(t, s.Increment(ctx, "it", "CARNE", t0))
	require.NoError(t, s.Increment(ctx, "it", "CARNE", t1))
	require.NoError(t, s.Increment(ctx, "it", "PORTA", t1))

	top, err := s.TopByCount(ctx, "it", 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "CARNE", top[0].Word)
	assert.Equal(t, 2, top[0].UseCount)
	assert.Equal(t, t0, top[0].FirstUsed)
	assert.Equal(t, t1, top[0].LastUsed)

	all, err := s.TopByCount(ctx, "it", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteScoreLedger(t *testing.T) {
	ctx := context.Background()
	s := NewSQLiteScoreLedger(openTestDB(t))
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(ctx, ScoreRecord{Player: "anna", Score: 120, Attempts: 3, Won: true, Lang: "it", CreatedAt: now}))
	require.NoError(t, s.Append(ctx, ScoreRecord{Player: "anna", Score: 40, Attempts: 6, Won: false, Lang: "en", CreatedAt: now}))
	require.NoError(t, s.Append(ctx, ScoreRecord{Player: "bruno", Score: 90, Attempts: 6, Won: true, Lang: "it", CreatedAt: now}))

	recs, err := s.AllFor(ctx, "anna")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 120, recs[0].Score)
	assert.True(t, recs[0].Won)
	assert.Equal(t, 40, recs[1].Score)
	assert.False(t, recs[1].Won)
	assert.Equal(t, now, recs[0].CreatedAt)
}
