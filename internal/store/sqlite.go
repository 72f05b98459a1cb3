// internal/store/sqlite.go
//
// SQLite-backed implementations of PlayerStore, WordUsageStore and
// ScoreLedger. Schema lives in ./sql/001_init.sql; timestamps are stored as
// RFC3339 text. The word-usage increment is a single UPSERT and the profile
// Put runs in one transaction, so both read-modify-write points stay atomic
// under concurrent finishes.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLitePlayerStore persists profiles in the players/player_lang_stats tables.
type SQLitePlayerStore struct {
	db *sql.DB
}

func NewSQLitePlayerStore(db *sql.DB) *SQLitePlayerStore { return &SQLitePlayerStore{db: db} }

func (s *SQLitePlayerStore) Create(ctx context.Context, username, displayName, passwordHash string) (*Profile, error) {
	// Duplicate detection rides on the primary key (COLLATE NOCASE in the
	// schema), so two racing signups cannot both slip past a pre-check.
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (username, display_name, password_hash, created_at)
		VALUES (?,?,?,?)`,
		username, displayName, passwordHash, now.Format(time.RFC3339))
	if err != nil {
		if isConstraintErr(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return &Profile{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   now,
		LangStats:   map[string]LangStats{},
	}, nil
}

func (s *SQLitePlayerStore) Get(ctx context.Context, username string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT username, display_name, created_at, COALESCE(last_played,''),
		       games_played, games_won, total_attempts, total_score,
		       average_score, best_score, current_streak, best_streak
		FROM players WHERE username=?`, username)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT lang, played, won FROM player_lang_stats WHERE username=?`, username)
	if err != nil {
		return nil, fmt.Errorf("lang stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var ls LangStats
		if err := rows.Scan(&lang, &ls.Played, &ls.Won); err != nil {
			return nil, err
		}
		p.LangStats[lang] = ls
	}
	return p, rows.Err()
}

func (s *SQLitePlayerStore) Put(ctx context.Context, p *Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	lastPlayed := ""
	if p.LastPlayed != nil {
		lastPlayed = p.LastPlayed.UTC().Format(time.RFC3339)
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE players SET display_name=?, last_played=NULLIF(?,''),
		       games_played=?, games_won=?, total_attempts=?, total_score=?,
		       average_score=?, best_score=?, current_streak=?, best_streak=?
		WHERE username=?`,
		p.DisplayName, lastPlayed,
		p.GamesPlayed, p.GamesWon, p.TotalAttempts, p.TotalScore,
		p.AverageScore, p.BestScore, p.CurrentStreak, p.BestStreak,
		p.Username)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	for lang, ls := range p.LangStats {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO player_lang_stats (username, lang, played, won)
			VALUES (?,?,?,?)
			ON CONFLICT(username, lang) DO UPDATE SET played=excluded.played, won=excluded.won`,
			p.Username, lang, ls.Played, ls.Won); err != nil {
			return fmt.Errorf("upsert lang stats: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLitePlayerStore) All(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, display_name, created_at, COALESCE(last_played,''),
		       games_played, games_won, total_attempts, total_score,
		       average_score, best_score, current_streak, best_streak
		FROM players ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLitePlayerStore) PasswordHash(ctx context.Context, username string) (string, error) {
	var h string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM players WHERE username=?`, username).Scan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return h, err
}

// isConstraintErr reports whether err is a sqlite3 uniqueness violation
// (UNIQUE or PRIMARY KEY).
func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var created, lastPlayed string
	if err := row.Scan(&p.Username, &p.DisplayName, &created, &lastPlayed,
		&p.GamesPlayed, &p.GamesWon, &p.TotalAttempts, &p.TotalScore,
		&p.AverageScore, &p.BestScore, &p.CurrentStreak, &p.BestStreak); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if lastPlayed != "" {
		t, err := parseTime(lastPlayed)
		if err != nil {
			return nil, err
		}
		p.LastPlayed = &t
	}
	p.LangStats = map[string]LangStats{}
	return &p, nil
}

// parseTime parses the RFC3339 timestamps the store writes. A row that fails
// here is corrupt and must surface as an error, not as a zero time.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// SQLiteWordUsageStore persists draw counters in the word_usage table.
type SQLiteWordUsageStore struct {
	db *sql.DB
}

func NewSQLiteWordUsageStore(db *sql.DB) *SQLiteWordUsageStore { return &SQLiteWordUsageStore{db: db} }

func (s *SQLiteWordUsageStore) Increment(ctx context.Context, lang, word string, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO word_usage (lang, word, use_count, first_used, last_used)
		VALUES (?,?,1,?,?)
		ON CONFLICT(lang, word) DO UPDATE SET use_count=use_count+1, last_used=excluded.last_used`,
		lang, word, ts, ts)
	if err != nil {
		return fmt.Errorf("increment word usage: %w", err)
	}
	return nil
}

func (s *SQLiteWordUsageStore) TopByCount(ctx context.Context, lang string, limit int) ([]WordUsage, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT lang, word, use_count, first_used, last_used
		FROM word_usage WHERE lang=?
		ORDER BY use_count DESC, word ASC
		LIMIT ?`, lang, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WordUsage
	for rows.Next() {
		var u WordUsage
		var first, last string
		if err := rows.Scan(&u.Lang, &u.Word, &u.UseCount, &first, &last); err != nil {
			return nil, err
		}
		if u.FirstUsed, err = parseTime(first); err != nil {
			return nil, err
		}
		if u.LastUsed, err = parseTime(last); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SQLiteScoreLedger persists finished games in the scores table.
type SQLiteScoreLedger struct {
	db *sql.DB
}

func NewSQLiteScoreLedger(db *sql.DB) *SQLiteScoreLedger { return &SQLiteScoreLedger{db: db} }

func (s *SQLiteScoreLedger) Append(ctx context.Context, rec ScoreRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (player, score, attempts, won, lang, created_at)
		VALUES (?,?,?,?,?,?)`,
		rec.Player, rec.Score, rec.Attempts, rec.Won, rec.Lang,
		rec.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	return nil
}

func (s *SQLiteScoreLedger) AllFor(ctx context.Context, player string) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player, score, attempts, won, lang, created_at
		FROM scores WHERE player=? ORDER BY id ASC`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var created string
		if err := rows.Scan(&r.Player, &r.Score, &r.Attempts, &r.Won, &r.Lang, &created); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
