// internal/play/service.go
//
// Service facade over the game core. One instance serves the whole HTTP
// layer and owns the glue between the word picker, the session carrier, the
// evaluator/state machine, and the stats aggregator.
//
// Concurrency: each player has at most one active game, and all operations
// touching that game (or folding a finished one into the profile) run under
// a per-player lock, so two in-flight requests can never interleave guesses
// or lose a profile update.

package play

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/parolagame/go-server/internal/game"
	"github.com/parolagame/go-server/internal/stats"
	"github.com/parolagame/go-server/internal/store"
	"github.com/parolagame/go-server/internal/words"
)

// ErrNoActiveGame is returned when a player submits a guess or inspects
// state without having started a game.
var ErrNoActiveGame = errors.New("no active game")

// Service wires the core components together.
type Service struct {
	lists    *words.Lists
	picker   *words.Picker
	players  store.PlayerStore
	usage    store.WordUsageStore
	ledger   store.ScoreLedger
	sessions store.SessionStore
	agg      *stats.Aggregator

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-player, guards session + profile fold
}

// New constructs the service around its collaborators.
func New(lists *words.Lists, players store.PlayerStore, usage store.WordUsageStore, ledger store.ScoreLedger, sessions store.SessionStore) *Service {
	return &Service{
		lists:    lists,
		picker:   words.NewPicker(lists, usage),
		players:  players,
		usage:    usage,
		ledger:   ledger,
		sessions: sessions,
		agg:      stats.NewAggregator(players, ledger),
		locks:    make(map[string]*sync.Mutex),
	}
}

// playerLock returns the lock for one player identity, creating it on
// first use.
func (s *Service) playerLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[username]
	if !ok {
		l = &sync.Mutex{}
		s.locks[username] = l
	}
	return l
}

// StartGame draws a secret word for lang and replaces any active game the
// player had. The draw records word usage as a side effect.
func (s *Service) StartGame(ctx context.Context, username, lang string) (game.Snapshot, error) {
	l := s.playerLock(username)
	l.Lock()
	defer l.Unlock()

	secret, err := s.picker.Draw(ctx, lang)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap := game.New(lang, secret).Snapshot()
	if err := s.sessions.Save(ctx, username, snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("save session: %w", err)
	}
	return snap, nil
}

// GuessOutcome is the result of one submitted guess. Score and Analytics
// are present only once the game is over.
type GuessOutcome struct {
	game.Result
	Score     *int             `json:"score,omitempty"`
	Analytics *stats.Analytics `json:"analytics,omitempty"`
}

// SubmitGuess restores the player's session snapshot, applies one guess,
// and persists the new snapshot. On a terminal transition the game is
// scored and folded into the player's profile exactly once; the finished
// snapshot stays stored so further submissions report the game as over.
func (s *Service) SubmitGuess(ctx context.Context, username, guess string) (GuessOutcome, error) {
	l := s.playerLock(username)
	l.Lock()
	defer l.Unlock()

	snap, err := s.sessions.Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return GuessOutcome{}, ErrNoActiveGame
		}
		return GuessOutcome{}, fmt.Errorf("load session: %w", err)
	}

	wasOver := snap.GameOver
	sess := game.Restore(snap)
	res, err := sess.Submit(guess)
	if err != nil {
		return GuessOutcome{}, err
	}

	// Fold a terminal game into the profile before the finished snapshot is
	// persisted: a failed fold leaves the pre-guess snapshot in place, so the
	// caller can retry instead of finding the game stranded as over.
	out := GuessOutcome{Result: res}
	if res.GameOver && !wasOver {
		score := game.Score(res.Attempts, res.Won)
		out.Score = &score
		if _, err := s.agg.RecordGame(ctx, username, sess.Lang(), res.Attempts, res.Won, score); err != nil {
			return GuessOutcome{}, err
		}
		records, err := s.ledger.AllFor(ctx, username)
		if err != nil {
			return GuessOutcome{}, fmt.Errorf("read ledger: %w", err)
		}
		out.Analytics = stats.Compute(records)
	}
	if err := s.sessions.Save(ctx, username, sess.Snapshot()); err != nil {
		return GuessOutcome{}, fmt.Errorf("save session: %w", err)
	}
	return out, nil
}

// Snapshot returns the player's current session state, secret included.
// Exposed only through the debug surface.
func (s *Service) Snapshot(ctx context.Context, username string) (game.Snapshot, error) {
	snap, err := s.sessions.Get(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return game.Snapshot{}, ErrNoActiveGame
	}
	return snap, err
}

// PlayerStats returns the stored profile together with ledger analytics.
func (s *Service) PlayerStats(ctx context.Context, username string) (*store.Profile, *stats.Analytics, error) {
	p, err := s.players.Get(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.ledger.AllFor(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("read ledger: %w", err)
	}
	return p, stats.Compute(records), nil
}

// Leaderboard ranks all registered players. Returns the entries and the
// total number of registered players.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]stats.LeaderboardEntry, int, error) {
	profiles, err := s.players.All(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load profiles: %w", err)
	}
	entries, err := stats.TopPlayers(profiles, limit)
	if err != nil {
		return nil, 0, err
	}
	return entries, len(profiles), nil
}

// WordFrequency returns the most-drawn words for one language, decorated
// with dense rank and usage percentage over all of that language's draws.
func (s *Service) WordFrequency(ctx context.Context, lang string, limit int) ([]stats.WordFrequency, error) {
	if limit <= 0 {
		return nil, stats.ErrInvalidLimit
	}
	usages, err := s.usage.TopByCount(ctx, lang, 0)
	if err != nil {
		return nil, fmt.Errorf("load word usage: %w", err)
	}
	ranked := stats.RankWords(usages)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// AllWordFrequency returns the ranking for every configured language.
func (s *Service) AllWordFrequency(ctx context.Context, limit int) (map[string][]stats.WordFrequency, error) {
	out := make(map[string][]stats.WordFrequency)
	for _, lang := range s.lists.Languages() {
		ranked, err := s.WordFrequency(ctx, lang, limit)
		if err != nil {
			return nil, err
		}
		out[lang] = ranked
	}
	return out, nil
}

// Languages lists the configured language codes.
func (s *Service) Languages() []string { return s.lists.Languages() }

// WordListStats reports list sizes per language.
func (s *Service) WordListStats() map[string]int { return s.lists.Stats() }
