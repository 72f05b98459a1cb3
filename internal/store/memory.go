// internal/store/memory.go
//
// In-memory implementations of the store interfaces. Used in development
// and as test fakes; state is lost on restart.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Profiles are deep-copied on the way in and out, so callers can never
//     alias the stored state.
//   - Per-player read-modify-write (Put after Get) is serialized by the
//     callers holding a session lock; the mutex here only protects the maps.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parolagame/go-server/internal/game"
)

// MemoryPlayerStore is a map-backed PlayerStore.
type MemoryPlayerStore struct {
	mu        sync.RWMutex
	profiles  map[string]*Profile
	passwords map[string]string
	order     []string // registration order, for stable All()
}

func NewMemoryPlayerStore() *MemoryPlayerStore {
	return &MemoryPlayerStore{
		profiles:  make(map[string]*Profile),
		passwords: make(map[string]string),
	}
}

func (m *MemoryPlayerStore) Create(ctx context.Context, username, displayName, passwordHash string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[username]; ok {
		return nil, ErrAlreadyExists
	}
	p := &Profile{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
		LangStats:   map[string]LangStats{},
	}
	m.profiles[username] = p
	m.passwords[username] = passwordHash
	m.order = append(m.order, username)
	return cloneProfile(p), nil
}

func (m *MemoryPlayerStore) Get(ctx context.Context, username string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[username]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProfile(p), nil
}

func (m *MemoryPlayerStore) Put(ctx context.Context, p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.Username]; !ok {
		return ErrNotFound
	}
	m.profiles[p.Username] = cloneProfile(p)
	return nil
}

func (m *MemoryPlayerStore) All(ctx context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Profile, 0, len(m.order))
	for _, username := range m.order {
		out = append(out, cloneProfile(m.profiles[username]))
	}
	return out, nil
}

func (m *MemoryPlayerStore) PasswordHash(ctx context.Context, username string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.passwords[username]
	if !ok {
		return "", ErrNotFound
	}
	return h, nil
}

func cloneProfile(p *Profile) *Profile {
	cp := *p
	cp.LangStats = make(map[string]LangStats, len(p.LangStats))
	for k, v := range p.LangStats {
		cp.LangStats[k] = v
	}
	if p.LastPlayed != nil {
		t := *p.LastPlayed
		cp.LastPlayed = &t
	}
	return &cp
}

// MemoryWordUsageStore is a map-backed WordUsageStore keyed by (lang, word).
type MemoryWordUsageStore struct {
	mu    sync.Mutex
	usage map[string]map[string]*WordUsage // lang → word → usage
}

func NewMemoryWordUsageStore() *MemoryWordUsageStore {
	return &MemoryWordUsageStore{usage: make(map[string]map[string]*WordUsage)}
}

func (m *MemoryWordUsageStore) Increment(ctx context.Context, lang, word string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byWord, ok := m.usage[lang]
	if !ok {
		byWord = make(map[string]*WordUsage)
		m.usage[lang] = byWord
	}
	if u, ok := byWord[word]; ok {
		u.UseCount++
		u.LastUsed = now
		return nil
	}
	byWord[word] = &WordUsage{Lang: lang, Word: word, UseCount: 1, FirstUsed: now, LastUsed: now}
	return nil
}

func (m *MemoryWordUsageStore) TopByCount(ctx context.Context, lang string, limit int) ([]WordUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WordUsage, 0, len(m.usage[lang]))
	for _, u := range m.usage[lang] {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UseCount != out[j].UseCount {
			return out[i].UseCount > out[j].UseCount
		}
		return out[i].Word < out[j].Word
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryScoreLedger is a slice-backed append-only ScoreLedger.
type MemoryScoreLedger struct {
	mu      sync.RWMutex
	records []ScoreRecord
}

func NewMemoryScoreLedger() *MemoryScoreLedger {
	return &MemoryScoreLedger{}
}

func (m *MemoryScoreLedger) Append(ctx context.Context, rec ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemoryScoreLedger) AllFor(ctx context.Context, player string) ([]ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ScoreRecord
	for _, r := range m.records {
		if r.Player == player {
			out = append(out, r)
		}
	}
	return out, nil
}

// MemorySessionStore keeps the active game snapshot per player.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]game.Snapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]game.Snapshot)}
}

func (m *MemorySessionStore) Save(ctx context.Context, username string, snap game.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[username] = snap
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, username string) (game.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.sessions[username]
	if !ok {
		return game.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, username)
	return nil
}
