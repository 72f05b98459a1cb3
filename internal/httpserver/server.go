// internal/httpserver/server.go
//
// HTTP wiring for the word-game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/rules", "/leaderboard", word stats.
//   - Game + profile endpoints (require auth): /game/*, /stats/me.
//   - Mapping core errors to HTTP statuses and JSON bodies.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Game state lives in the session store keyed by player identity; one
//     active game per player, replaced on /game/new.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/parolagame/go-server/internal/game"
	"github.com/parolagame/go-server/internal/play"
	"github.com/parolagame/go-server/internal/stats"
	"github.com/parolagame/go-server/internal/store"
	"github.com/parolagame/go-server/internal/words"
)

// Server bundles router, game service, and the stores the auth layer needs.
type Server struct {
	r        *chi.Mux
	svc      *play.Service
	players  store.PlayerStore
	sessions store.SessionStore
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *play.Service, players store.PlayerStore, sessions store.SessionStore) *Server {
	s := &Server{r: chi.NewRouter(), svc: svc, players: players, sessions: sessions}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"parola-go","endpoints":["/health","/rules","/leaderboard","POST /game/new","POST /game/guess","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/rules", handleRules)

	// Game + profile (require auth)
	s.r.With(s.requireAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.requireAuth()).Post("/game/guess", s.handleGuess)
	s.r.With(s.requireAuth()).Get("/stats/me", s.handlePlayerStats)

	// Public rankings and word analytics
	s.r.Get("/leaderboard", s.handleLeaderboard)
	s.r.Get("/words/top", s.handleWordsTop)
	s.r.Get("/words/all", s.handleWordsAll)

	// Auth
	s.mountAuthRoutes()

	// Debug: word list sizes and the current game, secret included
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(s.svc.WordListStats())
	})
	s.r.With(s.requireAuth()).Get("/debug/game", s.handleDebugGame)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Lang string `json:"lang"`
}

// handleNewGame starts a game in the requested language, replacing any
// active one. The secret never appears in the response.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Lang == "" {
		req.Lang = "it"
	}

	if _, err := s.svc.StartGame(r.Context(), me.Username, req.Lang); err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"lang":        req.Lang,
		"maxAttempts": game.MaxAttempts,
	})
}

type guessReq struct {
	Word string `json:"word"`
}

// handleGuess applies one guess to the player's active game. On a terminal
// result the payload also carries the secret, the score, and analytics.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	out, err := s.svc.SubmitGuess(r.Context(), me.Username, req.Word)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleDebugGame returns the full snapshot of the active game, secret
// included. Debug aid, kept from the original's cheat endpoint.
func (s *Server) handleDebugGame(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	snap, err := s.svc.Snapshot(r.Context(), me.Username)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// ------------------------------ STATS --------------------------------------

// handlePlayerStats returns the caller's profile plus ledger analytics.
func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, analytics, err := s.svc.PlayerStats(r.Context(), me.Username)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"stats":     p,
		"analytics": analytics,
	})
}

// handleLeaderboard returns the top players by total score.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, stats.DefaultLimit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	entries, total, err := s.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"totalPlayers": total,
		"leaderboard":  entries,
	})
}

// handleWordsTop returns the most-drawn words for one language.
func (s *Server) handleWordsTop(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, stats.DefaultLimit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "it"
	}
	ranked, err := s.svc.WordFrequency(r.Context(), lang, limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "lang": lang, "words": ranked})
}

// handleWordsAll returns the ranking for every configured language.
func (s *Server) handleWordsAll(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r, stats.DefaultLimit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	all, err := s.svc.AllWordFrequency(r.Context(), limit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "statistics": all})
}

// limitParam parses ?limit= with a default; the value itself is validated
// by the stats package.
func limitParam(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, stats.ErrInvalidLimit
	}
	return n, nil
}

// ------------------------------ RULES --------------------------------------

const rulesText = `Welcome to the five-letter word game!

Rules:

1. Guess the secret 5-letter word.

2. You have at most 6 attempts.

3. After every attempt each letter gets a feedback:
   - CORRECT (green): right letter, right position.
   - PRESENT (yellow): the letter is in the word, but elsewhere.
   - ABSENT (grey): the letter is not in the word.

4. The final score depends on the attempts used:
   - Win bonus: +50 points
   - Every attempt: -10 points
   - Fewer attempts means a higher score.

5. You can play in Italian or English, chosen when a game starts.

6. Your statistics are saved automatically: games played, games won,
   total score, best score, and consecutive-win streaks.

Have fun!`

func handleRules(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]string{"rules": rulesText})
}

// ----------------------------- error mapping --------------------------------

// writeErr maps core errors to HTTP statuses with a JSON body. Input and
// state errors are user-visible conditions; anything unrecognized is a
// dependency failure and logs at error level.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, game.ErrInvalidLength),
		errors.Is(err, game.ErrInvalidCharacters),
		errors.Is(err, stats.ErrInvalidLimit):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrSessionOver),
		errors.Is(err, store.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, play.ErrNoActiveGame),
		errors.Is(err, words.ErrWordListUnavailable),
		errors.Is(err, stats.ErrUnknownPlayer),
		errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		log.Error().Err(err).Msg("request failed")
	}
	body, _ := json.Marshal(map[string]any{"success": false, "error": err.Error()})
	http.Error(w, string(body), status)
}
