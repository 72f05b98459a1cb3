// internal/game/score.go
//
// Scoring for a finished game. Pure and total: a six-attempt loss still
// yields a defined score, intentionally without clamping.

package game

// Score computes the final score for a finished game:
//
//	100 − 10·attempts, plus a 50 point bonus on a win.
func Score(attempts int, won bool) int {
	score := 100 - attempts*10
	if won {
		score += 50
	}
	return score
}
