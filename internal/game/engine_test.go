package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(results []LetterResult) []Status {
	out := make([]Status, len(results))
	for i, r := range results {
		out[i] = r.Status
	}
	return out
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		guess  string
		secret string
		want   []Status
	}{
		{
			name:   "all correct",
			guess:  "APPLE",
			secret: "APPLE",
			want:   []Status{StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect, StatusCorrect},
		},
		{
			name:   "all absent",
			guess:  "FUZZY",
			secret: "CRANE",
			want:   []Status{StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent, StatusAbsent},
		},
		{
			name:   "duplicate guess letters single secret letter",
			guess:  "AABBC",
			secret: "CRANE",
			want:   []Status{StatusPresent, StatusAbsent, StatusAbsent, StatusAbsent, StatusPresent},
		},
		{
			name:   "grape against apple",
			guess:  "GRAPE",
			secret: "APPLE",
			want:   []Status{StatusAbsent, StatusAbsent, StatusPresent, StatusPresent, StatusCorrect},
		},
		{
			name:   "correct position consumes the secret letter",
			guess:  "EERIE",
			secret: "CRANE",
			want:   []Status{StatusAbsent, StatusAbsent, StatusPresent, StatusAbsent, StatusCorrect},
		},
		{
			name:   "double letter in secret matched twice",
			guess:  "PAPPY",
			secret: "APPLE",
			want:   []Status{StatusPresent, StatusPresent, StatusCorrect, StatusAbsent, StatusAbsent},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.guess, tt.secret)
			require.Len(t, got, WordLength)
			assert.Equal(t, tt.want, statuses(got))
			for i, r := range got {
				assert.Equal(t, i, r.Position)
				assert.Equal(t, string(tt.guess[i]), r.Letter)
			}
		})
	}
}

func TestEvaluateCorrectCountMatchesExactAgreement(t *testing.T) {
	guess, secret := "SPEED", "ERASE"
	got := Evaluate(guess, secret)

	exact := 0
	for i := range secret {
		if guess[i] == secret[i] {
			exact++
		}
	}
	correct := 0
	for _, r := range got {
		if r.Status == StatusCorrect {
			correct++
		}
	}
	assert.Equal(t, exact, correct)
}

func TestSubmitWin(t *testing.T) {
	s := New("en", "APPLE")

	res, err := s.Submit("grape")
	require.NoError(t, err)
	assert.False(t, res.GameOver)
	assert.Empty(t, res.SecretWord, "secret must not leak while in progress")

	res, err = s.Submit("apple")
	require.NoError(t, err)
	assert.True(t, res.GameOver)
	assert.True(t, res.Won)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, "APPLE", res.SecretWord)
	assert.Equal(t, 130, Score(res.Attempts, res.Won))
}

func TestSubmitRejectionLeavesStateUntouched(t *testing.T) {
	s := New("en", "APPLE")

	_, err := s.Submit("toolong")
	assert.ErrorIs(t, err, ErrInvalidLength)
	_, err = s.Submit("ab1de")
	assert.ErrorIs(t, err, ErrInvalidCharacters)

	assert.Equal(t, 0, s.Attempts())
	assert.Empty(t, s.Snapshot().Guesses)
}

func TestSubmitAccentedGuess(t *testing.T) {
	s := New("it", "CARTA")

	// Five runes but more than five bytes: the right length, wrong alphabet.
	_, err := s.Submit("cartà")
	assert.ErrorIs(t, err, ErrInvalidCharacters)

	_, err = s.Submit("càrt")
	assert.ErrorIs(t, err, ErrInvalidLength)

	assert.Equal(t, 0, s.Attempts())
}

func TestSubmitLossAfterSixAttempts(t *testing.T) {
	s := New("en", "APPLE")

	var res Result
	var err error
	for i := 0; i < MaxAttempts; i++ {
		res, err = s.Submit("CRANE")
		require.NoError(t, err)
	}
	assert.True(t, res.GameOver)
	assert.False(t, res.Won)
	assert.Equal(t, MaxAttempts, res.Attempts)
	assert.Equal(t, "APPLE", res.SecretWord)

	_, err = s.Submit("CRANE")
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, MaxAttempts, s.Attempts())
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New("it", "CARNE")
	_, err := s.Submit("PORTA")
	require.NoError(t, err)

	snap := s.Snapshot()
	restored := Restore(snap)
	assert.Equal(t, snap, restored.Snapshot())

	// The restored session must not alias the snapshot's history.
	_, err = restored.Submit("CARNE")
	require.NoError(t, err)
	assert.Len(t, snap.Guesses, 1)
	assert.True(t, restored.Won())
	assert.False(t, s.Won())
}

func TestScore(t *testing.T) {
	tests := []struct {
		attempts int
		won      bool
		want     int
	}{
		{attempts: 1, won: true, want: 140},
		{attempts: 3, won: true, want: 120},
		{attempts: 6, won: true, want: 90},
		{attempts: 6, won: false, want: 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.attempts, tt.won))
	}
}
