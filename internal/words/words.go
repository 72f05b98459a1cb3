// internal/words/words.go
//
// Word list management for the game.
//
// Responsibilities:
//   - Load one answer list per language from environment-provided files or
//     fall back to embedded defaults.
//   - Draw a uniformly random secret word for a language and record the
//     draw in the word-usage store.
//
// Word lists:
//   - One word per line, blank lines and #-comments skipped.
//   - Only 5-letter alphabetic words are kept; everything is normalized
//     to uppercase.
//
// Environment variables:
//   WORDS_IT_FILE=/path/to/parole_it.txt
//   WORDS_EN_FILE=/path/to/words_en.txt

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/parolagame/go-server/internal/store"
)

// ErrWordListUnavailable is returned when a language has no loaded list.
var ErrWordListUnavailable = errors.New("no word list available for language")

//go:embed default_it.txt
var embeddedIT string

//go:embed default_en.txt
var embeddedEN string

// envFiles maps a language code to the env var naming its word file.
var envFiles = map[string]string{
	"it": "WORDS_IT_FILE",
	"en": "WORDS_EN_FILE",
}

// Lists holds the loaded word lists per language. Immutable after Load.
type Lists struct {
	byLang map[string][]string
}

// Load reads the word list for every supported language, preferring the
// env-configured file and falling back to the embedded defaults.
func Load() (*Lists, error) {
	byLang := map[string][]string{}
	embedded := map[string]string{"it": embeddedIT, "en": embeddedEN}
	for lang, envKey := range envFiles {
		if path := os.Getenv(envKey); path != "" {
			list, err := readWordFile(path)
			if err != nil {
				return nil, fmt.Errorf("load %s words: %w", lang, err)
			}
			byLang[lang] = list
			continue
		}
		byLang[lang] = normalizeLines(embedded[lang])
	}
	for lang, list := range byLang {
		if len(list) == 0 {
			return nil, fmt.Errorf("%s: %w", lang, ErrWordListUnavailable)
		}
	}
	return &Lists{byLang: byLang}, nil
}

// NewLists builds Lists from fixed slices, normalizing every word the same
// way file loading does. Useful for tests and custom wiring.
func NewLists(byLang map[string][]string) *Lists {
	normalized := make(map[string][]string, len(byLang))
	for lang, list := range byLang {
		var out []string
		for _, w := range list {
			if n, ok := normalizeWord(w); ok {
				out = append(out, n)
			}
		}
		normalized[lang] = out
	}
	return &Lists{byLang: normalized}
}

// ListFor returns the word list for lang.
func (l *Lists) ListFor(lang string) ([]string, error) {
	list, ok := l.byLang[lang]
	if !ok || len(list) == 0 {
		return nil, ErrWordListUnavailable
	}
	return list, nil
}

// Languages returns the configured language codes.
func (l *Lists) Languages() []string {
	out := make([]string, 0, len(l.byLang))
	for lang := range l.byLang {
		out = append(out, lang)
	}
	return out
}

// Stats returns the list size per language.
func (l *Lists) Stats() map[string]int {
	out := make(map[string]int, len(l.byLang))
	for lang, list := range l.byLang {
		out[lang] = len(list)
	}
	return out
}

// readWordFile loads one word per line from a file, keeping only valid
// 5-letter alphabetic words, uppercased.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := normalizeWord(sc.Text()); ok {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalizeLines processes an embedded multiline string into a slice of
// valid uppercase 5-letter words.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w, ok := normalizeWord(line); ok {
			out = append(out, w)
		}
	}
	return out
}

func normalizeWord(s string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(s))
	if w == "" || strings.HasPrefix(w, "#") {
		return "", false
	}
	if len(w) != 5 || !isAlpha(w) {
		return "", false
	}
	return w, true
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Picker draws secret words and records their usage.
type Picker struct {
	lists *Lists
	usage store.WordUsageStore
	now   func() time.Time
}

// NewPicker constructs a Picker over the loaded lists.
func NewPicker(lists *Lists, usage store.WordUsageStore) *Picker {
	return &Picker{lists: lists, usage: usage, now: time.Now}
}

// Draw picks a uniformly random word for lang and increments its usage
// record. Repeats across games are allowed; there is no exclusion window.
func (p *Picker) Draw(ctx context.Context, lang string) (string, error) {
	list, err := p.lists.ListFor(lang)
	if err != nil {
		return "", err
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return "", fmt.Errorf("draw word: %w", err)
	}
	word := list[nBig.Int64()]
	if err := p.usage.Increment(ctx, lang, word, p.now().UTC()); err != nil {
		return "", fmt.Errorf("record word usage: %w", err)
	}
	return word, nil
}
