package textsource

import (
	"sync"

	"github.com/verte-zerg/ttt/internal/generator"
)

// Source produces the text for the next practice session.
type Source interface {
	// Next returns a non-empty text. weak may bias generated texts toward
	// the given runes; fixed texts ignore it.
	Next(weak map[rune]struct{}) (string, error)
	// Describe names the source for status lines and logs.
	Describe() string
}

// Fixed always returns the same text until Set replaces it.
type Fixed struct {
	mu   sync.RWMutex
	text string
	path string
}

// NewFixed returns a Fixed source for text loaded from path.
func NewFixed(text, path string) *Fixed {
	return &Fixed{text: text, path: path}
}

// Next implements Source.
func (f *Fixed) Next(map[rune]struct{}) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.text == "" {
		return "", ErrEmpty
	}
	return f.text, nil
}

// Set replaces the text returned by later Next calls. Empty texts are ignored.
func (f *Fixed) Set(text string) {
	if text == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

// Describe implements Source.
func (f *Fixed) Describe() string {
	return f.path
}

// Random generates texts from a dictionary.
type Random struct {
	gen   *generator.Generator
	words []string
	opts  generator.Options
	path  string
}

// NewRandom returns a Random source. opts.Weak is overridden on every Next.
func NewRandom(gen *generator.Generator, words []string, opts generator.Options, path string) *Random {
	return &Random{gen: gen, words: words, opts: opts, path: path}
}

// Next implements Source.
func (r *Random) Next(weak map[rune]struct{}) (string, error) {
	opts := r.opts
	opts.Weak = weak
	text := r.gen.Text(r.words, opts)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Describe implements Source.
func (r *Random) Describe() string {
	return r.path
}
