package textsource

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/ttt/internal/generator"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWordsNormalisesAndFilters(t *testing.T) {
	path := writeTemp(t, "words", "  Apple \n\nbanana\ncat's\nApple\nCherry\n")
	words, err := LoadWords(path, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, words)
}

func TestLoadWordsEmpty(t *testing.T) {
	path := writeTemp(t, "words", "\n  \n123\n")
	_, err := LoadWords(path, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestLoadWordsMissingFile(t *testing.T) {
	_, err := LoadWords(filepath.Join(t.TempDir(), "nope"), "en")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadText(t *testing.T) {
	path := writeTemp(t, "text.txt", "first line  \r\nsecond\r\n\r\n")
	text, err := LoadText(path)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond", text)
}

func TestLoadTextWhitespaceOnly(t *testing.T) {
	path := writeTemp(t, "text.txt", " \r\n\t\n")
	_, err := LoadText(path)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"a\r\nb":     "a\nb",
		"a\rb":       "a\nb",
		"a \t\nb  ":  "a\nb",
		"  lead":     "  lead",
		"x\n\n\n":    "x",
		"one\n\ntwo": "one\n\ntwo",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestFixedSource(t *testing.T) {
	src := NewFixed("hello", "/tmp/hello.txt")
	text, err := src.Next(map[rune]struct{}{'h': {}})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "/tmp/hello.txt", src.Describe())

	src.Set("")
	src.Set("world")
	text, err = src.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, "world", text)
}

func TestRandomSource(t *testing.T) {
	src := NewRandom(generator.NewWithSeed(7), []string{"aa", "bb"}, generator.Options{Count: 4}, "dict")
	text, err := src.Next(nil)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(text), 4)

	empty := NewRandom(generator.NewWithSeed(7), nil, generator.Options{Count: 4}, "dict")
	_, err = empty.Next(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestWatcherReloadsText(t *testing.T) {
	path := writeTemp(t, "practice.txt", "old text")
	w, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	assert.Equal(t, path, w.Path())

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("new text\r\n"), 0o644))

	select {
	case text := <-w.Texts():
		assert.Equal(t, "new text", text)
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := writeTemp(t, "practice.txt", "text")
	w, err := Watch(path, 0)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
