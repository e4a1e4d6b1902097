// Package textsource supplies practice texts: fixed texts read from a file
// and random texts generated from a dictionary.
package textsource

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmpty is returned when a text file or dictionary has no usable content.
var ErrEmpty = errors.New("no usable content")

// LoadWords reads one word per line from path. Words are trimmed,
// lower-cased and filtered for lang; blank lines are skipped.
func LoadWords(path, lang string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	keep := FilterForLang(lang)
	seen := map[string]struct{}{}
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if !keep(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s: %w", path, ErrEmpty)
	}
	return words, nil
}

// LoadText reads a fixed practice text from path.
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := Normalize(string(data))
	if text == "" {
		return "", fmt.Errorf("text %s: %w", path, ErrEmpty)
	}
	return text, nil
}

// Normalize converts line endings to \n and strips trailing whitespace from
// every line and from the end of the text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
