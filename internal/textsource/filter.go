package textsource

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a dictionary word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for dictionary words.
// English keeps plain a-z words, which drops possessives such as "cat's"
// found in system dictionaries. Other languages keep any all-letter word.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return filterLetters
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func filterLetters(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
