package textsource

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("EN")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"", "résumé", "naïve", "don’t", "co-op", "cat's"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterLettersForOtherLanguages(t *testing.T) {
	filter := FilterForLang("de")
	for _, word := range []string{"straße", "über", "haus"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass", word)
		}
	}
	for _, word := range []string{"", "a1", "e-mail"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}
