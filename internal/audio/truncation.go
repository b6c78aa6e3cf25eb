package audio

import (
	"strings"
	"unicode"
)

// terminalPunctuation are characters that close an utterance.
const terminalPunctuation = `.!?…"')]:;`

// LooksTruncated reports whether a transcript appears cut off mid-sentence.
// The heuristic: a transcript ending without terminal punctuation, whose
// final token is neither a number nor a known complete word, was probably
// clipped (e.g. a clip that ends on "provid" instead of "provided").
//
// The flag is advisory. The interpreter still executes the literally
// stated parts of a flagged transcript; it only refuses to guess at the
// missing remainder.
func LooksTruncated(transcript string) bool {
	text := strings.TrimSpace(transcript)
	if text == "" {
		return false
	}

	runes := []rune(text)
	if strings.ContainsRune(terminalPunctuation, runes[len(runes)-1]) {
		return false
	}

	fields := strings.Fields(text)
	last := strings.TrimFunc(fields[len(fields)-1], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if last == "" {
		return false
	}

	if isNumeric(last) {
		return false
	}
	return !completeWords[strings.ToLower(last)]
}

// isNumeric reports whether s consists only of digits.
func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
