package keywords

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercased candidate terms: letters, digits
// and inner hyphens, with stopwords, single characters and pure-numeric
// tokens removed. Mixed tokens like "phase-2" are kept.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := normalizeToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func normalizeToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	if len(token) <= 1 || isNumericOnly(token) || IsStopword(token) {
		return ""
	}
	return token
}

func isNumericOnly(token string) bool {
	for _, r := range token {
		if !unicode.IsNumber(r) && r != '-' && r != '.' {
			return false
		}
	}
	return true
}
