package keywords

import "strings"

// englishStopwords is the default filter list for keyword candidates.
var englishStopwords = map[string]struct{}{}

func init() {
	terms := []string{
		"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
		"and", "any", "are", "aren't", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "cannot", "could",
		"did", "do", "does", "doing", "don't", "down", "during", "each", "few", "for",
		"from", "further", "get", "got", "had", "has", "have", "having", "he", "her",
		"here", "hers", "him", "his", "how", "i", "if", "in", "into", "is", "it",
		"its", "it's", "just", "like", "me", "more", "most", "my", "no", "nor", "not",
		"now", "of", "off", "on", "once", "only", "or", "other", "our", "ours", "out",
		"over", "own", "same", "she", "should", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "then", "there", "these", "they", "this",
		"those", "through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "would", "you", "your", "yours",
	}
	for _, t := range terms {
		englishStopwords[t] = struct{}{}
	}
}

// IsStopword reports whether token is filtered from keyword candidates.
func IsStopword(token string) bool {
	_, ok := englishStopwords[strings.ToLower(token)]
	return ok
}
