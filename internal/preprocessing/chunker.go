package preprocessing

import "strings"

// minBoundaryOffset is the smallest chunk a sentence boundary may
// produce; boundaries closer to the chunk start than this are ignored in
// favor of a hard split, matching how degenerate short sentences would
// otherwise fragment the text.
const minBoundaryOffset = 30

var sentenceEnders = []rune{'.', '!', '?'}

// Chunk splits text into ordered pieces of at most maxChunkLen runes,
// preferring sentence boundaries and hard-splitting when none is
// available. Concatenating the chunks (modulo trimmed whitespace) covers
// the whole input; nothing is dropped. Empty or whitespace-only input
// yields no chunks; input at or under the limit yields exactly one chunk
// equal to the trimmed input.
func Chunk(text string, maxChunkLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChunkLen <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= maxChunkLen {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxChunkLen
		if end >= len(runes) {
			end = len(runes)
		} else {
			if boundary := lastSentenceEnd(runes, start, end); boundary > start+minBoundaryOffset {
				end = boundary + 1
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = end
	}

	return chunks
}

// lastSentenceEnd returns the index of the last sentence-ending rune in
// runes[start:end), or -1.
func lastSentenceEnd(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		for _, ender := range sentenceEnders {
			if runes[i] == ender {
				return i
			}
		}
	}
	return -1
}
