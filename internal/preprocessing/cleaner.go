package preprocessing

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]+>`)
	mdLinkPattern    = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern       = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern     = regexp.MustCompile(`\S+@\S+\.\S+`)
	controlPattern   = regexp.MustCompile("[\x00-\x1F\x7F]")
	emojiPattern     = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}]+`)
	multiDashPattern = regexp.MustCompile(`(?:^|\s)[—–-]{1,}(?:\s|$)`)
)

// Clean normalizes raw comment text: markdown is rendered and stripped,
// HTML tags, URLs, emails, emoji and control characters are removed, and
// whitespace is collapsed. Whitespace-only input yields "".
func Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// Keep only the link text for markdown links before rendering.
	text = mdLinkPattern.ReplaceAllString(text, "$1")

	// Render markdown to HTML so markup characters collapse into tags,
	// which the tag pattern then removes.
	rendered := blackfriday.Run([]byte(text), blackfriday.WithNoExtensions())
	text = string(rendered)

	text = controlPattern.ReplaceAllString(text, " ")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = emojiPattern.ReplaceAllString(text, " ")
	text = multiDashPattern.ReplaceAllString(text, " - ")

	return strings.Join(strings.Fields(text), " ")
}
