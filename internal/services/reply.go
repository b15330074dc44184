package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxReplyRunes is the visible length above which replies are cut.
const DefaultMaxReplyRunes = 500

var tagRE = regexp.MustCompile(`<[^>]+>`)

// StripTags removes HTML-like tags.
func StripTags(s string) string { return tagRE.ReplaceAllString(s, "") }

// CapLength shortens text whose visible (tag-stripped) length exceeds limit
// runes. The cut is made at the last whitespace at or before the limit and
// "..." is appended; a non-empty hint follows on its own paragraph. Text within
// the limit is returned unchanged. The bool reports whether a cut happened.
func CapLength(text string, limit int, hint string) (string, bool) {
	if limit <= 0 {
		limit = DefaultMaxReplyRunes
	}
	clean := StripTags(text)
	if utf8.RuneCountInString(clean) <= limit {
		return text, false
	}

	// runes[limit] exists; a space there means the word before it fits whole.
	runes := []rune(clean)
	cut := limit
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	out := strings.TrimSpace(string(runes[:cut]))
	if !strings.HasSuffix(out, "...") {
		out += "..."
	}
	if hint != "" {
		out += "\n\n" + hint
	}
	return out, true
}
