package search

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ProductName turns a catalog filename into a display name:
// "mango_soap_price.txt" becomes "Mango Soap".
func ProductName(fileID string) string {
	base := strings.TrimSuffix(fileID, path.Ext(fileID))
	lower := strings.ToLower(base)
	for _, suf := range []string{"_price", "_list"} {
		if strings.HasSuffix(lower, suf) {
			base = base[:len(base)-len(suf)]
			break
		}
	}
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	words := strings.Fields(base)
	if len(words) == 0 {
		return fileID
	}
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// FormatRows renders spreadsheet-style rows for chat. A line whose cells are
// separated by " | " becomes its first cell followed by one "- " bullet per
// remaining cell; other lines pass through trimmed. Runs of blank lines
// collapse to one.
//
//	Mango Soap | 100g | 45 THB
//
// becomes
//
//	Mango Soap
//	- 100g
//	- 45 THB
func FormatRows(content string) string {
	var b strings.Builder
	b.Grow(len(content) + 16)

	wroteBlank := true // no leading blank
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if !wroteBlank {
				b.WriteByte('\n')
				wroteBlank = true
			}
			continue
		}
		wroteBlank = false

		if !strings.Contains(line, " | ") {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		cells := make([]string, 0, 4)
		for _, c := range strings.Split(strings.Trim(line, "| "), " | ") {
			if c = strings.TrimSpace(c); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString(cells[0])
		for _, c := range cells[1:] {
			b.WriteString("\n- ")
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
