package textproc

import (
	"regexp"
	"strings"
)

var (
	pageNumberRe  = regexp.MustCompile(`\n\s*\d+\s*\n`)
	digitOnlyRe   = regexp.MustCompile(`(?m)^\d+$`)
	newlineRunRe  = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(` {2,}`)
)

// CleanText strips page-number artifacts left over from text extraction and
// collapses excess whitespace. An empty result means the document had no
// readable text.
func CleanText(text string) string {
	text = pageNumberRe.ReplaceAllString(text, "\n")
	text = digitOnlyRe.ReplaceAllString(text, "")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
