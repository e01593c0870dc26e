package amdm

import (
	"regexp"
	"strings"
)

var excessiveBreaksRe = regexp.MustCompile(`\n{3,}`)

// finalCleanup leaves at most one blank line between stanzas.
func (p *Parser) finalCleanup(lyrics string) string {
	lyrics = excessiveBreaksRe.ReplaceAllString(lyrics, "\n\n")
	return strings.TrimSpace(lyrics)
}
