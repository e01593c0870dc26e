package amdm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	chordRe         = regexp.MustCompile(`(?s)<div[^>]*class="[^"]*podbor__chord[^"]*"[^>]*>.*?</div>`)
	authorCommentRe = regexp.MustCompile(`(?s)<span[^>]*class="[^"]*podbor__author-comment[^"]*"[^>]*>.*?</span>`)
	closedCommentRe = regexp.MustCompile(`/\*[^*]*\*/`)
	keywordRe       = regexp.MustCompile(`<div[^>]*class="[^"]*podbor__keyword[^"]*"[^>]*>\s*\[([^\]:]+):?\]:?[^<]*</div>`)
)

// processHtmlContent turns the chords block into plain lines. Chord rows and
// author comments are removed, section keywords become "[Name]" lines.
func (p *Parser) processHtmlContent(blockHTML string) (string, error) {
	processed := chordRe.ReplaceAllString(blockHTML, "\n")
	processed = authorCommentRe.ReplaceAllString(processed, "")
	processed = closedCommentRe.ReplaceAllString(processed, "")
	processed = keywordRe.ReplaceAllString(processed, "\n[$1]\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(processed))
	if err != nil {
		return "", fmt.Errorf("failed to parse chords block: %w", err)
	}

	return p.processTextLines(doc.Text()), nil
}
