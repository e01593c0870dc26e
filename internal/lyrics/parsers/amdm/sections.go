package amdm

import (
	"regexp"
	"strings"
)

var (
	sectionMarkerRe   = regexp.MustCompile(`^\[([^\]:]+?)\s*:?\]:?$`)
	commentArtifactRe = regexp.MustCompile(`/\*[^*]*\*?`)
	sectionNumberRe   = regexp.MustCompile(`\s*\d+$`)
)

// processTextLines keeps lyric lines and section markers. Each marker is
// preceded by a blank line so stanzas stay apart.
func (p *Parser) processTextLines(cleanText string) string {
	lines := strings.Split(cleanText, "\n")
	var processedLines []string
	dropping := false

	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}

		if m := sectionMarkerRe.FindStringSubmatch(trimmedLine); m != nil {
			dropping = p.handleSectionMarker(strings.TrimSpace(m[1]), &processedLines)
			continue
		}
		if dropping {
			continue
		}

		cleanLine := commentArtifactRe.ReplaceAllString(trimmedLine, "")
		cleanLine = strings.ReplaceAll(cleanLine, "*", "")
		cleanLine = strings.ReplaceAll(cleanLine, "/", "")
		if !p.config.KeepBars {
			cleanLine = strings.ReplaceAll(cleanLine, "|", " ")
		}
		cleanLine = strings.Join(strings.Fields(cleanLine), " ")

		if cleanLine != "" {
			processedLines = append(processedLines, cleanLine)
		}
	}

	return p.finalCleanup(strings.Join(processedLines, "\n"))
}

// handleSectionMarker writes the marker and reports whether the section is
// dropped.
func (p *Parser) handleSectionMarker(name string, processedLines *[]string) bool {
	base := sectionNumberRe.ReplaceAllString(name, "")
	for _, dropped := range p.config.DroppedSections {
		if strings.EqualFold(base, string(dropped)) {
			return true
		}
	}
	*processedLines = append(*processedLines, "", "["+name+"]")
	return false
}
