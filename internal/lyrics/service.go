package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/lyrics/parsers/amdm"
)

var ErrUnsupportedSource = errors.New("unsupported URL source")

// LyricsResult represents the result of lyrics extraction
type LyricsResult struct {
	URL       string            `json:"url"`
	Text      string            `json:"text"`
	Formatted string            `json:"formatted,omitempty"`
	Metrics   formatter.Metrics `json:"metrics"`
	Source    string            `json:"source"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Service handles lyrics extraction for different sources
type Service struct {
	amdmParser *amdm.Parser
}

// NewService creates a new lyrics service. A nil parser gets the default
// amdm parser.
func NewService(amdmParser *amdm.Parser) *Service {
	if amdmParser == nil {
		amdmParser = amdm.NewParser()
	}
	return &Service{
		amdmParser: amdmParser,
	}
}

// IsSupported reports whether text is a link to a source the service reads.
func IsSupported(text string) bool {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "amdm.ru" || strings.HasSuffix(host, ".amdm.ru")
}

// ExtractLyrics extracts lyrics from a URL based on the source
func (s *Service) ExtractLyrics(ctx context.Context, rawURL string) (*LyricsResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	logger.Debug(fmt.Sprintf("ExtractLyrics called with URL: %s", rawURL))

	if !IsSupported(rawURL) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, rawURL)
	}

	result, err := s.amdmParser.ExtractLyricsFromAmdm(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return &LyricsResult{
		URL:       result.URL,
		Text:      result.Text,
		Source:    "amdm.ru",
		FetchedAt: result.FetchedAt,
	}, nil
}

// FormatLyrics extracts the lyrics and runs them through the formatter.
func (s *Service) FormatLyrics(ctx context.Context, rawURL string, opts formatter.Options) (*LyricsResult, error) {
	result, err := s.ExtractLyrics(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	result.Formatted = formatter.Format(result.Text, opts)
	result.Metrics = formatter.Check(result.Formatted)
	return result, nil
}
