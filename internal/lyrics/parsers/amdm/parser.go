package amdm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/lyricsfmt/internal/logger"
)

const chordsBlockSelector = `pre[itemprop="chordsBlock"].podbor__text`

var ErrNoLyrics = errors.New("could not find target element with chords and lyrics")

// Parser handles the HTML parsing and lyrics extraction
type Parser struct {
	client *Client
	config *ProcessingConfig
}

type Option func(*Parser)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Parser) {
		p.client = NewClient(c)
	}
}

func WithDroppedSections(sections ...SectionType) Option {
	return func(p *Parser) {
		p.config.DroppedSections = sections
	}
}

// WithKeepBars leaves the "|" bar separators in the extracted text.
func WithKeepBars() Option {
	return func(p *Parser) {
		p.config.KeepBars = true
	}
}

// NewParser creates a new AmDm parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		client: NewClient(nil),
		config: &ProcessingConfig{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractLyricsFromAmdm extracts lyrics from an AmDm.ru page
func (p *Parser) ExtractLyricsFromAmdm(ctx context.Context, url string) (*LyricsResult, error) {
	logger.Debug(fmt.Sprintf("ExtractLyricsFromAmdm: fetching page %s", url))

	html, err := p.client.FetchPage(ctx, url)
	if err != nil {
		return &LyricsResult{URL: url, Error: err.Error()}, err
	}

	text, err := p.ExtractFromHTML(html)
	if err != nil {
		logger.Error(fmt.Sprintf("ExtractLyricsFromAmdm: %v\nURL: %s", err, url))
		return &LyricsResult{URL: url, Error: err.Error()}, err
	}

	logger.Debug(fmt.Sprintf("ExtractLyricsFromAmdm: processed lyrics text for %s (length: %d chars)", url, len(text)))

	return &LyricsResult{
		URL:       url,
		Text:      text,
		FetchedAt: time.Now(),
		Success:   true,
	}, nil
}

// ExtractFromHTML pulls the lyric text out of a chords page.
func (p *Parser) ExtractFromHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(chordsBlockSelector).First()
	if selection.Length() == 0 {
		return "", ErrNoLyrics
	}

	blockHTML, err := selection.Html()
	if err != nil {
		return "", fmt.Errorf("failed to read chords block: %w", err)
	}

	text, err := p.processHtmlContent(blockHTML)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoLyrics
	}
	return text, nil
}
