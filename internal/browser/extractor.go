package browser

import (
	"bytes"
	"fmt"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// Document is an HTML page ready for RenderHTML.
type Document struct {
	Title     string
	Byline    string
	HTML      string // cleaned HTML
	Text      string // plain-text fallback
	BaseURL   string // site root; links under it become application paths
	FetchTime time.Duration
}

// Extract pulls the readable part out of a fetched page. Non-HTML bodies
// are wrapped in a <pre> block.
func Extract(result *FetchResult, baseURL string) (*Document, error) {
	if !IsHTML(result.ContentType) {
		return &Document{
			Title:     result.FinalURL,
			HTML:      "<pre>" + string(result.Body) + "</pre>",
			Text:      string(result.Body),
			BaseURL:   baseURL,
			FetchTime: result.Duration,
		}, nil
	}

	pageURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(result.Body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	return &Document{
		Title:     article.Title,
		Byline:    article.Byline,
		HTML:      article.Content,
		Text:      article.TextContent,
		BaseURL:   baseURL,
		FetchTime: result.Duration,
	}, nil
}
