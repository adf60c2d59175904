package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
)

// Elements that never carry article text.
const strippedSelector = "script, style, nav, header, footer, aside, .advertisement, .ads, .sidebar"

// Content containers in priority order. The first one whose text clears
// config.ExtractMinCandidateLen wins, regardless of where it sits in the page.
var contentSelectors = []string{
	"main",
	"article",
	".content",
	".main-content",
	".post-content",
	".entry-content",
	"#content",
	"#main",
}

type Extractor struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewExtractor(timeout time.Duration, maxBytes int64) *Extractor {
	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Extract fetches rawURL and returns its title and main text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.WebContent, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := e.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewFetchError(domain.SubOther, "parse page", err)
	}

	return &domain.WebContent{
		Title:   extractTitle(doc),
		Content: extractMainContent(doc),
		URL:     target,
	}, nil
}

func (e *Extractor) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.NewValidationError("invalid URL format")
	}
	req.Header.Set("User-Agent", config.FetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.NewFetchError(domain.SubTimeout, "request timeout exceeded", err)
		}
		return nil, domain.NewFetchError(domain.SubOther, "fetch page", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewFetchError(domain.SubNotFound, "page not found (404)", nil)
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewFetchError(domain.SubForbidden, "access forbidden (403)", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, domain.NewFetchError(domain.SubOther, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, domain.NewFetchError(domain.SubTimeout, "request timeout exceeded", err)
		}
		return nil, domain.NewFetchError(domain.SubOther, "read page", err)
	}
	if int64(len(body)) > e.maxBytes {
		return nil, domain.NewFetchError(domain.SubOther, fmt.Sprintf("page exceeds %d bytes", e.maxBytes), nil)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// NormalizeURL accepts only absolute http(s) URLs and returns their canonical form.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", domain.NewValidationError("invalid URL format")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", domain.NewValidationError("URL must use HTTP or HTTPS protocol")
	}
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return "No title"
}

func extractMainContent(doc *goquery.Document) string {
	doc.Find(strippedSelector).Remove()

	for _, sel := range contentSelectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		if text := cleanText(found.Text()); utf8.RuneCountInString(text) > config.ExtractMinCandidateLen {
			return text
		}
	}
	return cleanText(doc.Find("body").Text())
}

// cleanText collapses whitespace runs to one space, trims and caps the result.
func cleanText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncateRunes(s, config.ExtractMaxContentLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
