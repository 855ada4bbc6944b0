// Package source fetches network description text from a file or URL.
package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	apperrors "gamenet/backend/pkg/errors"
	"gamenet/backend/pkg/logger"
)

// DefaultTimeout bounds a single remote fetch
const DefaultTimeout = 15 * time.Second

// maxBodySize caps how much of a remote document is read
const maxBodySize = 4 << 20

// textSelectors are the HTML elements whose text makes up a network description
const textSelectors = "p, li, pre"

// Loader reads network text from local files and http(s) URLs
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a loader. A nil client gets one with DefaultTimeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Loader{
		client: client,
		logger: logger.Get(),
	}
}

// Load returns the network text found at location. HTML documents are
// reduced to the text of their paragraphs, list items and pre blocks.
func (l *Loader) Load(ctx context.Context, location string) (string, error) {
	if isRemote(location) {
		return l.fetch(ctx, location)
	}
	return l.readFile(location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *Loader) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.NewSourceUnavailable(path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		text, err := extractText(strings.NewReader(string(data)))
		if err != nil {
			return "", apperrors.NewSourceUnavailable(path, err)
		}
		return text, nil
	}

	l.logger.Debug("Network text read from file",
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	return string(data), nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperrors.NewSourceUnavailable(url, err)
	}
	req.Header.Set("Accept", "text/plain, text/html;q=0.9")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.NewContextCancelled("fetch network source", ctx.Err())
		}
		return "", apperrors.NewSourceUnavailable(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewSourceUnavailable(url, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// One byte past the cap tells a full document from a truncated one
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", apperrors.NewSourceUnavailable(url, err)
	}
	if len(data) > maxBodySize {
		return "", apperrors.NewSourceUnavailable(url, fmt.Errorf("document exceeds %d bytes", maxBodySize))
	}

	text := string(data)
	if isHTML(resp.Header.Get("Content-Type")) {
		text, err = extractText(strings.NewReader(text))
		if err != nil {
			return "", apperrors.NewSourceUnavailable(url, err)
		}
	}

	l.logger.Info("Network text fetched",
		zap.String("url", url),
		zap.Int("bytes", len(text)),
		zap.Duration("latency", time.Since(start)),
	)
	return text, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// extractText joins the text of description-bearing elements with newlines,
// falling back to the whole body when none are present.
func extractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	doc.Find(textSelectors).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(parts, "\n"), nil
}
