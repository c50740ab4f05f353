// Package wiki fetches Wikipedia articles over the REST HTML API and parses
// them into the section tree the encoder consumes.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrNotArticle reports that the given URL is not a Wikipedia article
	// reference. Not retryable.
	ErrNotArticle = errors.New("not a wikipedia article URL")
	// ErrArticleNotFound reports that the article does not exist.
	ErrArticleNotFound = errors.New("article not found")
)

// Client fetches article HTML from the Wikipedia REST API.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger // optional; when set, logs fetch events
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a fetch client from config.
func NewClient(cfg *config.WikiConfig, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TitleFromURL extracts the raw title segment from a Wikipedia article URL.
// Returns ErrNotArticle if the URL does not reference an article.
func TitleFromURL(rawURL string) (string, error) {
	const marker = "wikipedia.org/wiki/"
	i := strings.Index(rawURL, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotArticle, rawURL)
	}
	title := rawURL[i+len(marker):]
	if j := strings.IndexAny(title, "?#"); j >= 0 {
		title = title[:j]
	}
	if title == "" {
		return "", fmt.Errorf("%w: %s", ErrNotArticle, rawURL)
	}
	return title, nil
}

// DisplayTitle converts a raw URL title segment into the human-readable
// article title (percent-decoded, underscores as spaces).
func DisplayTitle(rawTitle string) string {
	decoded, err := url.PathUnescape(rawTitle)
	if err != nil {
		decoded = rawTitle
	}
	return strings.ReplaceAll(decoded, "_", " ")
}

// Fetch retrieves and parses the article referenced by rawURL.
// Returns ErrNotArticle for URLs that are not article references and
// ErrArticleNotFound when the wiki has no such article; other failures are
// transport errors and safe to retry by the caller.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*models.Article, error) {
	rawTitle, err := TitleFromURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	title := DisplayTitle(rawTitle)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+rawTitle, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrArticleNotFound, title)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch article: status %d: %s", resp.StatusCode, string(body))
	}

	article, err := ParseArticle(title, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug("article fetched",
			zap.String("title", title),
			zap.Int("sections", len(article.Sections)),
			zap.Int("infobox_fields", len(article.Infobox)),
		)
	}
	return article, nil
}
