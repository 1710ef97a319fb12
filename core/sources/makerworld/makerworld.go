// ABOUTME: MakerWorld source adapter scraping the public search results page
// ABOUTME: Uses colly to fetch the page and goquery selectors to read each model card

package makerworld

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"modelsearch-api/core/domain"
	apperrors "modelsearch-api/core/errors"
	"modelsearch-api/core/interfaces"
	"modelsearch-api/pkg/utils/html"
)

const (
	// DefaultBaseURL is the site origin; card links are resolved against it
	DefaultBaseURL = "https://makerworld.com"

	// DefaultSearchPath is the localized search page
	DefaultSearchPath = "/de/search"

	// DefaultUserAgent mimics a desktop browser, the page refuses obvious bots
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Markup selectors. These follow the site's current layout and break silently
// when it changes: the adapter then returns fewer or no results.
const (
	cardSelector   = ".card-item-hover-box.model-item"
	titleSelector  = ".model-title a"
	imageSelector  = ".image-box .img-box img"
	authorSelector = ".author-name a"
	lazyImageAttr  = "data-src"
)

// Config holds the scrape target and request settings
type Config struct {
	BaseURL    string
	SearchPath string
	UserAgent  string
	Timeout    time.Duration
}

// Option configures a Source
type Option func(*Source)

// WithTransport routes page fetches through rt
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Source) {
		if rt != nil {
			s.transport = rt
		}
	}
}

// Source scrapes MakerWorld
type Source struct {
	deps      interfaces.Dependencies
	config    Config
	transport http.RoundTripper
}

// New creates a MakerWorld source
func New(deps interfaces.Dependencies, cfg Config, opts ...Option) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SearchPath == "" {
		cfg.SearchPath = DefaultSearchPath
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	s := &Source{
		deps:      deps,
		config:    cfg,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source label
func (s *Source) Name() domain.Source {
	return domain.SourceMakerworld
}

// SearchURL builds the page address for term
func (s *Source) SearchURL(term string) string {
	return fmt.Sprintf("%s%s?keyword=%s", s.config.BaseURL, s.config.SearchPath, url.QueryEscape(term))
}

// Search fetches the results page and extracts model cards
func (s *Source) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	api := string(domain.SourceMakerworld)
	logger := s.deps.Log()

	base, err := url.Parse(s.config.BaseURL)
	if err != nil {
		return nil, &apperrors.ConfigurationError{Key: "makerworld_base_url", Message: err.Error()}
	}

	c := colly.NewCollector(
		colly.UserAgent(s.config.UserAgent),
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(s.config.Timeout)
	c.WithTransport(&contextTransport{ctx: ctx, next: s.transport})

	var (
		mu      sync.Mutex
		results = make([]domain.SearchResult, 0, domain.MaxResultsPerSource)
		status  int
		cards   int
	)

	c.OnHTML(cardSelector, func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()

		cards++
		if len(results) >= domain.MaxResultsPerSource {
			return
		}
		if result, ok := parseCard(e.DOM, base); ok {
			results = append(results, result)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		status = r.StatusCode
		logger.Debug("Error visiting makerworld search page", map[string]interface{}{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
			"error":  err.Error(),
		})
	})

	if err := c.Visit(s.SearchURL(term)); err != nil {
		if status != 0 {
			return nil, &apperrors.ExternalAPIError{StatusCode: status, Message: err.Error(), API: api}
		}
		return nil, fmt.Errorf("makerworld request failed: %w", err)
	}

	logger.Debug("Scraped makerworld search page", map[string]interface{}{
		"cards":   cards,
		"results": len(results),
	})

	return results, nil
}

// parseCard reads one model card. Cards missing a title, link or lazy-load
// image are dropped.
func parseCard(card *goquery.Selection, base *url.URL) (domain.SearchResult, bool) {
	link := card.Find(titleSelector).First()
	title := html.CleanText(link.Text())
	href, _ := link.Attr("href")
	imageURL := strings.TrimSpace(card.Find(imageSelector).First().AttrOr(lazyImageAttr, ""))
	author := html.CleanText(card.Find(authorSelector).First().Text())

	modelURL := resolve(base, href)
	if title == "" || modelURL == "" || imageURL == "" {
		return domain.SearchResult{}, false
	}

	return domain.SearchResult{
		Title:    title,
		URL:      modelURL,
		ImageURL: imageURL,
		Source:   domain.SourceMakerworld,
		Author:   author,
	}, true
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// contextTransport binds every outgoing request to the caller's context so
// cancelling a search aborts the page fetch.
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}
