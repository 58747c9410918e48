package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/logging"
)

// SessionProvider hands out the shared browser session and accepts
// invalidation of sessions whose protocol connection has broken. Satisfied
// by *browser.Manager.
type SessionProvider interface {
	Session(ctx context.Context) (*browser.Session, error)
	Invalidate(s *browser.Session)
}

// Searcher runs queries through the shared browser session. Each engine is
// rate-limited independently, and a session whose protocol connection fails
// mid-search is invalidated so the next query gets a fresh browser.
type Searcher struct {
	manager    SessionProvider
	cfg        config.SearchSection
	navTimeout time.Duration
	logger     *logging.Logger

	engines map[string]Engine

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter

	// seam for tests
	fetchHTML func(ctx context.Context, s *browser.Session, pageURL string) (string, error)
}

// NewSearcher creates a searcher backed by the given session manager.
func NewSearcher(manager SessionProvider, cfg config.SearchSection, navTimeout time.Duration) *Searcher {
	logger, err := logging.NewLogger("search")
	if err != nil {
		logger.Warnf("file logging unavailable, using stderr fallback: %v", err)
	}
	s := &Searcher{
		manager:    manager,
		cfg:        cfg,
		navTimeout: navTimeout,
		logger:     logger,
		engines:    Engines(),
		limiters:   make(map[string]*rate.Limiter),
	}
	s.fetchHTML = s.renderPage
	return s
}

// Search runs one query against the named engine. An empty engine name
// selects the configured default.
func (s *Searcher) Search(ctx context.Context, query, engineName string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if engineName == "" {
		engineName = s.cfg.DefaultEngine
	}
	engine, ok := s.engines[engineName]
	if !ok {
		return nil, fmt.Errorf("unknown search engine %q", engineName)
	}

	if err := s.limiter(engineName).Wait(ctx); err != nil {
		return nil, err
	}

	session, err := s.manager.Session(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.primeOnce(ctx, session, engine); err != nil {
		s.logger.Warnf("priming %s failed: %v", engineName, err)
	}

	html, err := s.fetchHTML(ctx, session, engine.SearchURL(query))
	if err != nil {
		s.logger.Errorf("search navigation failed on %s, invalidating session: %v", engineName, err)
		s.manager.Invalidate(session)
		return nil, fmt.Errorf("search failed on %s: %w", engineName, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	results := engine.Parse(doc, s.cfg.MaxResults)
	s.logger.Infof("search %q on %s returned %d results", query, engineName, len(results))
	return results, nil
}

// EngineNames returns the supported engine identifiers.
func (s *Searcher) EngineNames() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	return names
}

// primeOnce visits the engine's landing page the first time this session is
// used for this engine. Priming failures are non-fatal; the query itself
// decides whether the session is usable.
func (s *Searcher) primeOnce(ctx context.Context, session *browser.Session, engine Engine) error {
	primer, ok := engine.(Primer)
	if !ok {
		return nil
	}
	if session.Warmed(engine.Name()) {
		return nil
	}
	if _, err := s.fetchHTML(ctx, session, primer.PrimeURL()); err != nil {
		return err
	}
	session.MarkWarmed(engine.Name())
	return nil
}

// limiter returns the per-engine rate limiter, creating it on first use.
func (s *Searcher) limiter(engineName string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	l, ok := s.limiters[engineName]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.cfg.RequestsPerMinute)), 1)
		s.limiters[engineName] = l
	}
	return l
}

// renderPage opens a tab, navigates it, and returns the rendered document.
// The tab runs on the session's own context chain, so the caller's ctx only
// gates whether we start at all.
func (s *Searcher) renderPage(ctx context.Context, session *browser.Session, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, closeTab := session.NewTab()
	defer closeTab()

	navCtx, cancel := context.WithTimeout(tabCtx, s.navTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
