package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/logging"
)

// SessionProvider hands out the shared browser session. Satisfied by
// *browser.Manager.
type SessionProvider interface {
	Session(ctx context.Context) (*browser.Session, error)
	Invalidate(s *browser.Session)
}

// Fetcher renders pages in the shared browser and extracts their readable
// content. Hosts matching the configured blocklist are refused before any
// navigation happens.
type Fetcher struct {
	manager    SessionProvider
	cfg        config.FetchSection
	blocklist  *Blocklist
	navTimeout time.Duration
	logger     *logging.Logger

	// seam for tests
	fetchHTML func(ctx context.Context, s *browser.Session, pageURL string) (string, error)
}

// NewFetcher creates a fetcher backed by the given session manager.
func NewFetcher(manager SessionProvider, cfg config.FetchSection, navTimeout time.Duration) (*Fetcher, error) {
	blocklist, err := NewBlocklist(cfg.BlockedDomains)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger("fetch")
	if err != nil {
		logger.Warnf("file logging unavailable, using stderr fallback: %v", err)
	}
	f := &Fetcher{
		manager:    manager,
		cfg:        cfg,
		blocklist:  blocklist,
		navTimeout: navTimeout,
		logger:     logger,
	}
	f.fetchHTML = f.renderPage
	return f, nil
}

// Fetch renders the given URL and returns its extracted content. A
// navigation failure invalidates the shared session so the next call gets a
// fresh browser.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if f.blocklist.Blocked(parsed.Hostname()) {
		return nil, fmt.Errorf("domain %s is blocked by configuration", parsed.Hostname())
	}

	session, err := f.manager.Session(ctx)
	if err != nil {
		return nil, err
	}

	html, err := f.fetchHTML(ctx, session, rawURL)
	if err != nil {
		f.logger.Errorf("navigation to %s failed, invalidating session: %v", rawURL, err)
		f.manager.Invalidate(session)
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	page, err := extract(html, rawURL, f.cfg.MaxLength)
	if err != nil {
		return nil, err
	}
	f.logger.Infof("fetched %s (%d chars, truncated=%v)", rawURL, len(page.Text), page.Truncated)
	return page, nil
}

// renderPage opens a tab, navigates it, and returns the rendered document.
func (f *Fetcher) renderPage(ctx context.Context, session *browser.Session, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tabCtx, closeTab := session.NewTab()
	defer closeTab()

	navCtx, cancel := context.WithTimeout(tabCtx, f.navTimeout)
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
