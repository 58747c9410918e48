package browser

import (
	"context"
	"os/exec"
	"sync"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// Session is one live browser process together with its attached DevTools
// connection. A session is created by the Manager and shared by every caller
// until it is invalidated or shut down.
type Session struct {
	id         string
	debugPort  int
	wsURL      string
	userAgent  string
	profileDir string

	cmd    *exec.Cmd
	exited <-chan struct{}

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	warmedMu sync.Mutex
	warmed   map[string]bool

	closeOnce sync.Once
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Port returns the loopback port the debugging endpoint is bound to.
func (s *Session) Port() int {
	return s.debugPort
}

// WebSocketURL returns the DevTools WebSocket endpoint discovered during the
// readiness handshake.
func (s *Session) WebSocketURL() string {
	return s.wsURL
}

// UserAgent returns the browser's reported user agent string.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// NewTab opens a fresh tab context on the shared browser. The caller owns
// the returned cancel and must call it to close the tab.
func (s *Session) NewTab() (context.Context, context.CancelFunc) {
	return chromedp.NewContext(s.browserCtx)
}

// Warmed reports whether the named engine has already been primed on this
// session.
func (s *Session) Warmed(engine string) bool {
	s.warmedMu.Lock()
	defer s.warmedMu.Unlock()
	return s.warmed[engine]
}

// MarkWarmed records that the named engine has been primed on this session.
func (s *Session) MarkWarmed(engine string) {
	s.warmedMu.Lock()
	defer s.warmedMu.Unlock()
	if s.warmed == nil {
		s.warmed = make(map[string]bool)
	}
	s.warmed[engine] = true
}

// alive performs a time-bounded protocol round trip against the browser. A
// session that cannot answer Browser.getVersion is treated as dead.
func (s *Session) alive(timeout time.Duration) bool {
	if s.browserCtx == nil {
		return false
	}
	select {
	case <-s.exited:
		return false
	default:
	}

	ctx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, _, err := cdpbrowser.GetVersion().Do(ctx)
		return err
	}))
	return err == nil
}
