package browser

import (
	"context"
	"os"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// destroySession tears down a session exactly once: ask the browser to close
// itself over the protocol, fall back to killing the process tree if it does
// not exit in time, and always remove the profile directory. Teardown
// failures are logged, never returned, since there is nothing a caller can
// do about them.
func (m *Manager) destroySession(s *Session) {
	s.closeOnce.Do(func() {
		m.logger.Infof("tearing down session %s", s.id)

		if !m.gracefulClose(s) && s.cmd != nil {
			if err := killTree(s.cmd); err != nil {
				m.logger.Warnf("failed to kill browser process for session %s: %v", s.id, err)
			}
		}

		if s.browserCancel != nil {
			s.browserCancel()
		}
		if s.allocCancel != nil {
			s.allocCancel()
		}

		if s.profileDir != "" {
			if err := os.RemoveAll(s.profileDir); err != nil {
				m.logger.Warnf("failed to remove profile directory for session %s: %v", s.id, err)
			}
		}
	})
}

// gracefulClose asks the browser to exit via Browser.close and waits for the
// process to go away within the shutdown budget. Returns false when the
// forced path is still needed.
func (m *Manager) gracefulClose(s *Session) bool {
	if s.browserCtx == nil || s.exited == nil {
		return false
	}
	select {
	case <-s.exited:
		return true
	default:
	}

	ctx, cancel := context.WithTimeout(s.browserCtx, m.cfg.ShutdownTimeout)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return cdpbrowser.Close().Do(ctx)
	}))
	if err != nil {
		m.logger.Warnf("graceful close failed for session %s: %v", s.id, err)
		return false
	}

	select {
	case <-s.exited:
		return true
	case <-time.After(m.cfg.ShutdownTimeout):
		m.logger.Warnf("session %s did not exit within %s after graceful close", s.id, m.cfg.ShutdownTimeout)
		return false
	}
}
