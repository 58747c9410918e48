package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/logging"
)

// Manager owns the one shared browser session for the process. Concurrent
// callers asking for a session while none exists are collapsed into a single
// creation, so exactly one browser process is ever launched at a time.
type Manager struct {
	cfg    config.BrowserSection
	logger *logging.Logger

	mu      sync.Mutex
	session *Session
	closed  bool

	group singleflight.Group

	// seams for tests
	create  func(ctx context.Context) (*Session, error)
	destroy func(s *Session)
	isAlive func(s *Session) bool
}

// NewManager creates a session manager for the given browser configuration.
func NewManager(cfg config.BrowserSection) *Manager {
	logger, err := logging.NewLogger("browser")
	if err != nil {
		logger.Warnf("file logging unavailable, using stderr fallback: %v", err)
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
	}
	m.create = m.createSession
	m.destroy = m.destroySession
	m.isAlive = func(s *Session) bool { return s.alive(cfg.LivenessTimeout) }
	return m
}

// Session returns the shared browser session, creating it on first use and
// verifying liveness before reusing a cached one. A cached session that
// fails the liveness probe is torn down and replaced transparently.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	s := m.session
	m.mu.Unlock()

	if s != nil {
		if m.isAlive(s) {
			return s, nil
		}
		m.logger.Warnf("cached session %s failed liveness probe, invalidating", s.id)
		m.Invalidate(s)
	}

	v, err, _ := m.group.Do("session", func() (interface{}, error) {
		// Another caller may have finished creation while we queued.
		if s := m.cached(); s != nil {
			return s, nil
		}
		s, err := m.create(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if m.closed {
			// Shutdown ran while this creation was in flight; the new
			// session must not outlive it.
			m.mu.Unlock()
			m.destroy(s)
			return nil, ErrManagerClosed
		}
		m.session = s
		m.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Invalidate discards the given session if it is still the cached one and
// tears it down. Callers invoke this when the session's protocol connection
// has visibly broken.
func (m *Manager) Invalidate(s *Session) {
	if s == nil {
		return
	}
	m.mu.Lock()
	if m.session == s {
		m.session = nil
	}
	m.mu.Unlock()
	m.destroy(s)
}

// Shutdown tears down the cached session if one exists and marks the
// manager closed, so a creation still in flight cannot repopulate the slot.
// Safe to call more than once and with no session at all.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	s := m.session
	m.session = nil
	m.closed = true
	m.mu.Unlock()
	if s != nil {
		m.destroy(s)
	}
}

// cached returns the current session without side effects.
func (m *Manager) cached() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// createSession runs the full startup pipeline: binary discovery, port
// allocation, process launch, readiness handshake, and protocol attach.
// Every failure after launch reaps the process and its profile directory so
// nothing leaks.
func (m *Manager) createSession(ctx context.Context) (*Session, error) {
	execPath := m.cfg.ExecutablePath
	if execPath == "" {
		var err error
		execPath, err = FindExecutable()
		if err != nil {
			return nil, err
		}
	}

	port, err := allocatePort()
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	profileDir := filepath.Join(os.TempDir(), "scout-profile-"+id)
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	m.logger.Infof("launching browser %s on port %d (session %s)", execPath, port, id)

	cmd, exited, err := launchProcess(launchSpec{
		execPath:   execPath,
		debugPort:  port,
		profileDir: profileDir,
		headless:   m.cfg.Headless,
	})
	if err != nil {
		return nil, err
	}

	info, err := probeHandshake(ctx, port, RetryPolicy{
		Attempts:     m.cfg.HandshakeAttempts,
		Interval:     m.cfg.HandshakeInterval,
		ProbeTimeout: m.cfg.HandshakeProbeTimeout,
	})
	if err != nil {
		m.logger.Errorf("handshake failed for session %s: %v", id, err)
		if killErr := killTree(cmd); killErr != nil {
			m.logger.Warnf("failed to kill browser process after handshake failure: %v", killErr)
		}
		os.RemoveAll(profileDir)
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), info.WebSocketDebuggerURL, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:            id,
		debugPort:     port,
		wsURL:         info.WebSocketDebuggerURL,
		userAgent:     info.UserAgent,
		profileDir:    profileDir,
		cmd:           cmd,
		exited:        exited,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		warmed:        make(map[string]bool),
	}

	// Establish the protocol connection now so attach failures surface here
	// rather than on the first caller's navigation.
	attachCtx, attachCancel := context.WithTimeout(browserCtx, m.cfg.LivenessTimeout)
	defer attachCancel()
	if err := chromedp.Run(attachCtx); err != nil {
		m.logger.Errorf("protocol attach failed for session %s: %v", id, err)
		m.destroy(s)
		return nil, fmt.Errorf("%w: protocol attach failed: %v", ErrHandshakeTimeout, err)
	}

	m.logger.Infof("session %s ready (%s)", id, info.Browser)
	return s, nil
}
