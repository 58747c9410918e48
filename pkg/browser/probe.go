package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RetryPolicy bounds the debug-endpoint readiness polling. Each attempt is
// individually time-bounded so one hung connection cannot eat the whole
// budget.
type RetryPolicy struct {
	Attempts     int
	Interval     time.Duration
	ProbeTimeout time.Duration
}

// versionInfo is the subset of the /json/version document we care about.
type versionInfo struct {
	Browser              string `json:"Browser"`
	UserAgent            string `json:"User-Agent"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// probeHandshake polls the browser's version endpoint until it answers with
// a WebSocket debugger URL or the retry budget is exhausted. Cancelling ctx
// aborts between attempts and mid-attempt.
func probeHandshake(ctx context.Context, port int, policy RetryPolicy) (versionInfo, error) {
	endpoint := fmt.Sprintf("http://127.0.0.1:%d/json/version", port)

	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return versionInfo{}, ctx.Err()
			case <-time.After(policy.Interval):
			}
		}

		info, err := fetchVersion(ctx, endpoint, policy.ProbeTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return versionInfo{}, ctx.Err()
			}
			lastErr = err
			continue
		}
		return info, nil
	}
	return versionInfo{}, fmt.Errorf("%w after %d attempts: %v", ErrHandshakeTimeout, policy.Attempts, lastErr)
}

// fetchVersion performs one time-bounded poll of the version endpoint.
func fetchVersion(ctx context.Context, endpoint string, timeout time.Duration) (versionInfo, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return versionInfo{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return versionInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return versionInfo{}, fmt.Errorf("version endpoint returned status %d", resp.StatusCode)
	}

	var info versionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return versionInfo{}, fmt.Errorf("failed to decode version document: %w", err)
	}
	if info.WebSocketDebuggerURL == "" {
		return versionInfo{}, fmt.Errorf("version document missing webSocketDebuggerUrl")
	}
	return info, nil
}
