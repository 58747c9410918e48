package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/config"
)

// fakeProvider hands out a fixed session and records invalidations.
type fakeProvider struct {
	session     *browser.Session
	sessionErr  error
	invalidated int
}

func (p *fakeProvider) Session(ctx context.Context) (*browser.Session, error) {
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

func (p *fakeProvider) Invalidate(s *browser.Session) {
	p.invalidated++
}

func testSearchConfig() config.SearchSection {
	return config.SearchSection{
		DefaultEngine:     "bing",
		MaxResults:        10,
		RequestsPerMinute: 6000,
	}
}

func newTestSearcher(provider *fakeProvider) *Searcher {
	return NewSearcher(provider, testSearchConfig(), 5*time.Second)
}

func TestSearchParsesResults(t *testing.T) {
	provider := &fakeProvider{session: &browser.Session{}}
	s := newTestSearcher(provider)

	var visited []string
	s.fetchHTML = func(ctx context.Context, sess *browser.Session, pageURL string) (string, error) {
		visited = append(visited, pageURL)
		return bingPage, nil
	}

	results, err := s.Search(context.Background(), "golang", "")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "https://go.dev/", results[0].URL)

	// Default engine with a Primer visits the landing page first.
	require.Len(t, visited, 2)
	assert.Equal(t, "https://www.bing.com/", visited[0])
	assert.Contains(t, visited[1], "bing.com/search?q=golang")
}

func TestSearchPrimesOncePerSession(t *testing.T) {
	provider := &fakeProvider{session: &browser.Session{}}
	s := newTestSearcher(provider)

	var visited []string
	s.fetchHTML = func(ctx context.Context, sess *browser.Session, pageURL string) (string, error) {
		visited = append(visited, pageURL)
		return bingPage, nil
	}

	_, err := s.Search(context.Background(), "first", "bing")
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "second", "bing")
	require.NoError(t, err)

	// One prime visit plus two query visits.
	assert.Len(t, visited, 3)
	assert.Equal(t, "https://www.bing.com/", visited[0])
}

func TestSearchNavigationFailureInvalidatesSession(t *testing.T) {
	session := &browser.Session{}
	session.MarkWarmed("bing")
	provider := &fakeProvider{session: session}
	s := newTestSearcher(provider)

	s.fetchHTML = func(ctx context.Context, sess *browser.Session, pageURL string) (string, error) {
		return "", errors.New("websocket closed")
	}

	_, err := s.Search(context.Background(), "golang", "bing")
	assert.Error(t, err)
	assert.Equal(t, 1, provider.invalidated)
}

func TestSearchUnknownEngine(t *testing.T) {
	s := newTestSearcher(&fakeProvider{session: &browser.Session{}})
	_, err := s.Search(context.Background(), "golang", "altavista")
	assert.ErrorContains(t, err, "unknown search engine")
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newTestSearcher(&fakeProvider{session: &browser.Session{}})
	_, err := s.Search(context.Background(), "   ", "bing")
	assert.ErrorContains(t, err, "query must not be empty")
}

func TestSearchSessionErrorPropagates(t *testing.T) {
	provider := &fakeProvider{sessionErr: browser.ErrExecutableNotFound}
	s := newTestSearcher(provider)

	_, err := s.Search(context.Background(), "golang", "bing")
	assert.ErrorIs(t, err, browser.ErrExecutableNotFound)
}

func TestSearchToolExecute(t *testing.T) {
	provider := &fakeProvider{session: &browser.Session{}}
	s := newTestSearcher(provider)
	s.fetchHTML = func(ctx context.Context, sess *browser.Session, pageURL string) (string, error) {
		return bingPage, nil
	}

	tool := NewSearchTool(s)
	out, err := tool.Execute(context.Background(), []byte(
		"<arguments><query>golang</query><engine>bing</engine></arguments>"))
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 results")
	assert.Contains(t, out, "https://go.dev/")
}

func TestSearchToolRequiresQuery(t *testing.T) {
	tool := NewSearchTool(newTestSearcher(&fakeProvider{session: &browser.Session{}}))
	_, err := tool.Execute(context.Background(), []byte("<arguments></arguments>"))
	assert.ErrorContains(t, err, "query is required")
}
