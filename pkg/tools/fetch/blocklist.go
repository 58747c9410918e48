// Package fetch retrieves pages through the shared browser session and
// extracts readable article text from them.
package fetch

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Blocklist matches hostnames against configured glob patterns. A pattern
// like *.internal.example.com blocks every subdomain.
type Blocklist struct {
	patterns []glob.Glob
	sources  []string
}

// NewBlocklist compiles the given glob patterns. Invalid patterns are
// rejected up front so misconfiguration surfaces at startup.
func NewBlocklist(patterns []string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, p := range patterns {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid blocked domain pattern %q: %w", p, err)
		}
		b.patterns = append(b.patterns, g)
		b.sources = append(b.sources, p)
	}
	return b, nil
}

// Blocked reports whether the hostname matches any configured pattern.
func (b *Blocklist) Blocked(host string) bool {
	host = strings.ToLower(host)
	for _, g := range b.patterns {
		if g.Match(host) {
			return true
		}
	}
	return false
}
