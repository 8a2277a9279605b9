package preview

import (
	"errors"
	"strings"
	"sync"
)

// ErrOriginRejected is returned for a message from an origin off the allowlist.
var ErrOriginRejected = errors.New("preview: origin rejected")

// DefaultAllowlist is the builder origins trusted out of the box.
var DefaultAllowlist = []string{
	"localhost",
	"admin.sinbibook.com",
	"admin.sinbibook.xyz",
	"sinbibook.github.io",
	"file://",
	"null",
}

// OriginGate admits messages from an exact allowlist. The first admitted
// origin is pinned as the parent origin.
type OriginGate struct {
	self    string
	allowed []string

	mu     sync.Mutex
	parent string
}

// NewOriginGate trusts self (the page's own origin) plus the allowlist
// entries. "localhost" admits http and https localhost on any port,
// "file://" and "null" must match exactly, and host entries admit exactly
// https://host or http://host.
func NewOriginGate(self string, allowlist []string) *OriginGate {
	return &OriginGate{self: self, allowed: append([]string(nil), allowlist...)}
}

// Allowed reports whether origin passes the allowlist.
func (g *OriginGate) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if g.self != "" && origin == g.self {
		return true
	}
	for _, a := range g.allowed {
		if matchOrigin(a, origin) {
			return true
		}
	}
	return false
}

func matchOrigin(allowed, origin string) bool {
	switch allowed {
	case "localhost":
		for _, scheme := range []string{"http://localhost", "https://localhost"} {
			if origin == scheme {
				return true
			}
			if port, ok := strings.CutPrefix(origin, scheme+":"); ok && isPort(port) {
				return true
			}
		}
		return false
	case "file://", "null":
		return origin == allowed
	default:
		return origin == "https://"+allowed || origin == "http://"+allowed
	}
}

func isPort(s string) bool {
	if s == "" || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Admit checks origin and pins it as the parent on first success.
func (g *OriginGate) Admit(origin string) error {
	if !g.Allowed(origin) {
		return ErrOriginRejected
	}
	g.mu.Lock()
	if g.parent == "" {
		g.parent = origin
	}
	g.mu.Unlock()
	return nil
}

// Parent returns the pinned parent origin, or "" before the first message.
func (g *OriginGate) Parent() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}
