package auth

import (
	"strings"
	"sync"
)

// Origins is the allow-list of request origins permitted to mint and use
// tokens. Replace supports config hot-reload.
type Origins struct {
	mu      sync.RWMutex
	allowed map[string]struct{}
}

// NewOrigins builds an allow-list from list, ignoring blank entries.
func NewOrigins(list []string) *Origins {
	o := &Origins{}
	o.Replace(list)
	return o
}

// Replace swaps the allow-list atomically.
func (o *Origins) Replace(list []string) {
	allowed := make(map[string]struct{}, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		allowed[s] = struct{}{}
	}
	o.mu.Lock()
	o.allowed = allowed
	o.mu.Unlock()
}

// Allowed reports whether origin is on the allow-list. A missing origin
// (browser fetch sends one, curl typically does not) is never allowed.
func (o *Origins) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.allowed[origin]
	return ok
}
