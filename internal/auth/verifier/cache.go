package verifier

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"
)

// subjectVerifier is the seam between the cache and the real provider
// call. It additionally reports the credential's own expiry so cache
// entries are never trusted past it.
type subjectVerifier interface {
	verifySubject(ctx context.Context, rawToken string) (string, time.Time, error)
}

// Cache memoizes successful verifications for the remaining validity
// window of each token, to cut external calls on hot paths. Failures
// are never cached. Safe for concurrent use.
type Cache struct {
	src subjectVerifier

	mu      sync.RWMutex
	entries map[[sha256.Size]byte]cacheEntry
}

type cacheEntry struct {
	subject   string
	expiresAt time.Time
}

func NewCache(src *OIDC) *Cache {
	return newCache(src)
}

func newCache(src subjectVerifier) *Cache {
	return &Cache{
		src:     src,
		entries: make(map[[sha256.Size]byte]cacheEntry),
	}
}

func (c *Cache) Verify(ctx context.Context, rawToken string) (string, error) {
	key := sha256.Sum256([]byte(rawToken))
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		return e.subject, nil
	}

	subject, expiry, err := c.src.verifySubject(ctx, rawToken)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if expiry.After(now) {
		c.entries[key] = cacheEntry{subject: subject, expiresAt: expiry}
	}
	c.prune(now)
	c.mu.Unlock()

	return subject, nil
}

// prune drops expired entries. Called with c.mu held.
func (c *Cache) prune(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
