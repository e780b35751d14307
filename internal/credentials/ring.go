package credentials

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
)

// ErrNoCredentials is returned when the ring is constructed without any key.
var ErrNoCredentials = errors.New("no provider credentials configured")

// Ring is an ordered set of provider API keys with one active at a time.
// Rotation advances to the next key; the upstream quota is tracked per
// credential, so a rotation starts from a clean slate.
type Ring struct {
	mu     sync.RWMutex
	keys   []string
	ids    []string
	active int
}

// NewRing builds a ring from the configured keys, in order.
func NewRing(keys []string) (*Ring, error) {
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = credentialID(k)
	}
	return &Ring{keys: keys, ids: ids}, nil
}

// Active returns the current credential's ID and key. The ID is a digest
// label safe for logs, events, and storage keys; the key itself never leaves
// the synthesis client.
func (r *Ring) Active() (id, key string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ids[r.active], r.keys[r.active]
}

// ActiveID returns only the current credential's ID.
func (r *Ring) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ids[r.active]
}

// Rotate advances to the next credential and returns its ID. With a single
// configured key it wraps onto the same key; the quota reset still applies.
func (r *Ring) Rotate() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = (r.active + 1) % len(r.keys)
	return r.ids[r.active]
}

// Size returns the number of configured credentials.
func (r *Ring) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

func credentialID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "cred-" + hex.EncodeToString(sum[:4])
}
