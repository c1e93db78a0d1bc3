// Package auth holds the immutable API key set and the comparison rules for
// admitting conversion requests.
//
// The key set is built once at startup from configuration and never mutated,
// so request handlers can share it without locking. Comparison is constant
// time per stored key to avoid leaking key material through timing.
package auth

import (
	"crypto/subtle"
	"strings"
)

// Header is the request header carrying the API key.
const Header = "X-API-Key"

// minRecommendedKeyLength is the size below which a key is flagged as weak.
const minRecommendedKeyLength = 16

// KeyStore is the process-wide, read-only set of accepted API keys.
type KeyStore struct {
	keys []string
	open bool
}

// NewKeyStore builds a key store from the configured keys. Blank entries are
// dropped and duplicates collapsed. When open is true every request is
// admitted regardless of the key set.
func NewKeyStore(keys []string, open bool) *KeyStore {
	cleaned := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, key)
	}
	return &KeyStore{keys: cleaned, open: open}
}

// Authenticate reports whether the presented header value is an accepted key.
// Every stored key is compared in constant time, and the loop never exits
// early, so response timing does not depend on which key matched.
func (s *KeyStore) Authenticate(candidate string) bool {
	if s.open {
		return true
	}
	if candidate == "" || len(s.keys) == 0 {
		return false
	}
	candidateBytes := []byte(candidate)
	matched := 0
	for _, key := range s.keys {
		matched |= subtle.ConstantTimeCompare(candidateBytes, []byte(key))
	}
	return matched == 1
}

// Open reports whether authentication is disabled.
func (s *KeyStore) Open() bool { return s.open }

// KeyCount returns the number of distinct configured keys.
func (s *KeyStore) KeyCount() int { return len(s.keys) }

// WeakKeyCount returns how many configured keys fall below the recommended
// minimum length. Used for an operator warning at startup; weak keys are
// still accepted.
func (s *KeyStore) WeakKeyCount() int {
	weak := 0
	for _, key := range s.keys {
		if len(key) < minRecommendedKeyLength {
			weak++
		}
	}
	return weak
}
