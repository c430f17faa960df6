// Package token mints and verifies anti-forgery tokens for dismiss
// requests. Tokens are HMAC-SHA256 digests bound to a scope and actor
// identity, valid for a bounded time window.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/colonyops/noticeboard/internal/core/notice"
)

const (
	// DefaultLifetime is the validity window of a minted token. Verification
	// also accepts tokens from the immediately preceding window so a token
	// minted late in one window does not expire mid-flight.
	DefaultLifetime = 12 * time.Hour

	// digestLen is the number of hex characters kept from the digest.
	digestLen = 20
)

// Service mints and verifies tokens with a shared secret.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

var _ notice.TokenSource = (*Service)(nil)

// New creates a token service. An empty secret is replaced with a random one,
// which invalidates outstanding tokens across restarts; configure a stable
// secret to avoid that. A non-positive lifetime falls back to DefaultLifetime.
func New(secret []byte, lifetime time.Duration) *Service {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		// rand.Read only fails when the OS entropy source is broken, in
		// which case crashing at startup is the right call.
		if _, err := rand.Read(secret); err != nil {
			panic("token: generate secret: " + err.Error())
		}
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	return &Service{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Mint returns a token for the given scope and actor, valid for the current
// time window.
func (s *Service) Mint(scope, actorID string) string {
	return s.digest(scope, actorID, s.tick())
}

// Verify reports whether the token is valid for the scope and actor. Tokens
// from the current and the immediately preceding window are accepted.
func (s *Service) Verify(token, scope, actorID string) bool {
	if token == "" {
		return false
	}

	tick := s.tick()
	for _, t := range []int64{tick, tick - 1} {
		expected := s.digest(scope, actorID, t)
		if hmac.Equal([]byte(token), []byte(expected)) {
			return true
		}
	}

	return false
}

// tick returns the current time window index.
func (s *Service) tick() int64 {
	return s.now().UnixNano() / int64(s.lifetime)
}

func (s *Service) digest(scope, actorID string, tick int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(scope))
	mac.Write([]byte{'|'})
	mac.Write([]byte(actorID))
	mac.Write([]byte{'|'})
	mac.Write([]byte(strconv.FormatInt(tick, 10)))

	return hex.EncodeToString(mac.Sum(nil))[:digestLen]
}
