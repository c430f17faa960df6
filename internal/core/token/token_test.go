package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestService_MintVerify(t *testing.T) {
	svc := New([]byte("test-secret"), time.Hour)

	tok := svc.Mint("dismiss_welcome", "alice")
	assert.Len(t, tok, digestLen)
	assert.True(t, svc.Verify(tok, "dismiss_welcome", "alice"))
}

func TestService_Verify_Rejections(t *testing.T) {
	svc := New([]byte("test-secret"), time.Hour)
	tok := svc.Mint("dismiss_welcome", "alice")

	tests := []struct {
		name  string
		token string
		scope string
		actor string
	}{
		{"wrong scope", tok, "dismiss_other", "alice"},
		{"wrong actor", tok, "dismiss_welcome", "bob"},
		{"garbage token", "deadbeef", "dismiss_welcome", "alice"},
		{"empty token", "", "dismiss_welcome", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, svc.Verify(tt.token, tt.scope, tt.actor))
		})
	}
}

func TestService_Verify_PreviousWindow(t *testing.T) {
	svc := New([]byte("test-secret"), time.Hour)

	base := time.Now()
	svc.now = func() time.Time { return base }
	tok := svc.Mint("dismiss_welcome", "alice")

	// One window later the token is still accepted.
	svc.now = func() time.Time { return base.Add(time.Hour) }
	assert.True(t, svc.Verify(tok, "dismiss_welcome", "alice"))

	// Two windows later it has expired.
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.False(t, svc.Verify(tok, "dismiss_welcome", "alice"))
}

func TestService_DistinctSecrets(t *testing.T) {
	a := New([]byte("secret-a"), time.Hour)
	b := New([]byte("secret-b"), time.Hour)

	tok := a.Mint("dismiss_welcome", "alice")
	assert.False(t, b.Verify(tok, "dismiss_welcome", "alice"))
}

func TestNew_GeneratedSecret(t *testing.T) {
	svc := New(nil, 0)

	tok := svc.Mint("scope", "actor")
	assert.True(t, svc.Verify(tok, "scope", "actor"))
	assert.Equal(t, DefaultLifetime, svc.lifetime)
}
