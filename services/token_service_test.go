package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseIssued verifies a token the way a resource server holding the same
// secret would
func parseIssued(svc *TokenService, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return svc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(svc.issuer),
		jwt.WithAudience(svc.audience),
		jwt.WithTimeFunc(svc.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("secret", "issuer", "audience", 2*time.Hour)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, expiresAt, err := svc.Issue(&models.User{ID: 17, Email: "a@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(2*time.Hour), expiresAt)

	claims, err := parseIssued(svc, token)
	require.NoError(t, err)
	assert.Equal(t, "17", claims.Subject)
	assert.Equal(t, "issuer", claims.Issuer)
	assert.Equal(t, []string{"audience"}, []string(claims.Audience))
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, 2*time.Hour, svc.TTL())
}

func TestTokenService_ParseRejects(t *testing.T) {
	issuer := NewTokenService("secret", "issuer", "audience", time.Hour)
	token, _, err := issuer.Issue(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name   string
		parser *TokenService
	}{
		{"wrong secret", NewTokenService("other", "issuer", "audience", time.Hour)},
		{"wrong issuer", NewTokenService("secret", "someone-else", "audience", time.Hour)},
		{"wrong audience", NewTokenService("secret", "issuer", "mobile", time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIssued(tt.parser, token)
			assert.Error(t, err)
		})
	}

	expired := NewTokenService("secret", "issuer", "audience", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = parseIssued(expired, token)
	assert.Error(t, err)
}

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "fresh", OAuthStateTTL))
	require.NoError(t, store.Save(ctx, "stale", time.Minute))

	ok, err := store.Consume(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = store.Consume(ctx, "fresh")
	assert.False(t, ok, "state must be single use")

	now = now.Add(2 * time.Minute)
	ok, _ = store.Consume(ctx, "stale")
	assert.False(t, ok, "expired state must be rejected")

	ok, _ = store.Consume(ctx, "never-saved")
	assert.False(t, ok)
}

func TestRedisStateStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStateStoreWithClient(client)
	defer store.Close()

	ctx := context.Background()
	assert.Error(t, store.Ping(ctx))
	assert.ErrorContains(t, store.Save(ctx, "s", time.Minute), "failed to save oauth state")

	ok, err := store.Consume(ctx, "s")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to consume oauth state")
}
