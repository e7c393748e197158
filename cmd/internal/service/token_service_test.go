package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"slotly/cmd/internal/domain/entity"
	"strings"
	"testing"
	"time"
)

var testIdentity = &entity.Identity{ID: "user-1", Username: "alice", Role: entity.RoleRequester}

func TestNewTokenService_EmptySecret(t *testing.T) {
	if _, err := NewTokenService(nil); err == nil {
		t.Error("NewTokenService(nil) should fail")
	}
}

func TestIssueAndVerify(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := env.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	got := claims.Identity()
	if *got != *testIdentity {
		t.Errorf("Identity() = %+v, want %+v", got, testIdentity)
	}
	if want := env.now.Add(TokenLifetime); !claims.ExpiresAt.Time.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, want)
	}
}

func TestIssue_NilIdentity(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.tokens.Issue(nil); err == nil {
		t.Error("Issue(nil) should fail")
	}
}

func TestIssue_PayloadCarriesOnlyIdentityAndExpiry(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("Failed to unmarshal payload: %v", err)
	}

	want := []string{"exp", "id", "role", "username"}
	if len(payload) != len(want) {
		t.Errorf("payload = %v, want exactly keys %v", payload, want)
	}
	for _, key := range want {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
}

func TestVerify_ExpiresAfterOneHour(t *testing.T) {
	env := newTestEnv(t)
	issuedAt := env.now

	token, err := env.tokens.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just issued", 0, nil},
		{"half an hour", 30 * time.Minute, nil},
		{"one second before expiry", TokenLifetime - time.Second, nil},
		{"exactly one hour", TokenLifetime, ErrTokenExpired},
		{"one hour and a minute", TokenLifetime + time.Minute, ErrTokenExpired},
		{"next day", 24 * time.Hour, ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.now = issuedAt.Add(tt.elapsed)

			claims, err := env.tokens.Verify(token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && claims.UserID != testIdentity.ID {
				t.Errorf("UserID = %q, want %q", claims.UserID, testIdentity.ID)
			}
			if tt.wantErr != nil && claims != nil {
				t.Error("expired token must not yield claims")
			}
		})
	}
}

func TestVerify_Rejections(t *testing.T) {
	env := newTestEnv(t)

	valid, err := env.tokens.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other, err := newJWTTokenService([]byte("another-secret-entirely-32-bytes!"), func() time.Time { return env.now })
	if err != nil {
		t.Fatalf("Failed to create second token service: %v", err)
	}
	foreign, err := other.Issue(testIdentity)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:   "user-1",
		Username: "alice",
		Role:     entity.RoleProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(env.now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build unsigned token: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   "user-1",
		Username: "alice",
		Role:     entity.RoleRequester,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to build token without expiry: %v", err)
	}

	parts := strings.Split(valid, ".")
	escalated, _ := json.Marshal(map[string]any{
		"id": "user-1", "username": "alice", "role": "provider",
		"exp": env.now.Add(time.Hour).Unix(),
	})
	tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(escalated) + "." + parts[2]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrTokenMissing},
		{"garbage", "not.a.token", ErrTokenInvalid},
		{"single segment", "abc", ErrTokenInvalid},
		{"wrong secret", foreign, ErrTokenInvalid},
		{"alg none", unsigned, ErrTokenInvalid},
		{"no expiry", noExpiry, ErrTokenInvalid},
		{"tampered role", tampered, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := env.tokens.Verify(tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if claims != nil {
				t.Errorf("Verify() claims = %+v, want nil", claims)
			}
		})
	}
}
