package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/podomall/podomall-backend/pkg/auth"
	"github.com/podomall/podomall-backend/pkg/config"
)

type stubChecker struct {
	ok  bool
	err error
}

func (s stubChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func jwtConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "podomall-test",
		ExpirationMinutes: 15,
	}
}

func echoUserHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserIDFromContext(r.Context()); got != wantUserID {
			t.Errorf("user id in context = %q, want %q", got, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAcceptsValidTokenWithSession(t *testing.T) {
	cfg := jwtConfig()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Email:  "shopper@example.com",
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	handler := Auth(cfg, stubChecker{ok: true}, nil)(echoUserHandler(t, userID.String()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(jwtConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without credentials")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(jwtConfig(), stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := jwtConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	handler := Auth(cfg, stubChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run after session revocation")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	cfg := jwtConfig()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	handler := Auth(cfg, stubChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
