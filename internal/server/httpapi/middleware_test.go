package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/verkhov/picvault/internal/server/auth"
)

const testSecret = "test-secret"

func testToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken(auth.Identity{
		UserID:    "u1",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}, []byte(secret), ttl)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return tok
}

func runGate(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := IdentityFromContext(r.Context()); err != nil {
			t.Fatalf("identity missing downstream: %v", err)
		}
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	gate := NewAuthMiddleware([]byte(testSecret))(next)

	req := httptest.NewRequest(http.MethodGet, "/pictures", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	return rec, handlerCalled
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, called := runGate(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("downstream handler must not run")
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	rec, called := runGate(t, "Token abc")
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without handler run, got %d / called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called := runGate(t, "Bearer "+testToken(t, testSecret, time.Hour))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run, got %d / called=%v", rec.Code, called)
	}
}

// Expired and tampered tokens must produce byte-identical rejections.
func TestAuthMiddleware_ExpiredAndTamperedLookAlike(t *testing.T) {
	recExpired, calledExpired := runGate(t, "Bearer "+testToken(t, testSecret, -time.Minute))
	recTampered, calledTampered := runGate(t, "Bearer "+testToken(t, "other-secret", time.Hour))

	if calledExpired || calledTampered {
		t.Fatal("downstream handler must not run")
	}
	if recExpired.Code != http.StatusUnauthorized || recTampered.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", recExpired.Code, recTampered.Code)
	}
	if recExpired.Body.String() != recTampered.Body.String() {
		t.Fatalf("rejection bodies differ:\n%s\n%s", recExpired.Body.String(), recTampered.Body.String())
	}
}
