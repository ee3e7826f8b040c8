package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func validClaims() Claims {
	return Claims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerify(t *testing.T) {
	verifier, err := NewVerifier(Config{JWTSecret: testSecret, Audience: "authenticated"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}
	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		ok    bool
	}{
		{"valid", signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()), true},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, expired), false},
		{"no expiry", signToken(t, testSecret, jwt.SigningMethodHS256, noExpiry), false},
		{"wrong audience", signToken(t, testSecret, jwt.SigningMethodHS256, wrongAudience), false},
		{"no subject", signToken(t, testSecret, jwt.SigningMethodHS256, noSubject), false},
		{"wrong secret", signToken(t, "another-secret", jwt.SigningMethodHS256, validClaims()), false},
		{"wrong alg", signToken(t, testSecret, jwt.SigningMethodHS512, validClaims()), false},
		{"garbage", "not.a.token", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := verifier.Verify(tc.token)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if user.ID != "user-123" || user.Email != "alice@example.com" {
					t.Fatalf("unexpected user %+v", user)
				}
				return
			}
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken got %v", err)
			}
		})
	}

	if _, err := NewVerifier(Config{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier, _ := NewVerifier(Config{JWTSecret: testSecret})
	token := signToken(t, testSecret, jwt.SigningMethodHS256, validClaims())

	router := gin.New()
	whoami := func(c *gin.Context) {
		user, ok := UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": user.ID, "ok": ok})
	}
	router.GET("/required", RequireUser(verifier), whoami)
	router.GET("/optional", OptionalUser(verifier), whoami)

	tests := []struct {
		name     string
		path     string
		header   string
		status   int
		expected string
	}{
		{"header", "/required", "Bearer " + token, http.StatusOK, "user-123"},
		{"lowercase scheme", "/required", "bearer " + token, http.StatusOK, "user-123"},
		{"query", "/required?access_token=" + token, "", http.StatusOK, "user-123"},
		{"missing", "/required", "", http.StatusUnauthorized, ""},
		{"invalid", "/required", "Bearer nope", http.StatusUnauthorized, ""},
		{"optional anonymous", "/optional", "", http.StatusOK, ""},
		{"optional invalid", "/optional", "Bearer nope", http.StatusOK, ""},
		{"optional valid", "/optional", "Bearer " + token, http.StatusOK, "user-123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			var body map[string]any
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if tc.status == http.StatusOK && body["user"] != tc.expected {
				t.Fatalf("expected user %q got %v", tc.expected, body["user"])
			}
			if tc.status != http.StatusOK && body["error"] == nil {
				t.Fatalf("expected error body got %s", rec.Body.String())
			}
		})
	}
}

func TestProviderClient(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.Query().Get("redirect_to")
		gotAPIKey, gotAuth = r.Header.Get("apikey"), r.Header.Get("Authorization")
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		if r.URL.Path == "/auth/v1/logout" && gotAuth == "Bearer revoked" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewProviderClient(Config{ProviderURL: srv.URL + "/", AnonKey: "anon"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.SendMagicLink(context.Background(), "alice@example.com", "https://app.example.com/score"); err != nil {
		t.Fatalf("magic link: %v", err)
	}
	if gotPath != "/auth/v1/otp" || gotQuery != "https://app.example.com/score" {
		t.Fatalf("unexpected request %s ?%s", gotPath, gotQuery)
	}
	if gotAPIKey != "anon" || gotAuth != "Bearer anon" {
		t.Fatalf("unexpected headers %q %q", gotAPIKey, gotAuth)
	}
	if gotBody["email"] != "alice@example.com" || gotBody["create_user"] != true {
		t.Fatalf("unexpected body %v", gotBody)
	}

	if err := client.SignOut(context.Background(), "session-token"); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if gotPath != "/auth/v1/logout" || gotAuth != "Bearer session-token" {
		t.Fatalf("unexpected sign out request %s %s", gotPath, gotAuth)
	}

	err = client.SignOut(context.Background(), "revoked")
	if err == nil || err.Error() != "auth provider status 401: invalid JWT" {
		t.Fatalf("expected provider error got %v", err)
	}

	if _, err := NewProviderClient(Config{ProviderURL: srv.URL}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled got %v", err)
	}
}
