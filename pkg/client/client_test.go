package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/storefront/pkg/domain"
)

// fakeStore is a minimal account backend that tracks how often it is hit.
type fakeStore struct {
	calls atomic.Int32
}

func (f *fakeStore) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.calls.Add(1)
			next.ServeHTTP(w, r)
		})
	})
	r.Post("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "a@b.com" || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"}) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"id":1,"name":"A","email":"a@b.com","token":"T","isAdmin":false}`)) //nolint:errcheck
	})
	r.Put("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Token is not valid"}) //nolint:errcheck
			return
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if raw["email"] == "taken@b.com" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Email already exists"}) //nolint:errcheck
			return
		}
		token := "T"
		if _, ok := raw["password"]; ok {
			token = "T2"
		}
		json.NewEncoder(w).Encode(domain.SessionRecord{ //nolint:errcheck
			ID:    "1",
			Name:  raw["name"].(string),
			Email: raw["email"].(string),
			Token: token,
		})
	})
	return r
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeStore) {
	t.Helper()
	f := &fakeStore{}
	srv := httptest.NewServer(f.routes())
	t.Cleanup(srv.Close)
	return srv, f
}

func TestLogin(t *testing.T) {
	srv, f := newTestServer(t)

	c := New(srv.URL)
	rec, err := c.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	want := domain.SessionRecord{ID: "1", Name: "A", Email: "a@b.com", Token: "T"}
	if *rec != want {
		t.Errorf("Login() = %+v, want %+v", *rec, want)
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv, f := newTestServer(t)

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "a@b.com", "wrong1")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsAuthReason(err, InvalidCredentials) {
		t.Errorf("error = %v, want AuthError{InvalidCredentials}", err)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(401) = false for %v", err)
	}
	if got := ErrorMessage(err); got != "Invalid email or password" {
		t.Errorf("ErrorMessage() = %q", got)
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("backend calls = %d, want exactly 1 (no retry)", n)
	}
}

func TestLogin_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	_, err := c.Login(context.Background(), "a@b.com", "secret")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if got := ErrorMessage(err); got != genericNetworkMessage {
		t.Errorf("ErrorMessage() = %q, want generic network message", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	srv, _ := newTestServer(t)

	c := New(srv.URL)
	rec, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "b@b.com"}, "T")
	if err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}
	if rec.Name != "B" || rec.Email != "b@b.com" {
		t.Errorf("UpdateProfile() = %+v", rec)
	}
	if rec.Token != "T" {
		t.Errorf("Token = %q, want T (password omitted from payload)", rec.Token)
	}
}

func TestUpdateProfile_WithPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	c := New(srv.URL)
	rec, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "b@b.com", Password: "abcdef"}, "T")
	if err != nil {
		t.Fatalf("UpdateProfile() error: %v", err)
	}
	if rec.Token != "T2" {
		t.Errorf("Token = %q, want T2", rec.Token)
	}
}

func TestUpdateProfile_Unauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	c := New(srv.URL)
	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "b@b.com"}, "stale")
	if !IsAuthReason(err, Unauthorized) {
		t.Fatalf("error = %v, want AuthError{Unauthorized}", err)
	}
	if got := ErrorMessage(err); got != "Token is not valid" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestUpdateProfile_Rejected(t *testing.T) {
	srv, _ := newTestServer(t)

	c := New(srv.URL)
	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "taken@b.com"}, "T")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if got := ErrorMessage(err); got != "Email already exists" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestUpdateProfile_MissingTokenNeverCallsBackend(t *testing.T) {
	srv, f := newTestServer(t)

	c := New(srv.URL)
	_, err := c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "b@b.com"}, "")
	if !IsAuthReason(err, Unauthorized) {
		t.Fatalf("error = %v, want AuthError{Unauthorized}", err)
	}
	if n := f.calls.Load(); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestUpdateProfile_ExpiredJWT(t *testing.T) {
	srv, f := newTestServer(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c := New(srv.URL)
	_, err = c.UpdateProfile(context.Background(), ProfileUpdate{Name: "B", Email: "b@b.com"}, expired)
	if !IsAuthReason(err, Unauthorized) {
		t.Fatalf("error = %v, want AuthError{Unauthorized}", err)
	}
	if n := f.calls.Load(); n != 0 {
		t.Errorf("backend calls = %d, want 0", n)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	sign := func(exp time.Time) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("k"))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		return s
	}
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque", "T", false},
		{"future", sign(now.Add(time.Hour)), false},
		{"past", sign(now.Add(-time.Minute)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenExpired(tt.token, now); got != tt.want {
				t.Errorf("tokenExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPError_NoStructuredMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "a@b.com", "secret")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := ErrorMessage(err); got != "Request failed with status code 500" {
		t.Errorf("ErrorMessage() = %q", got)
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 500") {
		t.Errorf("error = %q, want it to contain 'HTTP 500'", got)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotID, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":"x","email":"a@b.com","token":"T"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	if _, err := c.Login(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if len(gotID) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", gotID)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q", gotType)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.Login(ctx, "a@b.com", "secret")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"auth with message", &AuthError{Reason: Unauthorized, Message: "Token expired"}, "Token expired"},
		{"auth bare", &AuthError{Reason: InvalidCredentials}, "Invalid email or password"},
		{"auth bare over empty http", &AuthError{Reason: Unauthorized, Err: &HTTPError{StatusCode: 401}}, "Your session has expired. Please log in again."},
		{"validation", &ValidationError{Message: "Bad email"}, "Bad email"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
