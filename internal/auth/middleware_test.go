package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer gho_abc", "gho_abc", true},
		{"bearer gho_abc", "gho_abc", true},
		{"Bearer   gho_abc  ", "gho_abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"gho_abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerToken(r)
			if got != tt.want || ok != tt.ok {
				t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRequireBearer_MissingHeader(t *testing.T) {
	called := false
	h := RequireBearer("No token provided")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil))

	if called {
		t.Error("next handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"success":false`) || !strings.Contains(body, `"message":"No token provided"`) {
		t.Errorf("body = %s", body)
	}
}

func TestRequireBearer_StoresToken(t *testing.T) {
	var got string
	h := RequireBearer("Unauthorized")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/repos", nil)
	req.Header.Set("Authorization", "Bearer gho_xyz")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != "gho_xyz" {
		t.Errorf("TokenFromContext = %q, want gho_xyz", got)
	}
}
