package middleware

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartwaste-dashboard/internal/models"
)

func quietLog(t *testing.T) {
	t.Helper()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })
}

func protected(roles ...models.Role) (http.Handler, *UserClaims) {
	seen := &UserClaims{}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, _ = GetUserFromContext(r)
		w.WriteHeader(http.StatusNoContent)
	})
	if len(roles) > 0 {
		return Auth(RequireRole(roles...)(h)), seen
	}
	return Auth(h), seen
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")
	u := models.User{ID: "u1", Username: "admin@smartwaste.lk", Role: models.RoleAdmin}

	token, err := IssueToken(u, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "u1" || claims.Username != u.Username || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")
	token, err := IssueToken(models.User{ID: "u1", Role: models.RoleAdmin}, time.Now().Add(-2*TokenTTL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestAuth(t *testing.T) {
	quietLog(t)
	t.Setenv("APP_JWT_SECRET", "test-secret")
	good, _ := IssueToken(models.User{ID: "u1", Role: models.RoleCollector}, time.Now())

	t.Setenv("APP_JWT_SECRET", "other-secret")
	forged, _ := IssueToken(models.User{ID: "u1", Role: models.RoleAdmin}, time.Now())
	t.Setenv("APP_JWT_SECRET", "test-secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, seen := protected()
			req := httptest.NewRequest(http.MethodGet, "/api/bins", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusNoContent && seen.UserID != "u1" {
				t.Errorf("claims not in context: %+v", seen)
			}
		})
	}
}

func TestAuthWithoutSecret(t *testing.T) {
	quietLog(t)
	t.Setenv("APP_JWT_SECRET", "")
	h, _ := protected()
	req := httptest.NewRequest(http.MethodGet, "/api/bins", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	quietLog(t)
	t.Setenv("APP_JWT_SECRET", "test-secret")
	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleAdmin, http.StatusNoContent},
		{models.RoleCollector, http.StatusForbidden},
		{models.RoleBinOwner, http.StatusForbidden},
	}
	for _, tt := range tests {
		token, _ := IssueToken(models.User{ID: "u", Role: tt.role}, time.Now())
		h, _ := protected(models.RoleAdmin)
		req := httptest.NewRequest(http.MethodDelete, "/api/bins/B-1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.role, rec.Code, tt.want)
		}
	}

	h := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no claims: status = %d", rec.Code)
	}
}
