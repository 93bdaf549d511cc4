package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"smartwaste-dashboard/internal/models"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	token, err := store.Token()
	if err != nil || token != "" {
		t.Fatalf("empty store Token() = %q, %v", token, err)
	}

	if err := store.SaveToken("abc.def.ghi"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	token, err = store.Token()
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("Token() = %q, %v", token, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	token, _ = store.Token()
	if token != "" {
		t.Errorf("token after Clear = %q", token)
	}
}

func TestSaveEmptyTokenFails(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.SaveToken(""); err == nil {
		t.Error("expected an error for an empty token")
	}
}

func TestViewerFromToken(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "u-1",
		"username": "owner@smartwaste.lk",
		"role":     "ROLE_BIN_OWNER",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	viewer, err := ViewerFromToken(signed)
	if err != nil {
		t.Fatalf("ViewerFromToken: %v", err)
	}
	if viewer.UserID != "u-1" || viewer.Username != "owner@smartwaste.lk" || viewer.Role != models.RoleBinOwner {
		t.Errorf("viewer = %+v", viewer)
	}
}

func TestViewerFromTokenFallsBackToSubject(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "collector@smartwaste.lk",
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	viewer, err := ViewerFromToken(signed)
	if err != nil {
		t.Fatalf("ViewerFromToken: %v", err)
	}
	if viewer.Username != "collector@smartwaste.lk" || viewer.Role != "" {
		t.Errorf("viewer = %+v", viewer)
	}
}

func TestViewerFromGarbage(t *testing.T) {
	if _, err := ViewerFromToken("not-a-token"); err == nil {
		t.Error("expected parse error")
	}
}
