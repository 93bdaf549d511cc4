// Package session persists the console's bearer token and derives the
// signed-in viewer from it.
package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/go-homedir"
	"github.com/peterbourgon/diskv/v3"

	"smartwaste-dashboard/internal/models"
)

const tokenKey = "token"

// Store is the on-disk token store.
type Store struct {
	d *diskv.Diskv
}

// Open creates (or reuses) a store rooted at dir. A leading ~ is expanded.
func Open(dir string) (*Store, error) {
	basePath, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand state dir: %w", err)
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
		FilePerm:     0o600,
	})}, nil
}

// Token returns the stored token, or "" when nobody is signed in.
func (s *Store) Token() (string, error) {
	if !s.d.Has(tokenKey) {
		return "", nil
	}
	val, err := s.d.Read(tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(val), nil
}

func (s *Store) SaveToken(token string) error {
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	return s.d.Write(tokenKey, []byte(token))
}

// Clear signs the viewer out. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if !s.d.Has(tokenKey) {
		return nil
	}
	return s.d.Erase(tokenKey)
}

// Viewer is who the console is acting for.
type Viewer struct {
	UserID   string
	Username string
	Role     models.Role
}

// ViewerFromToken reads the viewer's identity from the token claims. The
// signature is not checked here; the backend verifies it on every call.
func ViewerFromToken(token string) (Viewer, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Viewer{}, fmt.Errorf("failed to parse token: %w", err)
	}

	v := Viewer{
		UserID:   firstClaim(claims, "user_id", "sub"),
		Username: firstClaim(claims, "username", "email", "sub"),
		Role:     models.Role(firstClaim(claims, "role")),
	}
	return v, nil
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
