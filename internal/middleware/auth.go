package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/pkg/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

type UserClaims struct {
	UserID   string
	Username string
	Role     models.Role
}

// ErrNoSecret is returned when APP_JWT_SECRET is unset.
var ErrNoSecret = errors.New("JWT secret not configured")

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("APP_JWT_SECRET")
	if secret == "" {
		return nil, ErrNoSecret
	}
	return []byte(secret), nil
}

// IssueToken signs an HS256 token for u.
func IssueToken(u models.User, now time.Time) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(TokenTTL).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string) (UserClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return UserClaims{}, err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return UserClaims{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, errors.New("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return UserClaims{}, errors.New("token is missing user_id or role")
	}
	return UserClaims{UserID: userID, Username: username, Role: models.Role(role)}, nil
}

// Auth validates the bearer token and adds the user claims to the context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ [AUTH] %s %s: no authorization header", r.Method, r.URL.Path)
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Printf("❌ [AUTH] invalid authorization header format (parts: %d)", len(parts))
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userClaims, err := ParseToken(parts[1])
		if errors.Is(err, ErrNoSecret) {
			log.Println("❌ [AUTH] JWT secret not configured")
			utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if err != nil {
			log.Printf("❌ [AUTH] %v", err)
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, userClaims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets the request through only for the given roles. It must
// run after Auth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := GetUserFromContext(r)
			if !ok {
				log.Println("❌ [AUTH] user claims not found in context")
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !slices.Contains(roles, userClaims.Role) {
				log.Printf("❌ [AUTH] insufficient permissions: required %v, got %s", roles, userClaims.Role)
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) (UserClaims, bool) {
	userClaims, ok := r.Context().Value(UserContextKey).(UserClaims)
	return userClaims, ok
}

// WithUser returns ctx carrying claims, for handlers invoked without Auth.
func WithUser(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}
