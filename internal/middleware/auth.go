package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talkboard-dev/talkboard/internal/domain"
)

// Key to store the caller identity in the request context
type key int

const UserClaimsKey key = 0

var errNoToken = errors.New("no token provided")

// Auth resolves requests to a caller identity. Token issuance belongs to the
// external identity service; this middleware only verifies and decodes.
type Auth struct {
	jwtKey []byte
}

func NewAuth(jwtKey string) *Auth {
	return &Auth{jwtKey: []byte(jwtKey)}
}

// NeedAuth returns middleware that requires an authenticated member.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// ModeratorOnly returns middleware that requires the moderator role.
func (a *Auth) ModeratorOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

func (a *Auth) auth(moderatorOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if moderatorOnly && !user.IsModerator() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractUser verifies the JWT from the Authorization header or the
// accessToken cookie and decodes the {userId, role} identity.
func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	var tokenString string
	if accessCookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return nil, errNoToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userId, ok := claims["user_id"].(float64)
	if !ok || userId <= 0 {
		return nil, errors.New("missing user_id claim")
	}

	role := domain.RoleMember
	if roleClaim, ok := claims["role"].(string); ok && domain.Role(roleClaim) == domain.RoleModerator {
		role = domain.RoleModerator
	}

	return &domain.User{Id: domain.UserId(userId), Role: role}, nil
}

// GetUserFromContext returns the caller identity, or nil when the request
// went through no auth middleware.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// IssueToken signs an identity into a token. Test helper; production tokens
// come from the external identity service.
func (a *Auth) IssueToken(user domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.Id,
		"role":    string(user.Role),
	})
	return token.SignedString(a.jwtKey)
}
