package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/influencer-marketplace/webclient/internal/rbac"
)

var ErrTokenExpired = errors.New("token expired")

type Claims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	ProfileID string `json:"profileId,omitempty"`
	jwt.RegisteredClaims
}

// Viewer maps the claims onto the permission model. The subject is used when userId is absent.
func (c *Claims) Viewer() rbac.Viewer {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return rbac.Viewer{UserID: id, Role: c.Role, ProfileID: c.ProfileID}
}

// GenerateJWT signs a session token. expiration <= 0 means 24h.
func GenerateJWT(secret, userID, role, profileID string, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	claims := Claims{
		UserID:    userID,
		Role:      role,
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(secret string, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ParseUnverified decodes claims without checking the signature; only expiry is enforced.
// The token is forwarded upstream, which verifies it on every call.
func ParseUnverified(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// ParseSession verifies with secret when one is configured and falls back to ParseUnverified otherwise.
func ParseSession(secret, tokenStr string) (*Claims, error) {
	if secret == "" {
		return ParseUnverified(tokenStr)
	}
	return ParseJWT(secret, tokenStr)
}
