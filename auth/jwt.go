package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/openlabs-org/labops/config"
)

// Claims carried by labops access tokens.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type JwtAuthenticator struct {
	secret []byte
}

var _ Authenticator = &JwtAuthenticator{}

// NewAuthenticator returns a JWT authenticator that caches validated tokens
func NewAuthenticator(cfg *config.Config) (Authenticator, error) {
	delegate := NewJwtAuthenticator([]byte(cfg.JwtSecret))
	return NewCachingAuthenticator(
		DefaultCacheSize,
		DefaultCacheEntryExpiration,
		delegate,
		func(a *Auth) bool { return a != nil },
	)
}

func NewJwtAuthenticator(secret []byte) Authenticator {
	return &JwtAuthenticator{secret: secret}
}

func (j *JwtAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return false, ErrUnauthenticated
	}

	SetAuthData(ec, &Auth{
		SubjectId: claims.Subject,
		Roles:     claims.Roles,
	})
	return true, nil
}
