// Package session issues and verifies the signed session token carried in the "token" cookie.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const CookieName = "token"

var ErrInvalidToken = errors.New("invalid session token")

// Issuer signs session tokens with an HMAC secret and writes them as cookies.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewIssuer creates an Issuer. secure marks the cookie Secure with SameSite=None for cross-site front-ends.
func NewIssuer(secret string, ttl time.Duration, secure bool) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue signs a token for identity that expires after the configured TTL.
func (i *Issuer) Issue(identity models.Identity) (string, *models.SessionClaims, error) {
	now := i.now()
	claims := &models.SessionClaims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies signature and expiry and returns the claims.
func (i *Issuer) Parse(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie writes the session cookie.
func (i *Issuer) SetCookie(c echo.Context, token string) {
	cookie := i.baseCookie()
	cookie.Value = token
	cookie.MaxAge = int(i.ttl.Seconds())
	cookie.Expires = i.now().Add(i.ttl)
	c.SetCookie(cookie)
}

// ClearCookie expires the session cookie with the same attributes it was set with.
func (i *Issuer) ClearCookie(c echo.Context) {
	cookie := i.baseCookie()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (i *Issuer) baseCookie() *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteStrictMode,
	}
	if i.secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
