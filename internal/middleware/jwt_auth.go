package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// UserContextKey is where the decoded session claims are stored on the echo.Context.
const UserContextKey = "user"

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// CookieAuth validates the session cookie and stores its claims under UserContextKey.
// revoked may be nil, in which case only signature and expiry are checked.
func CookieAuth(issuer *session.Issuer, revoked RevocationChecker, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
			}

			claims, err := issuer.Parse(cookie.Value)
			if err != nil {
				log.WithError(err).WithField("path", c.Path()).Warn("Rejected session token")
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
			}

			if revoked != nil && claims.ID != "" {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
				isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
				cancel()
				if err != nil {
					log.WithError(err).Error("Revocation lookup failed")
					return echo.NewHTTPError(http.StatusServiceUnavailable, "session check unavailable")
				}
				if isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
				}
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims set by CookieAuth, or nil on unprotected routes.
func ClaimsFromContext(c echo.Context) *models.SessionClaims {
	claims, _ := c.Get(UserContextKey).(*models.SessionClaims)
	return claims
}
