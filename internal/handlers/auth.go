package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/anonto42/blog-backend/internal/session"
	"github.com/anonto42/blog-backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// EmailVerifier proves that the caller owns an email, e.g. through a Firebase ID token.
type EmailVerifier interface {
	VerifiedEmail(ctx context.Context, idToken string) (string, error)
}

// AuthHandler issues and clears session cookies
type AuthHandler struct {
	issuer      *session.Issuer
	revocations repositories.RevokedTokenRepository
	verifier    EmailVerifier
	log         *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler. revocations and verifier are optional.
func NewAuthHandler(issuer *session.Issuer, revocations repositories.RevokedTokenRepository, verifier EmailVerifier, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		issuer:      issuer,
		revocations: revocations,
		verifier:    verifier,
		log:         log,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/jwt", h.IssueToken)
	g.POST("/logout", h.Logout)
}

// IssueToken signs a session token for the posted identity and sets it as the token cookie.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req models.TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if h.verifier != nil {
		if req.IDToken == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "idToken is required")
		}
		email, err := h.verifier.VerifiedEmail(c.Request().Context(), req.IDToken)
		if err != nil {
			h.log.WithError(err).Warn("Identity verification failed")
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}
		if !strings.EqualFold(email, req.Email) {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized access")
		}
	}

	token, claims, err := h.issuer.Issue(models.Identity{Email: req.Email, Name: req.Name, Photo: req.Photo})
	if err != nil {
		h.log.WithError(err).Error("Failed to sign session token")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	h.issuer.SetCookie(c, token)
	metrics.RecordTokenIssued()
	h.log.WithFields(logrus.Fields{"email": claims.Email, "jti": claims.ID}).Debug("Session token issued")
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Logout clears the cookie. With a denylist configured the token id is also revoked until it expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.revocations != nil {
		if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			if claims, err := h.issuer.Parse(cookie.Value); err == nil && claims.ID != "" && claims.ExpiresAt != nil {
				if err := h.revocations.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
					h.log.WithError(err).WithField("jti", claims.ID).Error("Failed to revoke session token")
				}
			}
		}
	}

	h.issuer.ClearCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
