package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/blog-backend/internal/middleware"
	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/anonto42/blog-backend/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const wishlistExistsMessage = "Already exists in wishlist"

// WishlistHandler handles wishlist HTTP requests
type WishlistHandler struct {
	wishlistRepository repositories.WishlistRepository
	log                *logrus.Logger
}

func NewWishlistHandler(wishlistRepo repositories.WishlistRepository, log *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{wishlistRepository: wishlistRepo, log: log}
}

// RegisterWishlistRoutes registers wishlist routes. auth guards the read route only.
func (h *WishlistHandler) RegisterWishlistRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/wishlist", h.GetWishlist, auth)
	g.POST("/wishlist", h.AddToWishlist)
	g.DELETE("/wishlist/:id", h.RemoveFromWishlist)
}

// GetWishlist lists the caller's entries. The email query defaults to the session email and must equal it.
func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	email := strings.TrimSpace(c.QueryParam("email"))
	if claims != nil {
		if email == "" {
			email = claims.Email
		}
		// exact match, the store lookup below is case-sensitive too
		if claims.Email != "" && claims.Email != email {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden access")
		}
	}
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	entries, err := h.wishlistRepository.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// AddToWishlist inserts the entry unless its wish_id is already stored, in which case it answers with a message.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	var req models.CreateWishlistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, inserted, err := h.wishlistRepository.AddIfAbsent(c.Request().Context(), req.ToEntry(time.Now().UTC()))
	if err != nil {
		return storeError(c, h.log, err)
	}
	if !inserted {
		metrics.RecordWishlistDuplicate()
		return c.JSON(http.StatusOK, echo.Map{"message": wishlistExistsMessage})
	}
	return c.JSON(http.StatusOK, res)
}

// RemoveFromWishlist deletes an entry by id
func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	res, err := h.wishlistRepository.DeleteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
