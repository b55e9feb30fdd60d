package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// storeError maps repository errors to HTTP errors. Driver details are logged, not returned.
func storeError(c echo.Context, log *logrus.Logger, err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrStoreUnavailable):
		log.WithField("path", c.Path()).Warn("Request rejected, document store not connected")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service unavailable")
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("Store operation failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
