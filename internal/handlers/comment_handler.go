package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	log               *logrus.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{commentRepository: commentRepo, log: log}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/blogs/comments/:id", h.GetCommentsByBlogID)
	g.POST("/blogs/comments", h.CreateComment)
}

// GetCommentsByBlogID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByBlogID(c echo.Context) error {
	comments, err := h.commentRepository.GetCommentsByBlogID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment := &models.Comment{
		BlogID:    req.BlogID,
		Comment:   req.Comment,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		UserPhoto: req.UserPhoto,
		CreatedAt: time.Now().UTC(),
	}
	res, err := h.commentRepository.CreateComment(c.Request().Context(), comment)
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
