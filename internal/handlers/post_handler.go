package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	featuredLimit = 6
	bannerLimit   = 3
	recentLimit   = 3
)

// PostHandler handles HTTP requests related to blog posts
type PostHandler struct {
	postRepository repositories.PostRepository
	featuredSort   string
	log            *logrus.Logger
}

// NewPostHandler creates a new PostHandler. featuredSort is the field GET /blogs orders by.
func NewPostHandler(postRepo repositories.PostRepository, featuredSort string, log *logrus.Logger) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		featuredSort:   featuredSort,
		log:            log,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/blogs", h.GetFeatured)
	g.GET("/blogs/banner", h.GetBanner)
	g.GET("/allblogs", h.GetAllBlogs)
	g.GET("/recent", h.GetRecent)
	g.GET("/blogs/:id", h.GetBlog)
	g.POST("/blogs", h.CreateBlog)
	g.PUT("/updateblog/:id", h.UpdateBlog)
}

// GetFeatured returns the top posts for the home page
func (h *PostHandler) GetFeatured(c echo.Context) error {
	return h.latest(c, h.featuredSort, featuredLimit)
}

func (h *PostHandler) GetBanner(c echo.Context) error {
	return h.latest(c, "createdAt", bannerLimit)
}

func (h *PostHandler) GetRecent(c echo.Context) error {
	return h.latest(c, "createdAt", recentLimit)
}

// GetAllBlogs returns every post, or a title text search when ?search= is set.
func (h *PostHandler) GetAllBlogs(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))

	var (
		posts []models.Post
		err   error
	)
	if search != "" {
		posts, err = h.postRepository.SearchByTitle(c.Request().Context(), search)
	} else {
		posts, err = h.postRepository.ListAll(c.Request().Context())
	}
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetBlog retrieves a post by ID
func (h *PostHandler) GetBlog(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreateBlog creates a new post
func (h *PostHandler) CreateBlog(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.postRepository.CreatePost(c.Request().Context(), req.ToPost(time.Now().UTC()))
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateBlog applies a partial update of the editable post fields
func (h *PostHandler) UpdateBlog(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if len(repositories.PostUpdateFields(&req)) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No updatable fields in request")
	}

	res, err := h.postRepository.UpdatePost(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PostHandler) latest(c echo.Context, sortField string, limit int64) error {
	posts, err := h.postRepository.ListLatest(c.Request().Context(), sortField, limit)
	if err != nil {
		return storeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, posts)
}
