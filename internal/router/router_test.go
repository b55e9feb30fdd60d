package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/anonto42/blog-backend/internal/repositories/repotest"
	"github.com/anonto42/blog-backend/internal/session"
	"github.com/anonto42/blog-backend/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:               "development",
		AccessTokenSecret: "test-secret",
		TokenTTL:          time.Hour,
		FeaturedSort:      "createdAt",
		CORSOrigins:       []string{"http://localhost:5173"},
	}
}

func newTestRouter(t *testing.T, revocations repositories.RevokedTokenRepository) (*echo.Echo, *repotest.Wishlist) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	wishlist := &repotest.Wishlist{}
	wishlist.Items = []models.WishlistEntry{{Email: "a@example.com", WishID: "w1"}}

	e := New(Dependencies{
		Config:      testConfig(),
		Log:         log,
		Posts:       &repotest.Posts{},
		Comments:    &repotest.Comments{},
		Wishlist:    wishlist,
		Revocations: revocations,
	})
	return e, wishlist
}

func serve(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email string) *http.Cookie {
	t.Helper()
	rec := serve(e, http.MethodPost, "/jwt", `{"email": "`+email+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			assert.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatal("no token cookie set")
	return nil
}

func TestRootAndHealth(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	rec := serve(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Backend is running", rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health", "").Code)
}

func TestPublicRoutesNeedNoCookie(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	for _, path := range []string{"/blogs", "/blogs/banner", "/allblogs", "/recent", "/blogs/comments/abc"} {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, path, "").Code, path)
	}
}

func TestWishlistRequiresSession(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	rec := serve(e, http.MethodGet, "/wishlist?email=a@example.com", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := login(t, e, "a@example.com")
	rec = serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wish_id":"w1"`)

	tampered := &http.Cookie{Name: session.CookieName, Value: cookie.Value + "x"}
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", tampered).Code)
}

func TestWishlistRejectsOtherUsersEmail(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	cookie := login(t, e, "b@example.com")
	rec := serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpiredCookieIsRejected(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	expired := session.NewIssuer("test-secret", -time.Minute, false)
	token, _, err := expired.Issue(models.Identity{Email: "a@example.com"})
	require.NoError(t, err)

	rec := serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", &http.Cookie{Name: session.CookieName, Value: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	e, _ := newTestRouter(t, nil)
	cookie := login(t, e, "a@example.com")

	rec := serve(e, http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())

	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, session.CookieName, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// the browser drops the cookie, so the next call carries none
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/wishlist?email=a@example.com", "").Code)
}

func TestLogoutRevokesTokenWhenDenylistConfigured(t *testing.T) {
	revocations := &repotest.Revocations{}
	e, _ := newTestRouter(t, revocations)
	cookie := login(t, e, "a@example.com")

	require.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", cookie).Code)
	require.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/logout", "", cookie).Code)

	// a client that kept the old cookie is still rejected
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/wishlist?email=a@example.com", "", cookie).Code)
	assert.Len(t, revocations.Expires, 1)
}

func TestJWTValidation(t *testing.T) {
	e, _ := newTestRouter(t, nil)

	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/jwt", `{"email": "nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodPost, "/jwt", `{}`).Code)
}
