package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"plume/internal/assets"
	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubAssetStore is an in-memory assets.Store for handler tests.
type stubAssetStore struct {
	uploads  int
	deleted  []string
	uploadFn func(ctx context.Context, in assets.UploadInput) (string, error)
}

func (s *stubAssetStore) Upload(ctx context.Context, in assets.UploadInput) (string, error) {
	s.uploads++
	if s.uploadFn != nil {
		return s.uploadFn(ctx, in)
	}
	return fmt.Sprintf("ref-%d", s.uploads), nil
}

func (s *stubAssetStore) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func (s *stubAssetStore) URL(ref string) string {
	return "/media/" + ref + "/master.webp"
}

// newTestServer builds a full server against an in-memory database with
// no Redis. Routes are registered on a bare Fiber app; the middleware
// stack is exercised separately.
func newTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:      "test_secret",
		Port:           "8480",
		Env:            "test",
		AssetMaxSizeMB: 10,
	}

	s, err := NewServerWithDeps(cfg, db, nil, &stubAssetStore{})
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

// doJSON issues a JSON request against the test app and decodes the
// response body into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// signupUser registers a user via the public endpoint and returns the
// issued token and user record.
func signupUser(t *testing.T, app *fiber.App, username string) (string, models.User) {
	t.Helper()

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	status := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

// createPost publishes a text post as the given user.
func createPost(t *testing.T, app *fiber.App, token, text string) models.Post {
	t.Helper()

	var post models.Post
	status := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"text": text,
	}, &post)
	require.Equal(t, http.StatusCreated, status)
	return post
}
