package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"plume/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	app, _ := newTestServer(t)
	token, user := signupUser(t, app, "alice")

	post := createPost(t, app, token, "hello world")
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, user.ID, post.UserID)

	// A post needs text or an image.
	status := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]string{
		"text": "   ",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Unauthenticated creation is rejected.
	status = doJSON(t, app, http.MethodPost, "/api/posts", "", map[string]string{
		"text": "anonymous",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreatePostMultipartWithImage(t *testing.T) {
	app, s := newTestServer(t)
	token, _ := signupUser(t, app, "alice")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("text", "with image"))
	part, err := writer.CreateFormFile("image", "pic.png")
	require.NoError(t, err)
	_, err = part.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	store := s.assetStore.(*stubAssetStore)
	assert.Equal(t, 1, store.uploads)
}

func TestGetPostsNewestFirst(t *testing.T) {
	app, _ := newTestServer(t)
	token, _ := signupUser(t, app, "alice")

	for i := 1; i <= 3; i++ {
		createPost(t, app, token, fmt.Sprintf("post %d", i))
	}

	var posts []models.Post
	status := doJSON(t, app, http.MethodGet, "/api/posts", token, nil, &posts)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, posts, 3)
	assert.Equal(t, "post 3", posts[0].Text)
	assert.Equal(t, "post 1", posts[2].Text)
}

func TestToggleLike(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")
	post := createPost(t, app, aliceToken, "like me")

	likePath := fmt.Sprintf("/api/posts/%d/like", post.ID)

	var liked models.Post
	status := doJSON(t, app, http.MethodPut, likePath, bobToken, nil, &liked)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikesCount)

	// Second toggle removes the like.
	var unliked models.Post
	status = doJSON(t, app, http.MethodPut, likePath, bobToken, nil, &unliked)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.LikesCount)

	// Unknown post.
	status = doJSON(t, app, http.MethodPut, "/api/posts/9999/like", bobToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Malformed id.
	status = doJSON(t, app, http.MethodPut, "/api/posts/abc/like", bobToken, nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCommentOnPost(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, bob := signupUser(t, app, "bob")
	post := createPost(t, app, aliceToken, "discuss")

	commentPath := fmt.Sprintf("/api/posts/%d/comment", post.ID)

	var updated models.Post
	status := doJSON(t, app, http.MethodPost, commentPath, bobToken, map[string]string{
		"text": "nice post",
	}, &updated)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "nice post", updated.Comments[0].Text)
	assert.Equal(t, bob.ID, updated.Comments[0].UserID)

	// Blank comment is rejected.
	status = doJSON(t, app, http.MethodPost, commentPath, bobToken, map[string]string{
		"text": "   ",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// The post author receives a comment notification.
	var notifs []models.Notification
	status = doJSON(t, app, http.MethodGet, "/api/notifications", aliceToken, nil, &notifs)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationKindComment, notifs[0].Kind)
	assert.Equal(t, bob.ID, notifs[0].FromID)
}

func TestDeletePost(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")
	post := createPost(t, app, aliceToken, "ephemeral")

	deletePath := fmt.Sprintf("/api/posts/%d", post.ID)

	// Only the owner may delete.
	status := doJSON(t, app, http.MethodDelete, deletePath, bobToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = doJSON(t, app, http.MethodDelete, deletePath, aliceToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// Gone now.
	status = doJSON(t, app, http.MethodDelete, deletePath, aliceToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var posts []models.Post
	status = doJSON(t, app, http.MethodGet, "/api/posts", aliceToken, nil, &posts)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, posts)
}

func TestFollowingFeed(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, bob := signupUser(t, app, "bob")
	carolToken, _ := signupUser(t, app, "carol")

	createPost(t, app, bobToken, "from bob")
	createPost(t, app, carolToken, "from carol")

	// Alice follows only bob.
	status := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/users/%d/follow", bob.ID), aliceToken, nil, nil)
	require.Equal(t, http.StatusOK, status)

	var feed []models.Post
	status = doJSON(t, app, http.MethodGet, "/api/posts/following", aliceToken, nil, &feed)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, feed, 1)
	assert.Equal(t, "from bob", feed[0].Text)

	// Carol follows nobody; her feed is empty, not an error.
	status = doJSON(t, app, http.MethodGet, "/api/posts/following", carolToken, nil, &feed)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, feed)
}

func TestGetUserPosts(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, _ := signupUser(t, app, "bob")

	createPost(t, app, aliceToken, "alice writes")
	createPost(t, app, bobToken, "bob writes")

	var posts []models.Post
	status := doJSON(t, app, http.MethodGet, "/api/posts/user/alice", bobToken, nil, &posts)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice writes", posts[0].Text)

	status = doJSON(t, app, http.MethodGet, "/api/posts/user/ghost", bobToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetLikedPosts(t *testing.T) {
	app, _ := newTestServer(t)
	aliceToken, _ := signupUser(t, app, "alice")
	bobToken, bob := signupUser(t, app, "bob")

	first := createPost(t, app, aliceToken, "first")
	second := createPost(t, app, aliceToken, "second")

	// Bob likes second then first; liked list follows like order.
	for _, id := range []uint{second.ID, first.ID} {
		status := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d/like", id), bobToken, nil, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var liked []models.Post
	status := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/likes/%d", bob.ID), aliceToken, nil, &liked)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, liked, 2)
	assert.Equal(t, "second", liked[0].Text)
	assert.Equal(t, "first", liked[1].Text)

	status = doJSON(t, app, http.MethodGet, "/api/posts/likes/abc", aliceToken, nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReadEndpointsRequireAuth(t *testing.T) {
	app, _ := newTestServer(t)
	_, bob := signupUser(t, app, "bob")

	paths := []string{
		"/api/posts",
		"/api/posts/following",
		"/api/posts/user/bob",
		fmt.Sprintf("/api/posts/likes/%d", bob.ID),
		"/api/users/profile/bob",
		"/api/notifications",
	}
	for _, path := range paths {
		status := doJSON(t, app, http.MethodGet, path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, status, "GET %s without token", path)
	}
}
