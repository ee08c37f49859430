package service

import (
	"context"
	"errors"
	"testing"

	"plume/internal/assets"
	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	listFn          func(context.Context, int, int, uint) ([]*models.Post, error)
	listByAuthorFn  func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listByAuthorsFn func(context.Context, []uint, int, int, uint) ([]*models.Post, error)
	listLikedByFn   func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	deleteFn        func(context.Context, uint) error
	addCommentFn    func(context.Context, *models.Comment) error
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs, limit, offset, currentUserID)
}
func (s *postRepoStub) ListLikedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listLikedByFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:    func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listByAuthorsFn: func(_ context.Context, _ []uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listLikedByFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		addCommentFn: func(_ context.Context, _ *models.Comment) error { return nil },
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:       func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:     func(_ context.Context, _, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	suggestedFn     func(context.Context, uint, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	return s.suggestedFn(ctx, userID, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		suggestedFn:     func(_ context.Context, _ uint, _ int) ([]models.User, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	addEdgeFn     func(context.Context, uint, uint) (bool, error)
	removeEdgeFn  func(context.Context, uint, uint) error
	followeeIDsFn func(context.Context, uint) ([]uint, error)
	countsFn      func(context.Context, uint) (int64, int64, error)
}

func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) AddEdge(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.addEdgeFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) RemoveEdge(ctx context.Context, followerID, followeeID uint) error {
	return s.removeEdgeFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) FolloweeIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followeeIDsFn(ctx, followerID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	return s.countsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		addEdgeFn:     func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removeEdgeFn:  func(_ context.Context, _, _ uint) error { return nil },
		followeeIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countsFn:      func(_ context.Context, _ uint) (int64, int64, error) { return 0, 0, nil },
	}
}

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createFn           func(context.Context, *models.Notification) error
	listByRecipientFn  func(context.Context, uint) ([]models.Notification, error)
	markAllReadFn      func(context.Context, uint) error
	clearByRecipientFn func(context.Context, uint) error
}

func (s *notifRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notifRepoStub) ListByRecipient(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, userID)
}
func (s *notifRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	return s.markAllReadFn(ctx, userID)
}
func (s *notifRepoStub) ClearByRecipient(ctx context.Context, userID uint) error {
	return s.clearByRecipientFn(ctx, userID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createFn:           func(_ context.Context, _ *models.Notification) error { return nil },
		listByRecipientFn:  func(_ context.Context, _ uint) ([]models.Notification, error) { return nil, nil },
		markAllReadFn:      func(_ context.Context, _ uint) error { return nil },
		clearByRecipientFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assetStoreStub is a stub for assets.Store.
type assetStoreStub struct {
	uploadFn func(context.Context, assets.UploadInput) (string, error)
	deleteFn func(context.Context, string) error
}

func (s *assetStoreStub) Upload(ctx context.Context, in assets.UploadInput) (string, error) {
	return s.uploadFn(ctx, in)
}
func (s *assetStoreStub) Delete(ctx context.Context, ref string) error {
	return s.deleteFn(ctx, ref)
}
func (s *assetStoreStub) URL(ref string) string {
	return "/media/" + ref + "/master.webp"
}

func noopAssetStore() *assetStoreStub {
	return &assetStoreStub{
		uploadFn: func(_ context.Context, _ assets.UploadInput) (string, error) { return "ref-1", nil },
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
