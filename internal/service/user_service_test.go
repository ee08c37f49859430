package service

import (
	"context"
	"testing"

	"plume/internal/assets"
	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestGetProfile(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{ID: 3, Username: username, Password: "secret-hash"}, nil
	}
	follows := noopFollowRepo()
	follows.countsFn = func(_ context.Context, _ uint) (int64, int64, error) { return 12, 7, nil }

	svc := NewUserService(users, follows, noopAssetStore())

	profile, err := svc.GetProfile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Empty(t, profile.User.Password)
	assert.Equal(t, int64(12), profile.Followers)
	assert.Equal(t, int64(7), profile.Following)
}

func TestGetProfileUnknownUsername(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo(), noopAssetStore())

	_, err := svc.GetProfile(context.Background(), "ghost")
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestSuggestedUsersSanitized(t *testing.T) {
	users := noopUserRepo()
	users.suggestedFn = func(_ context.Context, userID uint, limit int) ([]models.User, error) {
		assert.Equal(t, SuggestedUsersLimit, limit)
		return []models.User{{ID: 2, Username: "bob", Password: "hash"}}, nil
	}

	svc := NewUserService(users, noopFollowRepo(), noopAssetStore())

	suggested, err := svc.SuggestedUsers(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Empty(t, suggested[0].Password)
}

func TestUpdateProfilePasswordChangeRequiresBoth(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo(), noopAssetStore())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:      1,
		NewPassword: "newpassword",
	})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		CurrentPassword: "oldpassword",
	})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	users := noopUserRepo()
	stored := &models.User{ID: 1, Username: "alice", Password: hashPassword(t, "oldpassword")}
	users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }
	var saved *models.User
	users.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(users, noopFollowRepo(), noopAssetStore())

	// Wrong current password is rejected.
	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		CurrentPassword: "wrong",
		NewPassword:     "newpassword",
	})
	assertAppErrorCode(t, err, models.CodeValidation)

	// Too-short new password is rejected.
	_, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		CurrentPassword: "oldpassword",
		NewPassword:     "tiny",
	})
	assertAppErrorCode(t, err, models.CodeValidation)

	// Correct pair rehashes the credential.
	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:          1,
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("newpassword")))
	assert.Empty(t, updated.Password)
}

func TestUpdateProfileFieldValidation(t *testing.T) {
	svc := NewUserService(noopUserRepo(), noopFollowRepo(), noopAssetStore())

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "x"})
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Email: "nope"})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUpdateProfileAvatarSwap(t *testing.T) {
	users := noopUserRepo()
	stored := &models.User{ID: 1, Username: "alice", Avatar: "old-ref"}
	users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return stored, nil }

	store := noopAssetStore()
	store.uploadFn = func(_ context.Context, _ assets.UploadInput) (string, error) { return "new-ref", nil }
	var released []string
	store.deleteFn = func(_ context.Context, ref string) error {
		released = append(released, ref)
		return nil
	}

	svc := NewUserService(users, noopFollowRepo(), store)

	updated, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Avatar: &assets.UploadInput{Filename: "new.png", Content: []byte{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-ref", updated.Avatar)
	// The displaced asset is released only after the row update.
	assert.Equal(t, []string{"old-ref"}, released)
}

func TestUpdateProfileAvatarUploadFailureIsFatal(t *testing.T) {
	users := noopUserRepo()
	updateCalled := false
	users.updateFn = func(_ context.Context, _ *models.User) error {
		updateCalled = true
		return nil
	}

	store := noopAssetStore()
	store.uploadFn = func(_ context.Context, _ assets.UploadInput) (string, error) {
		return "", assert.AnError
	}

	svc := NewUserService(users, noopFollowRepo(), store)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: 1,
		Avatar: &assets.UploadInput{Filename: "new.png", Content: []byte{1}},
	})
	assertAppErrorCode(t, err, models.CodeUpstream)
	assert.False(t, updateCalled)
}
