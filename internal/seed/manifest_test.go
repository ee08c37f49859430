package seed

import (
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoManifest = `
users:
  - username: alice
    email: alice@example.com
    full_name: Alice Demo
    bio: resident demo user
    follows: [bob]
  - username: bob
    follows: [alice]
posts:
  - author: alice
    text: hello from the manifest
    liked_by: [bob]
    comments:
      - author: bob
        text: welcome!
      - author: alice
        text: thanks, me
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(demoManifest))
	require.NoError(t, err)
	require.Len(t, m.Users, 2)
	assert.Equal(t, "alice", m.Users[0].Username)
	assert.Equal(t, []string{"bob"}, m.Users[0].Follows)
	require.Len(t, m.Posts, 1)
	assert.Len(t, m.Posts[0].Comments, 2)

	_, err = ParseManifest([]byte("users: {not: [valid"))
	assert.Error(t, err)
}

func TestApplyManifest(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	m, err := ParseManifest([]byte(demoManifest))
	require.NoError(t, err)
	require.NoError(t, s.ApplyManifest(m))

	var alice, bob models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)
	require.NoError(t, db.Where("username = ?", "bob").First(&bob).Error)
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.Equal(t, "bob@example.com", bob.Email)

	// Mutual follow edges exist.
	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Equal(t, int64(2), edges)

	var post models.Post
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&post).Error)
	assert.Equal(t, "hello from the manifest", post.Text)

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Equal(t, int64(1), likeCount)

	var commentCount int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.Equal(t, int64(2), commentCount)

	// Bob's comment notified alice; alice's own comment did not.
	var commentNotifs int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("to_id = ? AND kind = ?", alice.ID, models.NotificationKindComment).
		Count(&commentNotifs).Error)
	assert.Equal(t, int64(1), commentNotifs)
}

func TestApplyManifestUnknownReferences(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	m := &Manifest{
		Users: []ManifestUser{{Username: "alice", Follows: []string{"ghost"}}},
	}
	assert.Error(t, s.ApplyManifest(m))

	m = &Manifest{
		Posts: []ManifestPost{{Author: "nobody", Text: "orphan"}},
	}
	assert.Error(t, s.ApplyManifest(m))
}

func TestApplyManifestDuplicateUser(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{SkipBcrypt: true})

	m := &Manifest{
		Users: []ManifestUser{{Username: "alice"}, {Username: "alice"}},
	}
	assert.Error(t, s.ApplyManifest(m))
}
