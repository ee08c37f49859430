package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	PostKeyPrefix     = "post:%d"
	UserFeedKeyPrefix = "feed:user:%d"

	userFeedScanPattern = "feed:user:*"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
	FeedTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserFeedKey(userID uint) string {
	return fmt.Sprintf(UserFeedKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateUserFeed drops one viewer's cached feed page, e.g. after
// their like toggle changes the liked flags on it.
func InvalidateUserFeed(ctx context.Context, userID uint) {
	Invalidate(ctx, UserFeedKey(userID))
}

// InvalidateAllUserFeeds drops every cached feed page. Post create and
// delete call it because those writes change the feed for all viewers.
func InvalidateAllUserFeeds(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, userFeedScanPattern, 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
