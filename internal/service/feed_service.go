package service

import (
	"context"

	"plume/internal/cache"
	"plume/internal/models"
	"plume/internal/repository"
)

// DefaultPageSize is the page size handlers fall back to and the only page
// the global feed caches.
const DefaultPageSize = 20

// FeedService serves the read-only post listings. It never mutates
// anything; all writes happen in PostService and EngagementService.
type FeedService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository, followRepo repository.FollowRepository) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// AllPosts returns the global reverse-chronological feed. The default
// first page is served cache-aside from Redis, keyed per viewer so each
// caller sees their own liked flags. Post writes invalidate every
// viewer's entry; a like toggle invalidates only the toggler's.
func (s *FeedService) AllPosts(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	if offset == 0 && limit == DefaultPageSize {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.UserFeedKey(viewerID), &posts, cache.FeedTTL, func() error {
			fetched, fetchErr := s.postRepo.List(ctx, limit, offset, viewerID)
			if fetchErr != nil {
				return fetchErr
			}
			posts = fetched
			return nil
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, limit, offset, viewerID)
}

// FollowingFeed returns posts authored by the user's followees, newest
// first. An empty followee set yields an empty page, not an error.
func (s *FeedService) FollowingFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	followeeIDs, err := s.followRepo.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.postRepo.ListByAuthors(ctx, followeeIDs, limit, offset, userID)
}

// PostsByAuthor resolves the username and returns that author's posts,
// newest first.
func (s *FeedService) PostsByAuthor(ctx context.Context, username string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	return s.postRepo.ListByAuthor(ctx, user.ID, limit, offset, viewerID)
}

// LikedPosts returns the posts in the user's like set, in the persisted
// order of the like rows.
func (s *FeedService) LikedPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.postRepo.ListLikedBy(ctx, userID, limit, offset, viewerID)
}
