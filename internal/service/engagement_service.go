// Package service contains the business logic of the application.
package service

import (
	"context"
	"strings"

	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/observability"
	"plume/internal/repository"
)

// EngagementService mutates the social graph and the per-post engagement
// state: follow edges, likes, comments, and the notification fan-out they
// trigger. Every operation completes within the request; there is no
// background work and nothing is retried.
type EngagementService struct {
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	notifRepo  repository.NotificationRepository
}

// NewEngagementService returns a new EngagementService.
func NewEngagementService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifRepo repository.NotificationRepository,
) *EngagementService {
	return &EngagementService{
		postRepo:   postRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		notifRepo:  notifRepo,
	}
}

// FollowUnfollow toggles the follow edge from actor to target and returns
// the resulting state. The follow branch emits exactly one follow
// notification to the target; the unfollow branch emits nothing. Because
// the edge insert ignores conflicts, a concurrent duplicate follow cannot
// produce a second notification: only the winning insert fans out.
func (s *EngagementService) FollowUnfollow(ctx context.Context, actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, models.NewInvalidOperationError("You can't follow/unfollow yourself")
	}

	ctx, span := observability.StartEngagementSpan(ctx, "follow_toggle", actorID, targetID)
	defer span.End()

	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return false, err
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.followRepo.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.followRepo.RemoveEdge(ctx, actorID, targetID); err != nil {
			return false, err
		}
		middleware.EngagementEvents.WithLabelValues("unfollow").Inc()
		observability.AddSpanEvent(ctx, "follow.edge_removed")
		return false, nil
	}

	inserted, err := s.followRepo.AddEdge(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	middleware.EngagementEvents.WithLabelValues("follow").Inc()
	observability.AddSpanEvent(ctx, "follow.edge_added")

	if inserted {
		if err := s.notifRepo.Create(ctx, &models.Notification{
			FromID: actorID,
			ToID:   targetID,
			Kind:   models.NotificationKindFollow,
		}); err != nil {
			return true, err
		}
		middleware.NotificationsEmitted.WithLabelValues(string(models.NotificationKindFollow)).Inc()
		observability.AddSpanEvent(ctx, "notification.follow")
	}

	return true, nil
}

// ToggleLike flips the actor's membership in the post's like set and
// returns the refreshed post. The toggle is decided from a snapshot read,
// but the writes themselves are atomic (conflict-ignoring insert, keyed
// delete), so two serialized calls always restore the original state.
// Likes deliberately emit no notification.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, postID uint) (*models.Post, error) {
	ctx, span := observability.StartEngagementSpan(ctx, "like_toggle", actorID, postID)
	defer span.End()

	if _, err := s.postRepo.GetByID(ctx, postID, actorID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, actorID, postID); err != nil {
			return nil, err
		}
		middleware.EngagementEvents.WithLabelValues("unlike").Inc()
		observability.AddSpanEvent(ctx, "like.removed")
	} else {
		if err := s.postRepo.Like(ctx, actorID, postID); err != nil {
			return nil, err
		}
		middleware.EngagementEvents.WithLabelValues("like").Inc()
		observability.AddSpanEvent(ctx, "like.added")
	}

	return s.postRepo.GetByID(ctx, postID, actorID)
}

// Comment appends a comment to the post and returns the post with all
// comments resolved. When the actor is not the post author, exactly one
// comment notification goes to the author; commenting on your own post
// emits nothing.
func (s *EngagementService) Comment(ctx context.Context, actorID, postID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text field is required")
	}

	ctx, span := observability.StartEngagementSpan(ctx, "comment", actorID, postID)
	defer span.End()

	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.AddComment(ctx, &models.Comment{
		PostID: postID,
		UserID: actorID,
		Text:   text,
	}); err != nil {
		return nil, err
	}
	middleware.EngagementEvents.WithLabelValues("comment").Inc()

	if actorID != post.UserID {
		if err := s.notifRepo.Create(ctx, &models.Notification{
			FromID: actorID,
			ToID:   post.UserID,
			Kind:   models.NotificationKindComment,
		}); err != nil {
			return nil, err
		}
		middleware.NotificationsEmitted.WithLabelValues(string(models.NotificationKindComment)).Inc()
		observability.AddSpanEvent(ctx, "notification.comment")
	}

	return s.postRepo.GetByID(ctx, postID, actorID)
}
