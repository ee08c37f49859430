package service

import (
	"context"
	"log/slog"
	"strings"

	"plume/internal/assets"
	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
)

// PostService owns the post lifecycle: creation with optional image
// upload and owner-only deletion.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	assets   assets.Store
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, store assets.Store) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		assets:   store,
	}
}

// CreatePostInput carries the fields for a new post. Image is optional.
type CreatePostInput struct {
	ActorID uint
	Text    string
	Image   *assets.UploadInput
}

// CreatePost writes a new post for the actor. The image, when present, is
// uploaded before the row is written and a failed upload aborts the whole
// operation, so a post can never reference an asset that does not exist.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, in.ActorID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" && in.Image == nil {
		return nil, models.NewValidationError("Post must have text or image")
	}

	var imageRef string
	if in.Image != nil {
		ref, err := s.assets.Upload(ctx, *in.Image)
		if err != nil {
			switch err {
			case assets.ErrInvalidImage, assets.ErrTooLarge:
				return nil, models.NewValidationError(err.Error())
			default:
				return nil, models.NewUpstreamError("Image upload failed", err)
			}
		}
		imageRef = ref
	}

	post := &models.Post{
		UserID:   in.ActorID,
		Text:     text,
		ImageRef: imageRef,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// The row never existed; release the orphaned asset.
		if imageRef != "" {
			if delErr := s.assets.Delete(ctx, imageRef); delErr != nil {
				middleware.Logger.WarnContext(ctx, "failed to release asset after aborted post create",
					slog.String("ref", imageRef),
					slog.String("error", delErr.Error()),
				)
			}
		}
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.ActorID)
}

// DeletePost removes the actor's own post. The image asset is released
// best-effort afterwards: a failed release is logged and never blocks the
// logical deletion.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return models.NewForbiddenError("You are not authorized to delete this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.ImageRef != "" {
		if err := s.assets.Delete(ctx, post.ImageRef); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to release asset for deleted post",
				slog.Uint64("post_id", uint64(postID)),
				slog.String("ref", post.ImageRef),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
