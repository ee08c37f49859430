package seed

import (
	"fmt"
	"log"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
	// MaxDays spreads post timestamps over the past N days (default 90).
	MaxDays int
	// SkipBcrypt stores a plaintext marker password instead of a bcrypt
	// hash. Much faster for large seeds; dev only.
	SkipBcrypt bool
}

// Seeder populates the database with generated social graph data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"notifications", "likes", "comments", "follows", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// SeedSocialMesh creates `count` users and a follow mesh between them.
// Each user follows a random subset of the others; reciprocal follows
// emerge naturally. Follow notifications are written for each edge so
// seeded inboxes are not empty.
func (s *Seeder) SeedSocialMesh(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	if len(users) < 2 {
		return users, nil
	}

	edges := 0
	for _, follower := range users {
		// Each user follows between 1 and a third of the mesh.
		targets := gofakeit.Number(1, max(1, len(users)/3))
		for j := 0; j < targets; j++ {
			followee := users[gofakeit.Number(0, len(users)-1)]
			if followee.ID == follower.ID {
				continue
			}
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return nil, fmt.Errorf("failed to create follow edge: %w", err)
			}
			if err := s.factory.CreateNotification(follower, followee, models.NotificationKindFollow); err != nil {
				return nil, fmt.Errorf("failed to create follow notification: %w", err)
			}
			edges++
		}
	}
	log.Printf("Created %d users and %d follow edges", len(users), edges)

	return users, nil
}

// SeedEngagement creates `count` posts across the given users, then layers
// comments and likes on top. Comment notifications follow the API rule:
// only cross-user comments notify the post author.
func (s *Seeder) SeedEngagement(users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed posts without users")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}

	comments, likes := 0, 0
	for _, post := range posts {
		author := userByID(users, post.UserID)

		for j := gofakeit.Number(0, 4); j > 0; j-- {
			commenter := users[gofakeit.Number(0, len(users)-1)]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
			if author != nil && commenter.ID != author.ID {
				if err := s.factory.CreateNotification(commenter, author, models.NotificationKindComment); err != nil {
					return nil, fmt.Errorf("failed to create comment notification: %w", err)
				}
			}
		}

		for j := gofakeit.Number(0, len(users)/2); j > 0; j-- {
			liker := users[gofakeit.Number(0, len(users)-1)]
			if err := s.factory.CreateLike(liker, post); err != nil {
				return nil, fmt.Errorf("failed to create like: %w", err)
			}
			likes++
		}
	}
	log.Printf("Created %d posts, %d comments, %d likes", len(posts), comments, likes)

	return posts, nil
}

func userByID(users []*models.User, id uint) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
