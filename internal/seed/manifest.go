package seed

import (
	"fmt"
	"os"

	"plume/internal/models"

	"gopkg.in/yaml.v3"
)

// Manifest describes a deterministic seed layout in YAML. It complements
// the random mesh seeding: named users and posts let dev environments and
// demos rely on stable handles.
//
//	users:
//	  - username: alice
//	    email: alice@example.com
//	    bio: resident demo user
//	    follows: [bob]
//	posts:
//	  - author: alice
//	    text: hello from the manifest
//	    liked_by: [bob]
//	    comments:
//	      - author: bob
//	        text: welcome!
type Manifest struct {
	Users []ManifestUser `yaml:"users"`
	Posts []ManifestPost `yaml:"posts"`
}

// ManifestUser declares a named user and the usernames it follows.
type ManifestUser struct {
	Username string   `yaml:"username"`
	Email    string   `yaml:"email"`
	FullName string   `yaml:"full_name"`
	Bio      string   `yaml:"bio"`
	Follows  []string `yaml:"follows"`
}

// ManifestPost declares a post by a named author with optional likes and
// comments from other named users.
type ManifestPost struct {
	Author   string            `yaml:"author"`
	Text     string            `yaml:"text"`
	LikedBy  []string          `yaml:"liked_by"`
	Comments []ManifestComment `yaml:"comments"`
}

// ManifestComment declares a comment by a named author.
type ManifestComment struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// ParseManifest decodes a YAML seed manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse seed manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and decodes a YAML seed manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read seed manifest: %w", err)
	}
	return ParseManifest(data)
}

// ApplyManifest creates the users, follow edges, posts, likes and comments
// the manifest declares. Usernames must be unique within the manifest and
// every reference must resolve.
func (s *Seeder) ApplyManifest(m *Manifest) error {
	byName := make(map[string]*models.User, len(m.Users))

	for _, mu := range m.Users {
		if mu.Username == "" {
			return fmt.Errorf("manifest user with empty username")
		}
		if _, dup := byName[mu.Username]; dup {
			return fmt.Errorf("duplicate manifest user %q", mu.Username)
		}
		email := mu.Email
		if email == "" {
			email = mu.Username + "@example.com"
		}
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = mu.Username
			u.Email = email
			u.FullName = mu.FullName
			u.Bio = mu.Bio
			u.Link = ""
		})
		if err != nil {
			return fmt.Errorf("failed to create manifest user %q: %w", mu.Username, err)
		}
		byName[mu.Username] = user
	}

	for _, mu := range m.Users {
		follower := byName[mu.Username]
		for _, target := range mu.Follows {
			followee, ok := byName[target]
			if !ok {
				return fmt.Errorf("user %q follows unknown user %q", mu.Username, target)
			}
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return fmt.Errorf("failed to create follow %s -> %s: %w", mu.Username, target, err)
			}
			if err := s.factory.CreateNotification(follower, followee, models.NotificationKindFollow); err != nil {
				return err
			}
		}
	}

	for i, mp := range m.Posts {
		author, ok := byName[mp.Author]
		if !ok {
			return fmt.Errorf("post %d has unknown author %q", i, mp.Author)
		}
		post, err := s.factory.CreatePost(author, func(p *models.Post) {
			p.Text = mp.Text
		})
		if err != nil {
			return fmt.Errorf("failed to create manifest post %d: %w", i, err)
		}

		for _, liker := range mp.LikedBy {
			user, likerOk := byName[liker]
			if !likerOk {
				return fmt.Errorf("post %d liked by unknown user %q", i, liker)
			}
			if err := s.factory.CreateLike(user, post); err != nil {
				return err
			}
		}

		for _, mc := range mp.Comments {
			commenter, commenterOk := byName[mc.Author]
			if !commenterOk {
				return fmt.Errorf("post %d has comment by unknown user %q", i, mc.Author)
			}
			if _, err := s.factory.CreateComment(commenter, post, func(c *models.Comment) {
				c.Text = mc.Text
			}); err != nil {
				return err
			}
			if commenter.ID != author.ID {
				if err := s.factory.CreateNotification(commenter, author, models.NotificationKindComment); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
