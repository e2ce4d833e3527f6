// Package seed fills the database with demo fairies, posts and friendships.
// It is meant for local development and tests only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"instawinx/internal/cache"
	"instawinx/internal/models"
	"instawinx/internal/service"
	"instawinx/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is given to every seeded user.
const DefaultPassword = "winx123"

// Options controls the size of the generated data set.
type Options struct {
	Users        int
	PostsPerUser int
	// FriendshipRate is the chance, in percent, that two users share a friendship record.
	FriendshipRate int
	// MaxDays bounds how far back post times are spread.
	MaxDays  int
	HashCost int
}

// Result counts what Run created.
type Result struct {
	Users       []models.User
	Posts       int
	Likes       int
	Comments    int
	Friendships int
}

type Seeder struct {
	db    *gorm.DB
	faker *gofakeit.Faker
}

// NewSeeder returns a seeder whose output is reproducible for a given seed.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	return &Seeder{db: db, faker: gofakeit.New(seed)}
}

// ClearAll removes every row of the application tables, children first.
// Cached copies of the removed users are dropped as well.
func (s *Seeder) ClearAll(ctx context.Context) error {
	var userIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.Like{}, &models.Comment{}, &models.Friendship{}, &models.Post{}, &models.User{},
	} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}

	for _, id := range userIDs {
		cache.InvalidateUser(ctx, id)
	}
	return nil
}

// Run creates users, then their posts, then friendships, likes and comments.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), opts.HashCost)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.seedUsers(tx, opts.Users, string(hash))
		if err != nil {
			return err
		}
		res.Users = users

		posts, err := s.seedPosts(tx, users, opts)
		if err != nil {
			return err
		}
		res.Posts = len(posts)

		if res.Friendships, err = s.seedFriendships(tx, users, opts.FriendshipRate); err != nil {
			return err
		}
		res.Likes, res.Comments, err = s.seedEngagement(tx, users, posts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Seeder) seedUsers(tx *gorm.DB, n int, passwordHash string) ([]models.User, error) {
	users := make([]models.User, 0, n)
	taken := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		name := s.username(taken, i)
		taken[name] = struct{}{}
		users = append(users, models.User{
			Username:   name,
			Password:   passwordHash,
			FairyType:  models.FairyTypes[s.faker.Number(0, len(models.FairyTypes)-1)],
			ProfilePic: models.DefaultProfilePic,
			Bio:        validation.CleanText(s.faker.Sentence(8)),
		})
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := tx.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("create users: %w", err)
	}
	return users, nil
}

// username derives a valid, unused username from a fake one.
func (s *Seeder) username(taken map[string]struct{}, i int) string {
	var b strings.Builder
	for _, r := range s.faker.Username() {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := strings.ToLower(b.String())
	if len(name) < 3 {
		name = "fada" + name
	}
	if len(name) > 24 {
		name = name[:24]
	}
	if _, dup := taken[name]; dup || validation.ValidateUsername(name) != nil {
		name = fmt.Sprintf("%s_%d", name, i)
	}
	return name
}

func (s *Seeder) seedPosts(tx *gorm.DB, users []models.User, opts Options) ([]models.Post, error) {
	var posts []models.Post
	now := time.Now()
	for _, u := range users {
		for j := 0; j < opts.PostsPerUser; j++ {
			at := now.Add(-time.Duration(s.faker.Number(0, opts.MaxDays*24*60)) * time.Minute).
				Add(-time.Duration(j) * time.Second)
			posts = append(posts, models.Post{
				UserID:   u.ID,
				Image:    service.ImageKey(u.ID, at),
				Caption:  validation.CleanText(s.faker.Sentence(s.faker.Number(3, 10))),
				PostTime: at,
			})
		}
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := tx.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	return posts, nil
}

// seedFriendships visits each unordered pair once, so the pair index never trips.
func (s *Seeder) seedFriendships(tx *gorm.DB, users []models.User, rate int) (int, error) {
	created := 0
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if s.faker.Number(1, 100) > rate {
				continue
			}
			requester, recipient := users[i].ID, users[j].ID
			if s.faker.Bool() {
				requester, recipient = recipient, requester
			}
			status := models.FriendshipStatusAccepted
			if s.faker.Number(1, 4) == 1 {
				status = models.FriendshipStatusPending
			}
			f := models.Friendship{User1ID: requester, User2ID: recipient, Status: status}
			if err := tx.Create(&f).Error; err != nil {
				return created, fmt.Errorf("create friendship: %w", err)
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedEngagement(tx *gorm.DB, users []models.User, posts []models.Post) (likes, comments int, err error) {
	for _, p := range posts {
		for _, u := range users {
			if s.faker.Number(1, 3) == 1 {
				if err := tx.Create(&models.Like{PostID: p.ID, UserID: u.ID}).Error; err != nil {
					return likes, comments, fmt.Errorf("create like: %w", err)
				}
				likes++
			}
		}
		for k := s.faker.Number(0, 2); k > 0 && len(users) > 0; k-- {
			author := users[s.faker.Number(0, len(users)-1)]
			c := models.Comment{
				PostID:      p.ID,
				UserID:      author.ID,
				Text:        validation.CleanText(s.faker.Sentence(s.faker.Number(2, 8))),
				CommentTime: p.PostTime.Add(time.Duration(s.faker.Number(1, 600)) * time.Minute),
			}
			if err := tx.Create(&c).Error; err != nil {
				return likes, comments, fmt.Errorf("create comment: %w", err)
			}
			comments++
		}
	}
	return likes, comments, nil
}
