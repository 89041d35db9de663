package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// trendingTopics are reused across enough posts to cross the trending
// threshold, so a seeded database produces a non-empty trending category.
var trendingTopics = []string{"golang", "travel", "music", "food", "photography"}

// Seeder handles database seeding operations
type Seeder struct {
	users *mongo.Collection
	posts *mongo.Collection
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *mongo.Database) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		users: db.Collection("users"),
		posts: db.Collection("posts"),
	}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context) error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(ctx, 40)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating follow graph...")
	if err := s.seedFollows(ctx, users); err != nil {
		return fmt.Errorf("failed to seed follows: %w", err)
	}

	logger.Log.Info("Creating posts...")
	if err := s.seedPosts(ctx, users, 200); err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with minimal, predictable data
func (s *Seeder) SeedTest(ctx context.Context) error {
	users, err := s.seedUsers(ctx, 3)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return s.seedPosts(ctx, users, 10)
}

// Clean removes all seeded documents
func (s *Seeder) Clean(ctx context.Context) error {
	if _, err := s.posts.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clean posts: %w", err)
	}
	if _, err := s.users.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clean users: %w", err)
	}
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	docs := make([]interface{}, 0, count)

	seen := map[string]bool{}
	for i := 0; i < count; i++ {
		username := strings.ToLower(gofakeit.Username())
		for seen[username] {
			username = strings.ToLower(gofakeit.Username())
		}
		seen[username] = true

		now := time.Now().UTC()
		user := models.User{
			ID:           primitive.NewObjectID(),
			Name:         gofakeit.Name(),
			Username:     username,
			Email:        gofakeit.Email(),
			ProfileImage: fmt.Sprintf("https://i.pravatar.cc/300?u=%s", username),
			Bio:          gofakeit.HipsterSentence(),
			Posts:        []primitive.ObjectID{},
			Following:    []primitive.ObjectID{},
			Followers:    []primitive.ObjectID{},
			SavedPosts:   []primitive.ObjectID{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		users = append(users, user)
		docs = append(docs, user)
	}

	if _, err := s.users.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return users, nil
}

// seedFollows gives every user a handful of random follows, both sides synced
func (s *Seeder) seedFollows(ctx context.Context, users []models.User) error {
	for i := range users {
		count := 3 + rand.Intn(8)
		targets := map[primitive.ObjectID]bool{}
		for len(targets) < count {
			target := users[rand.Intn(len(users))]
			if target.ID == users[i].ID {
				continue
			}
			targets[target.ID] = true
		}

		for targetID := range targets {
			if _, err := s.users.UpdateOne(ctx,
				bson.M{"_id": users[i].ID},
				bson.M{"$addToSet": bson.M{"following": targetID}},
			); err != nil {
				return err
			}
			if _, err := s.users.UpdateOne(ctx,
				bson.M{"_id": targetID},
				bson.M{"$addToSet": bson.M{"followers": users[i].ID}},
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []models.User, count int) error {
	docs := make([]interface{}, 0, count)

	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		createdAt := gofakeit.DateRange(time.Now().AddDate(0, 0, -30), time.Now()).UTC()

		post := models.Post{
			ID:        primitive.NewObjectID(),
			Kind:      models.PostKindText,
			Text:      gofakeit.Sentence(12),
			CreatedBy: author.ID,
			Likes:     randomUserIDs(users, rand.Intn(12)),
			Comments:  randomComments(users, rand.Intn(5)),
			Tags:      randomTags(),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		switch rand.Intn(4) {
		case 0:
			post.Kind = models.PostKindImage
			post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", post.ID.Hex())
		case 1:
			post.Kind = models.PostKindVideo
			post.Video = fmt.Sprintf("https://cdn.example.com/videos/%s.mp4", post.ID.Hex())
		}

		docs = append(docs, post)

		if _, err := s.users.UpdateOne(ctx,
			bson.M{"_id": author.ID},
			bson.M{"$push": bson.M{"posts": post.ID}},
		); err != nil {
			return err
		}
	}

	_, err := s.posts.InsertMany(ctx, docs)
	return err
}

func randomUserIDs(users []models.User, count int) []primitive.ObjectID {
	picked := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for len(ids) < count {
		id := users[rand.Intn(len(users))].ID
		if picked[id] {
			continue
		}
		picked[id] = true
		ids = append(ids, id)
	}
	return ids
}

func randomComments(users []models.User, count int) []models.Comment {
	comments := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		comments = append(comments, models.Comment{
			UserID:    users[rand.Intn(len(users))].ID,
			Text:      gofakeit.Sentence(8),
			CreatedAt: time.Now().UTC(),
		})
	}
	return comments
}

// randomTags mixes a trending topic in roughly half the time, plus noise tags
func randomTags() []string {
	tags := []string{}
	if rand.Intn(2) == 0 {
		tags = append(tags, trendingTopics[rand.Intn(len(trendingTopics))])
	}
	for i := 0; i < rand.Intn(3); i++ {
		tags = append(tags, strings.ToLower(gofakeit.Word()))
	}
	return tags
}
