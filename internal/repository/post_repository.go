package repository

import (
	"context"
	"errors"
	"time"

	"github.com/friendsnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidInput = errors.New("invalid input")
)

// PostRepository handles all database operations for posts, including the
// four candidate-set queries the feed aggregation consumes.
type PostRepository interface {
	// CRUD
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	DeletePost(ctx context.Context, postID primitive.ObjectID) error

	// Mutations on embedded arrays
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error

	// Feed candidate sets
	GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error)
	GetMostLiked(ctx context.Context) ([]models.FeedPost, error)
	GetMostCommented(ctx context.Context) ([]models.FeedPost, error)
	GetTagCounts(ctx context.Context) ([]models.TagCount, error)
	GetByTags(ctx context.Context, tags []string) ([]models.FeedPost, error)

	// Supplementary reads
	GetByIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]models.FeedPost, error)
	GetReels(ctx context.Context, limit int64) ([]models.FeedPost, error)
}

// postRepository implements PostRepository on a mongo collection
type postRepository struct {
	posts *mongo.Collection
}

// NewPostRepository creates a new post repository
func NewPostRepository(posts *mongo.Collection) PostRepository {
	return &postRepository{posts: posts}
}

// authorLookup joins the minimal author projection onto each post, replacing
// the createdBy reference with the projected user document.
func authorLookup() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "createdBy"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "createdBy"},
			{Key: "pipeline", Value: mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "username", Value: 1},
					{Key: "name", Value: 1},
					{Key: "profileImage", Value: 1},
				}}},
			}},
		}}},
		bson.D{{Key: "$unwind", Value: "$createdBy"}},
	}
}

// aggregateFeedPosts runs a pipeline and decodes the joined results
func (r *postRepository) aggregateFeedPosts(ctx context.Context, pipeline mongo.Pipeline) ([]models.FeedPost, error) {
	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.FeedPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost inserts a post and backfills its generated id
func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}

	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	res, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}
	return nil
}

// GetPost gets a post by id
func (r *postRepository) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post document
func (r *postRepository) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike adds the user to the post's like set
func (r *postRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateLikes(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes the user from the post's like set
func (r *postRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	return r.updateLikes(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *postRepository) updateLikes(ctx context.Context, postID primitive.ObjectID, update bson.M) error {
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment appends a comment to the post's comment sequence
func (r *postRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetByAuthors returns posts authored by any of the given users, newest first.
// Secondary _id sort keeps tie order deterministic across invocations.
func (r *postRepository) GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error) {
	if len(authorIDs) == 0 {
		return []models.FeedPost{}, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "createdBy", Value: bson.D{{Key: "$in", Value: authorIDs}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	return r.aggregateFeedPosts(ctx, pipeline)
}

// GetMostLiked returns all posts ranked by like-set size, descending
func (r *postRepository) GetMostLiked(ctx context.Context) ([]models.FeedPost, error) {
	return r.rankedByArraySize(ctx, "likes", "likesCount")
}

// GetMostCommented returns all posts ranked by comment count, descending
func (r *postRepository) GetMostCommented(ctx context.Context) ([]models.FeedPost, error) {
	return r.rankedByArraySize(ctx, "comments", "commentsCount")
}

func (r *postRepository) rankedByArraySize(ctx context.Context, field, countField string) ([]models.FeedPost, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: countField, Value: bson.D{
				{Key: "$size", Value: bson.D{
					{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}},
				}},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: countField, Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	return r.aggregateFeedPosts(ctx, pipeline)
}

// GetTagCounts flattens all posts' tag sets and counts occurrences per tag.
// Threshold filtering and ranking happen in the feed service.
func (r *postRepository) GetTagCounts(ctx context.Context) ([]models.TagCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$tags"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.TagCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// GetByTags returns posts whose tag set intersects the given tags, newest first
func (r *postRepository) GetByTags(ctx context.Context, tags []string) ([]models.FeedPost, error) {
	if len(tags) == 0 {
		return []models.FeedPost{}, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "tags", Value: bson.D{{Key: "$in", Value: tags}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	return r.aggregateFeedPosts(ctx, pipeline)
}

// GetByIDs fetches the given posts with author projections, preserving the
// order of postIDs (used for bookmark lists).
func (r *postRepository) GetByIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]models.FeedPost, error) {
	if len(postIDs) == 0 {
		return []models.FeedPost{}, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$in", Value: postIDs}}},
		}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	fetched, err := r.aggregateFeedPosts(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.FeedPost, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	ordered := make([]models.FeedPost, 0, len(fetched))
	for _, id := range postIDs {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// GetReels returns video posts, newest first, hard-capped at limit
func (r *postRepository) GetReels(ctx context.Context, limit int64) ([]models.FeedPost, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "postType", Value: models.PostKindVideo},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}
	pipeline = append(pipeline, authorLookup()...)

	return r.aggregateFeedPosts(ctx, pipeline)
}
