package repository

import (
	"context"
	"errors"

	"github.com/friendsnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository handles all database operations for users
type UserRepository interface {
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// Post references on the user document
	AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error

	// Bookmarks
	AddSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error
	RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error

	// Follow graph: both sides are kept in sync
	Follow(ctx context.Context, userID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error
}

// userRepository implements UserRepository on a mongo collection
type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(users *mongo.Collection) UserRepository {
	return &userRepository{users: users}
}

// GetUser gets a user by id
func (r *userRepository) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername gets a user by username
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AddPostRef appends a post id to the user's posts array
func (r *userRepository) AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$push": bson.M{"posts": postID}})
}

// RemovePostRef removes a post id from the user's posts array
func (r *userRepository) RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$pull": bson.M{"posts": postID}})
}

// AddSavedPost bookmarks a post for the user
func (r *userRepository) AddSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"savedPosts": postID}})
}

// RemoveSavedPost removes a bookmark
func (r *userRepository) RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"$pull": bson.M{"savedPosts": postID}})
}

// Follow records userID following targetID on both user documents
func (r *userRepository) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if err := r.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
		return err
	}
	return r.updateUser(ctx, targetID, bson.M{"$addToSet": bson.M{"followers": userID}})
}

// Unfollow removes the follow edge from both user documents
func (r *userRepository) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if err := r.updateUser(ctx, userID, bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
		return err
	}
	return r.updateUser(ctx, targetID, bson.M{"$pull": bson.M{"followers": userID}})
}

func (r *userRepository) updateUser(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
