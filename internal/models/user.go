package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored user document. Credential fields live in the same
// collection but are owned by the auth collaborator and never read here.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	ProfileImage string               `bson:"profileImage" json:"profileImage"`
	Bio          string               `bson:"bio" json:"bio"`
	Link         string               `bson:"link,omitempty" json:"link,omitempty"`
	Posts        []primitive.ObjectID `bson:"posts" json:"posts"`
	Following    []primitive.ObjectID `bson:"following" json:"following"`
	Followers    []primitive.ObjectID `bson:"followers" json:"followers"`
	SavedPosts   []primitive.ObjectID `bson:"savedPosts" json:"savedPosts"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Follows reports whether the user follows the given account
func (u *User) Follows(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// HasSaved reports whether the post is in the user's bookmarks
func (u *User) HasSaved(postID primitive.ObjectID) bool {
	for _, p := range u.SavedPosts {
		if p == postID {
			return true
		}
	}
	return false
}
