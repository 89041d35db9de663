package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostKind discriminates the three post variants
type PostKind string

const (
	PostKindText  PostKind = "text"
	PostKindImage PostKind = "image"
	PostKindVideo PostKind = "video"
)

// Valid reports whether k is one of the known post kinds
func (k PostKind) Valid() bool {
	switch k {
	case PostKindText, PostKindImage, PostKindVideo:
		return true
	}
	return false
}

// Comment is embedded in the post document, mirroring the comments array
type Comment struct {
	UserID    primitive.ObjectID `bson:"comUserId" json:"comUserId"`
	Text      string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is the stored post document.
// Invariants: Text is required for all kinds; Image is set iff Kind is "image";
// Video is set iff Kind is "video". Likes holds liker user ids (set semantics),
// Comments is an ordered sequence.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Kind      PostKind             `bson:"postType" json:"postType"`
	Text      string               `bson:"text" json:"text"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Video     string               `bson:"video,omitempty" json:"video,omitempty"`
	CreatedBy primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	Tags      []string             `bson:"tags" json:"tags"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Author is the minimal user projection joined onto feed posts, so clients
// don't need a second round trip for display data.
type Author struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	Name         string             `bson:"name" json:"name"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
}

// FeedPost is a post with its createdBy reference replaced by the author
// projection. It is the decode target for the $lookup pipelines in the
// repository and the shape returned to clients.
type FeedPost struct {
	ID        primitive.ObjectID   `bson:"_id" json:"_id"`
	Kind      PostKind             `bson:"postType" json:"postType"`
	Text      string               `bson:"text" json:"text"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Video     string               `bson:"video,omitempty" json:"video,omitempty"`
	Author    Author               `bson:"createdBy" json:"createdBy"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	Tags      []string             `bson:"tags" json:"tags"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// TagCount is one row of the tag-frequency aggregate ($group by tag)
type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int    `bson:"count" json:"count"`
}
