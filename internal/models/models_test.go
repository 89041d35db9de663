package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostKindValid(t *testing.T) {
	assert.True(t, PostKindText.Valid())
	assert.True(t, PostKindImage.Valid())
	assert.True(t, PostKindVideo.Valid())
	assert.False(t, PostKind("audio").Valid())
	assert.False(t, PostKind("").Valid())
}

func TestUserFollows(t *testing.T) {
	target := primitive.NewObjectID()
	user := User{Following: []primitive.ObjectID{primitive.NewObjectID(), target}}

	assert.True(t, user.Follows(target))
	assert.False(t, user.Follows(primitive.NewObjectID()))
}

func TestUserHasSaved(t *testing.T) {
	postID := primitive.NewObjectID()
	user := User{SavedPosts: []primitive.ObjectID{postID}}

	assert.True(t, user.HasSaved(postID))
	assert.False(t, user.HasSaved(primitive.NewObjectID()))
}
