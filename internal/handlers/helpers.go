package handlers

import (
	"strconv"

	apierrors "github.com/friendsnet/backend/internal/errors"
	"github.com/friendsnet/backend/internal/middleware"
	"github.com/friendsnet/backend/internal/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUser returns the authenticated user loaded by the auth middleware
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// respondError writes the canonical {success:false, message} failure shape
func respondError(c *gin.Context, err *apierrors.APIError) {
	middleware.RecordError(string(err.Code), c.FullPath())
	c.JSON(err.Status, gin.H{
		"success": false,
		"message": err.Message,
	})
}

// parsePositiveInt parses query parameters like page and limit
func parsePositiveInt(s string, fallback int) int {
	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return val
	}
	return fallback
}

// paramObjectID parses the :id route parameter
func paramObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	return id, err == nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// feedPostFor shapes a freshly created post the way feed reads come back,
// with the author projection inlined.
func feedPostFor(post *models.Post, author *models.User) models.FeedPost {
	return models.FeedPost{
		ID:    post.ID,
		Kind:  post.Kind,
		Text:  post.Text,
		Image: post.Image,
		Video: post.Video,
		Author: models.Author{
			ID:           author.ID,
			Username:     author.Username,
			Name:         author.Name,
			ProfileImage: author.ProfileImage,
		},
		Likes:     post.Likes,
		Comments:  post.Comments,
		Tags:      post.Tags,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
