package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/friendsnet/backend/internal/errors"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GetProfile returns the authenticated user's profile
func (h *Handlers) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("User not found unauthorized request!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "success",
		"user":    user,
	})
}

// GetProfileByUsername returns another user's public profile
func (h *Handlers) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")

	user, err := h.users.GetUserByUsername(c.Request.Context(), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		respondError(c, apierrors.NotFound("User"))
		return
	}
	if err != nil {
		logger.Log.Error("profile fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "success",
		"user":    user,
	})
}

// GetUserPosts returns the authenticated user's own posts, newest first
func (h *Handlers) GetUserPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("User not found unauthorized request!"))
		return
	}

	posts, err := h.posts.GetByAuthors(c.Request.Context(), []primitive.ObjectID{user.ID})
	if err != nil {
		logger.Log.Error("user posts fetch failed",
			logger.WithUserID(user.ID.Hex()),
			zap.Error(err),
		)
		respondError(c, apierrors.InternalError("Internal server error!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User posts fetched",
		"posts":   posts,
	})
}

// ToggleFollow follows the target user, or unfollows if already following.
// Both sides of the edge are updated.
func (h *Handlers) ToggleFollow(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("User not found unauthorized request!"))
		return
	}

	targetID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid user id!"))
		return
	}

	if targetID == user.ID {
		respondError(c, apierrors.BadRequest("You can't follow yourself!"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.GetUser(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(c, apierrors.NotFound("User"))
			return
		}
		logger.Log.Error("follow target fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error!"))
		return
	}

	following := user.Follows(targetID)
	var err error
	if following {
		err = h.users.Unfollow(ctx, user.ID, targetID)
	} else {
		err = h.users.Follow(ctx, user.ID, targetID)
	}
	if err != nil {
		logger.Log.Error("follow toggle failed",
			logger.WithUserID(user.ID.Hex()),
			zap.Error(err),
		)
		respondError(c, apierrors.InternalError("Internal server error!"))
		return
	}

	message := "User followed"
	if following {
		message = "User unfollowed"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"userId":  targetID.Hex(),
		"flag":    !following,
	})
}
