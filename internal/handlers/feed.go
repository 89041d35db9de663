package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/friendsnet/backend/internal/errors"
	"github.com/friendsnet/backend/internal/feed"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetFeed builds the user's aggregated feed: posts from followed users, most
// liked, most commented and trending posts, merged and paginated.
func (h *Handlers) GetFeed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized: User not authenticated"))
		return
	}

	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	limit := parsePositiveInt(c.DefaultQuery("limit", "10"), 10)

	result, err := h.feed.Build(c.Request.Context(), user.ID, user.Following, page, limit)
	if err != nil {
		var outOfRange *feed.PageOutOfRangeError
		if errors.As(err, &outOfRange) {
			respondError(c, apierrors.BadRequest(outOfRange.Error()))
			return
		}

		logger.Log.Error("feed build failed",
			logger.WithUserID(user.ID.Hex()),
			zap.Error(err),
		)
		respondError(c, apierrors.InternalError("Internal server error while fetching feed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User feed fetched successfully",
		"data":    result,
	})
}

// GetReels returns the newest video posts, hard-capped rather than paginated
func (h *Handlers) GetReels(c *gin.Context) {
	posts, err := h.posts.GetReels(c.Request.Context(), int64(h.cfg.ReelsMax))
	if err != nil {
		logger.Log.Error("reels fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reels fetched successfully",
		"posts":   posts,
	})
}
