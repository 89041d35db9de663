package handlers

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/friendsnet/backend/internal/errors"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/models"
	"github.com/friendsnet/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createPostRequest struct {
	Text  string   `json:"text"`
	Image string   `json:"image"`
	Video string   `json:"video"`
	Tags  []string `json:"tags"`
}

// CreateTextPost creates a text-only post
func (h *Handlers) CreateTextPost(c *gin.Context) {
	h.createPost(c, models.PostKindText)
}

// CreateImagePost creates an image post; the media URL must already be uploaded
func (h *Handlers) CreateImagePost(c *gin.Context) {
	h.createPost(c, models.PostKindImage)
}

// CreateVideoPost creates a video post; the media URL must already be uploaded
func (h *Handlers) CreateVideoPost(c *gin.Context) {
	h.createPost(c, models.PostKindVideo)
}

func (h *Handlers) createPost(c *gin.Context, kind models.PostKind) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized: user not found!"))
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body!"))
		return
	}

	req.Text = strings.TrimSpace(req.Text)

	post := &models.Post{
		Kind:      kind,
		Text:      req.Text,
		CreatedBy: user.ID,
		Tags:      req.Tags,
	}

	switch kind {
	case models.PostKindText:
		if req.Text == "" {
			respondError(c, apierrors.BadRequest("Text is required"))
			return
		}
	case models.PostKindImage:
		if req.Text == "" || req.Image == "" {
			respondError(c, apierrors.BadRequest("Text or file hasn't provided!"))
			return
		}
		post.Image = req.Image
	case models.PostKindVideo:
		if req.Text == "" || req.Video == "" {
			respondError(c, apierrors.BadRequest("Text or file hasn't provided!"))
			return
		}
		post.Video = req.Video
	}

	ctx := c.Request.Context()
	if err := h.posts.CreatePost(ctx, post); err != nil {
		logger.Log.Error("post create failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	if err := h.users.AddPostRef(ctx, user.ID, post.ID); err != nil {
		logger.Log.Error("post ref update failed",
			logger.WithUserID(user.ID.Hex()),
			zap.Error(err),
		)
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created successfully",
		"post":    feedPostFor(post, user),
	})
}

// GetPost returns a single post by id
func (h *Handlers) GetPost(c *gin.Context) {
	postID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid post id!"))
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		respondError(c, apierrors.NotFound("Post"))
		return
	}
	if err != nil {
		logger.Log.Error("post fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "success",
		"post":    post,
	})
}

// ToggleLike likes the post, or removes the like if already present.
// Authors cannot like their own posts.
func (h *Handlers) ToggleLike(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized request!"))
		return
	}

	postID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid post id!"))
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		respondError(c, apierrors.NotFound("Post"))
		return
	}
	if err != nil {
		logger.Log.Error("post fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	if post.CreatedBy == user.ID {
		respondError(c, apierrors.BadRequest("You can't like to your own post!"))
		return
	}

	liked := containsID(post.Likes, user.ID)
	if liked {
		err = h.posts.RemoveLike(ctx, postID, user.ID)
	} else {
		err = h.posts.AddLike(ctx, postID, user.ID)
	}
	if err != nil {
		logger.Log.Error("like toggle failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	message := "Post liked"
	if liked {
		message = "Post disliked"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"postId":  postID.Hex(),
		"userId":  user.ID.Hex(),
		"flag":    !liked,
	})
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// CommentOnPost appends a comment to the post
func (h *Handlers) CommentOnPost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized request!"))
		return
	}

	postID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid post id!"))
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		respondError(c, apierrors.BadRequest("Comment is required!"))
		return
	}

	ctx := c.Request.Context()
	comment := models.Comment{
		UserID: user.ID,
		Text:   strings.TrimSpace(req.Comment),
	}
	err := h.posts.AddComment(ctx, postID, comment)
	if errors.Is(err, repository.ErrPostNotFound) {
		respondError(c, apierrors.NotFound("Post"))
		return
	}
	if err != nil {
		logger.Log.Error("comment add failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	post, err := h.posts.GetPost(ctx, postID)
	if err != nil {
		logger.Log.Error("post fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment added successfully",
		"post":    post,
	})
}

// ToggleBookmark saves the post for the user, or removes the bookmark if
// already saved.
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized: User not found!"))
		return
	}

	postID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid post id!"))
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		respondError(c, apierrors.NotFound("Post"))
		return
	}
	if err != nil {
		logger.Log.Error("post fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	saved := user.HasSaved(postID)
	if saved {
		err = h.users.RemoveSavedPost(ctx, user.ID, postID)
	} else {
		err = h.users.AddSavedPost(ctx, user.ID, postID)
	}
	if err != nil {
		logger.Log.Error("bookmark toggle failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	message := "Post bookmarked successfully"
	if saved {
		message = "Post removed from bookmarks"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"post":    post,
		"flag":    !saved,
	})
}

// GetBookmarkedPosts lists the user's saved posts, newest bookmark first
func (h *Handlers) GetBookmarkedPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized: User not found!"))
		return
	}

	// Bookmarks append chronologically; reverse for newest-saved-first
	reversed := make([]primitive.ObjectID, 0, len(user.SavedPosts))
	for i := len(user.SavedPosts) - 1; i >= 0; i-- {
		reversed = append(reversed, user.SavedPosts[i])
	}

	posts, err := h.posts.GetByIDs(c.Request.Context(), reversed)
	if err != nil {
		logger.Log.Error("bookmarks fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bookmarked posts fetched successfully",
		"posts":   posts,
	})
}

// DeletePost deletes the user's own post
func (h *Handlers) DeletePost(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, apierrors.Unauthorized("Unauthorized: User not found!"))
		return
	}

	postID, ok := paramObjectID(c, "id")
	if !ok {
		respondError(c, apierrors.BadRequest("Invalid post id!"))
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		respondError(c, apierrors.NotFound("Post"))
		return
	}
	if err != nil {
		logger.Log.Error("post fetch failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}

	if post.CreatedBy != user.ID {
		respondError(c, apierrors.Forbidden("Unauthorized to delete post!"))
		return
	}

	if err := h.posts.DeletePost(ctx, postID); err != nil {
		logger.Log.Error("post delete failed", zap.Error(err))
		respondError(c, apierrors.InternalError("Internal server error"))
		return
	}
	if err := h.users.RemovePostRef(ctx, user.ID, postID); err != nil {
		logger.Log.Warn("post ref cleanup failed",
			logger.WithUserID(user.ID.Hex()),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
	})
}
