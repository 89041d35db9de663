package handlers

import (
	"github.com/friendsnet/backend/internal/config"
	"github.com/friendsnet/backend/internal/feed"
	"github.com/friendsnet/backend/internal/repository"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	posts repository.PostRepository
	users repository.UserRepository
	feed  *feed.Service
	cfg   *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(posts repository.PostRepository, users repository.UserRepository, feedSvc *feed.Service, cfg *config.Config) *Handlers {
	return &Handlers{
		posts: posts,
		users: users,
		feed:  feedSvc,
		cfg:   cfg,
	}
}

// RegisterRoutes mounts the API surface under /api/v1. Every route requires
// an authenticated user; authMW is expected to set "user" in the context.
func (h *Handlers) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	api := r.Group("/api/v1")

	posts := api.Group("/posts", authMW)
	posts.GET("", h.GetFeed)
	posts.GET("/reels", h.GetReels)
	posts.POST("/text", h.CreateTextPost)
	posts.POST("/image", h.CreateImagePost)
	posts.POST("/video", h.CreateVideoPost)
	posts.PUT("/bookmark/:id", h.ToggleBookmark)
	posts.GET("/bookmarks", h.GetBookmarkedPosts)
	posts.POST("/comment/:id", h.CommentOnPost)
	posts.GET("/:id", h.GetPost)
	posts.PUT("/:id", h.ToggleLike)
	posts.DELETE("/:id", h.DeletePost)

	users := api.Group("/users", authMW)
	users.GET("", h.GetProfile)
	users.GET("/posts", h.GetUserPosts)
	users.PUT("/toggle-follow/:id", h.ToggleFollow)
	users.GET("/:username", h.GetProfileByUsername)
}
