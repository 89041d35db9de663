package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/friendsnet/backend/internal/config"
	"github.com/friendsnet/backend/internal/feed"
	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// fakePostRepo implements repository.PostRepository with overridable funcs
type fakePostRepo struct {
	CreatePostFunc       func(ctx context.Context, post *models.Post) error
	GetPostFunc          func(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	DeletePostFunc       func(ctx context.Context, postID primitive.ObjectID) error
	AddLikeFunc          func(ctx context.Context, postID, userID primitive.ObjectID) error
	RemoveLikeFunc       func(ctx context.Context, postID, userID primitive.ObjectID) error
	AddCommentFunc       func(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error
	GetByAuthorsFunc     func(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error)
	GetMostLikedFunc     func(ctx context.Context) ([]models.FeedPost, error)
	GetMostCommentedFunc func(ctx context.Context) ([]models.FeedPost, error)
	GetTagCountsFunc     func(ctx context.Context) ([]models.TagCount, error)
	GetByTagsFunc        func(ctx context.Context, tags []string) ([]models.FeedPost, error)
	GetByIDsFunc         func(ctx context.Context, postIDs []primitive.ObjectID) ([]models.FeedPost, error)
	GetReelsFunc         func(ctx context.Context, limit int64) ([]models.FeedPost, error)
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	if f.CreatePostFunc != nil {
		return f.CreatePostFunc(ctx, post)
	}
	post.ID = primitive.NewObjectID()
	return nil
}

func (f *fakePostRepo) GetPost(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	if f.GetPostFunc != nil {
		return f.GetPostFunc(ctx, postID)
	}
	return &models.Post{ID: postID}, nil
}

func (f *fakePostRepo) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	if f.DeletePostFunc != nil {
		return f.DeletePostFunc(ctx, postID)
	}
	return nil
}

func (f *fakePostRepo) AddLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	if f.AddLikeFunc != nil {
		return f.AddLikeFunc(ctx, postID, userID)
	}
	return nil
}

func (f *fakePostRepo) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	if f.RemoveLikeFunc != nil {
		return f.RemoveLikeFunc(ctx, postID, userID)
	}
	return nil
}

func (f *fakePostRepo) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	if f.AddCommentFunc != nil {
		return f.AddCommentFunc(ctx, postID, comment)
	}
	return nil
}

func (f *fakePostRepo) GetByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error) {
	if f.GetByAuthorsFunc != nil {
		return f.GetByAuthorsFunc(ctx, authorIDs)
	}
	return []models.FeedPost{}, nil
}

func (f *fakePostRepo) GetMostLiked(ctx context.Context) ([]models.FeedPost, error) {
	if f.GetMostLikedFunc != nil {
		return f.GetMostLikedFunc(ctx)
	}
	return []models.FeedPost{}, nil
}

func (f *fakePostRepo) GetMostCommented(ctx context.Context) ([]models.FeedPost, error) {
	if f.GetMostCommentedFunc != nil {
		return f.GetMostCommentedFunc(ctx)
	}
	return []models.FeedPost{}, nil
}

func (f *fakePostRepo) GetTagCounts(ctx context.Context) ([]models.TagCount, error) {
	if f.GetTagCountsFunc != nil {
		return f.GetTagCountsFunc(ctx)
	}
	return []models.TagCount{}, nil
}

func (f *fakePostRepo) GetByTags(ctx context.Context, tags []string) ([]models.FeedPost, error) {
	if f.GetByTagsFunc != nil {
		return f.GetByTagsFunc(ctx, tags)
	}
	return []models.FeedPost{}, nil
}

func (f *fakePostRepo) GetByIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]models.FeedPost, error) {
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, postIDs)
	}
	return []models.FeedPost{}, nil
}

func (f *fakePostRepo) GetReels(ctx context.Context, limit int64) ([]models.FeedPost, error) {
	if f.GetReelsFunc != nil {
		return f.GetReelsFunc(ctx, limit)
	}
	return []models.FeedPost{}, nil
}

// fakeUserRepo implements repository.UserRepository
type fakeUserRepo struct {
	GetUserFunc           func(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	AddPostRefFunc        func(ctx context.Context, userID, postID primitive.ObjectID) error
	RemovePostRefFunc     func(ctx context.Context, userID, postID primitive.ObjectID) error
	AddSavedPostFunc      func(ctx context.Context, userID, postID primitive.ObjectID) error
	RemoveSavedPostFunc   func(ctx context.Context, userID, postID primitive.ObjectID) error
	FollowFunc            func(ctx context.Context, userID, targetID primitive.ObjectID) error
	UnfollowFunc          func(ctx context.Context, userID, targetID primitive.ObjectID) error
}

func (f *fakeUserRepo) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	if f.GetUserFunc != nil {
		return f.GetUserFunc(ctx, userID)
	}
	return &models.User{ID: userID}, nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.GetUserByUsernameFunc != nil {
		return f.GetUserByUsernameFunc(ctx, username)
	}
	return &models.User{ID: primitive.NewObjectID(), Username: username}, nil
}

func (f *fakeUserRepo) AddPostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	if f.AddPostRefFunc != nil {
		return f.AddPostRefFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakeUserRepo) RemovePostRef(ctx context.Context, userID, postID primitive.ObjectID) error {
	if f.RemovePostRefFunc != nil {
		return f.RemovePostRefFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakeUserRepo) AddSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	if f.AddSavedPostFunc != nil {
		return f.AddSavedPostFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakeUserRepo) RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	if f.RemoveSavedPostFunc != nil {
		return f.RemoveSavedPostFunc(ctx, userID, postID)
	}
	return nil
}

func (f *fakeUserRepo) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if f.FollowFunc != nil {
		return f.FollowFunc(ctx, userID, targetID)
	}
	return nil
}

func (f *fakeUserRepo) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if f.UnfollowFunc != nil {
		return f.UnfollowFunc(ctx, userID, targetID)
	}
	return nil
}

// HandlersTestSuite spins up a test router with fake repositories
type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	posts    *fakePostRepo
	users    *fakeUserRepo
	authUser *models.User
}

func (s *HandlersTestSuite) SetupTest() {
	s.posts = &fakePostRepo{}
	s.users = &fakeUserRepo{}
	s.authUser = &models.User{
		ID:         primitive.NewObjectID(),
		Username:   "tester",
		Name:       "Test User",
		Following:  []primitive.ObjectID{},
		SavedPosts: []primitive.ObjectID{},
	}

	cfg := config.Load()
	feedSvc := feed.NewService(s.posts, nil, feed.Options{
		PageSizeMax:      cfg.PageSizeMax,
		TrendingMinUses:  cfg.TrendingMinUses,
		TrendingTopTags:  cfg.TrendingTopTags,
		RetrieverTimeout: cfg.RetrieverTimeout,
	})

	h := NewHandlers(s.posts, s.users, feedSvc, cfg)

	s.router = gin.New()
	h.RegisterRoutes(s.router, func(c *gin.Context) {
		if s.authUser != nil {
			c.Set("user_id", s.authUser.ID.Hex())
			c.Set("user", s.authUser)
		}
		c.Next()
	})
}

func (s *HandlersTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *HandlersTestSuite) TestGetFeedEmpty() {
	w := s.request(http.MethodGet, "/api/v1/posts", nil)

	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal(true, body["success"])
	s.Equal("User feed fetched successfully", body["message"])

	data := body["data"].(map[string]interface{})
	s.Empty(data["feed"])
	pagination := data["pagination"].(map[string]interface{})
	s.Equal(float64(0), pagination["totalPosts"])
}

func (s *HandlersTestSuite) TestGetFeedPageOutOfRange() {
	now := time.Now().UTC()
	posts := make([]models.FeedPost, 12)
	for i := range posts {
		posts[i] = models.FeedPost{
			ID:        primitive.NewObjectID(),
			Kind:      models.PostKindText,
			Text:      fmt.Sprintf("post %d", i),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
	}
	s.posts.GetByAuthorsFunc = func(ctx context.Context, _ []primitive.ObjectID) ([]models.FeedPost, error) {
		return posts, nil
	}

	w := s.request(http.MethodGet, "/api/v1/posts?page=5&limit=10", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	body := s.decode(w)
	s.Equal(false, body["success"])
	s.Equal("Page 5 does not exist. Maximum page is 2", body["message"])
}

func (s *HandlersTestSuite) TestGetFeedStoreFailure() {
	s.posts.GetMostLikedFunc = func(ctx context.Context) ([]models.FeedPost, error) {
		return nil, fmt.Errorf("primary stepped down")
	}

	w := s.request(http.MethodGet, "/api/v1/posts", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	body := s.decode(w)
	s.Equal(false, body["success"])
	s.Equal("Internal server error while fetching feed", body["message"])
	s.NotContains(body, "data", "a failed build must not leak a partial feed")
}

func (s *HandlersTestSuite) TestGetFeedUnauthenticated() {
	s.authUser = nil

	w := s.request(http.MethodGet, "/api/v1/posts", nil)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal(false, s.decode(w)["success"])
}

func (s *HandlersTestSuite) TestCreateTextPost() {
	w := s.request(http.MethodPost, "/api/v1/posts/text", gin.H{
		"text": "hello world",
		"tags": []string{"greetings"},
	})

	s.Equal(http.StatusCreated, w.Code)
	body := s.decode(w)
	s.Equal(true, body["success"])
	s.Equal("Post created successfully", body["message"])

	post := body["post"].(map[string]interface{})
	s.Equal("text", post["postType"])
	s.Equal("hello world", post["text"])
	author := post["createdBy"].(map[string]interface{})
	s.Equal("tester", author["username"])
}

func (s *HandlersTestSuite) TestCreateTextPostRequiresText() {
	w := s.request(http.MethodPost, "/api/v1/posts/text", gin.H{"text": "   "})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Text is required", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestCreateImagePostRequiresMedia() {
	w := s.request(http.MethodPost, "/api/v1/posts/image", gin.H{"text": "look at this"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Text or file hasn't provided!", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestCreateVideoPost() {
	w := s.request(http.MethodPost, "/api/v1/posts/video", gin.H{
		"text":  "new clip",
		"video": "https://cdn.example.com/clip.mp4",
	})

	s.Equal(http.StatusCreated, w.Code)
	post := s.decode(w)["post"].(map[string]interface{})
	s.Equal("video", post["postType"])
	s.Equal("https://cdn.example.com/clip.mp4", post["video"])
}

func (s *HandlersTestSuite) TestToggleLikeOwnPostRejected() {
	postID := primitive.NewObjectID()
	s.posts.GetPostFunc = func(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
		return &models.Post{ID: id, CreatedBy: s.authUser.ID}, nil
	}

	w := s.request(http.MethodPut, "/api/v1/posts/"+postID.Hex(), nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("You can't like to your own post!", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestToggleLikeAndUnlike() {
	postID := primitive.NewObjectID()
	author := primitive.NewObjectID()
	liked := false
	s.posts.GetPostFunc = func(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
		post := &models.Post{ID: id, CreatedBy: author}
		if liked {
			post.Likes = []primitive.ObjectID{s.authUser.ID}
		}
		return post, nil
	}
	s.posts.AddLikeFunc = func(ctx context.Context, _, _ primitive.ObjectID) error {
		liked = true
		return nil
	}
	s.posts.RemoveLikeFunc = func(ctx context.Context, _, _ primitive.ObjectID) error {
		liked = false
		return nil
	}

	w := s.request(http.MethodPut, "/api/v1/posts/"+postID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("Post liked", body["message"])
	s.Equal(true, body["flag"])

	w = s.request(http.MethodPut, "/api/v1/posts/"+postID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	body = s.decode(w)
	s.Equal("Post disliked", body["message"])
	s.Equal(false, body["flag"])
}

func (s *HandlersTestSuite) TestCommentOnPost() {
	postID := primitive.NewObjectID()
	var added models.Comment
	s.posts.AddCommentFunc = func(ctx context.Context, _ primitive.ObjectID, comment models.Comment) error {
		added = comment
		return nil
	}

	w := s.request(http.MethodPost, "/api/v1/posts/comment/"+postID.Hex(), gin.H{
		"comment": "nice one",
	})

	s.Equal(http.StatusCreated, w.Code)
	s.Equal("Comment added successfully", s.decode(w)["message"])
	s.Equal("nice one", added.Text)
	s.Equal(s.authUser.ID, added.UserID)
}

func (s *HandlersTestSuite) TestToggleBookmark() {
	postID := primitive.NewObjectID()

	w := s.request(http.MethodPut, "/api/v1/posts/bookmark/"+postID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("Post bookmarked successfully", body["message"])
	s.Equal(true, body["flag"])

	s.authUser.SavedPosts = []primitive.ObjectID{postID}
	w = s.request(http.MethodPut, "/api/v1/posts/bookmark/"+postID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	body = s.decode(w)
	s.Equal("Post removed from bookmarks", body["message"])
	s.Equal(false, body["flag"])
}

func (s *HandlersTestSuite) TestGetBookmarkedPostsNewestFirst() {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	s.authUser.SavedPosts = []primitive.ObjectID{first, second}

	var requested []primitive.ObjectID
	s.posts.GetByIDsFunc = func(ctx context.Context, postIDs []primitive.ObjectID) ([]models.FeedPost, error) {
		requested = postIDs
		return []models.FeedPost{}, nil
	}

	w := s.request(http.MethodGet, "/api/v1/posts/bookmarks", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal([]primitive.ObjectID{second, first}, requested)
}

func (s *HandlersTestSuite) TestDeletePostOwnershipEnforced() {
	postID := primitive.NewObjectID()
	s.posts.GetPostFunc = func(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
		return &models.Post{ID: id, CreatedBy: primitive.NewObjectID()}, nil
	}

	w := s.request(http.MethodDelete, "/api/v1/posts/"+postID.Hex(), nil)

	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Unauthorized to delete post!", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestDeleteOwnPost() {
	postID := primitive.NewObjectID()
	deleted := false
	s.posts.GetPostFunc = func(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
		return &models.Post{ID: id, CreatedBy: s.authUser.ID}, nil
	}
	s.posts.DeletePostFunc = func(ctx context.Context, id primitive.ObjectID) error {
		deleted = true
		return nil
	}

	w := s.request(http.MethodDelete, "/api/v1/posts/"+postID.Hex(), nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("Post deleted successfully", s.decode(w)["message"])
	s.True(deleted)
}

func (s *HandlersTestSuite) TestGetReels() {
	var requestedLimit int64
	s.posts.GetReelsFunc = func(ctx context.Context, limit int64) ([]models.FeedPost, error) {
		requestedLimit = limit
		return []models.FeedPost{}, nil
	}

	w := s.request(http.MethodGet, "/api/v1/posts/reels", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(50), requestedLimit)
}

func (s *HandlersTestSuite) TestToggleFollowSelfRejected() {
	w := s.request(http.MethodPut, "/api/v1/users/toggle-follow/"+s.authUser.ID.Hex(), nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("You can't follow yourself!", s.decode(w)["message"])
}

func (s *HandlersTestSuite) TestToggleFollowAndUnfollow() {
	targetID := primitive.NewObjectID()
	followed := false
	s.users.FollowFunc = func(ctx context.Context, _, _ primitive.ObjectID) error {
		followed = true
		return nil
	}
	s.users.UnfollowFunc = func(ctx context.Context, _, _ primitive.ObjectID) error {
		followed = false
		return nil
	}

	w := s.request(http.MethodPut, "/api/v1/users/toggle-follow/"+targetID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("User followed", s.decode(w)["message"])
	s.True(followed)

	s.authUser.Following = []primitive.ObjectID{targetID}
	w = s.request(http.MethodPut, "/api/v1/users/toggle-follow/"+targetID.Hex(), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("User unfollowed", s.decode(w)["message"])
	s.False(followed)
}

func (s *HandlersTestSuite) TestGetProfile() {
	w := s.request(http.MethodGet, "/api/v1/users", nil)

	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	user := body["user"].(map[string]interface{})
	s.Equal("tester", user["username"])
}

func (s *HandlersTestSuite) TestGetUserPosts() {
	var requested []primitive.ObjectID
	s.posts.GetByAuthorsFunc = func(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.FeedPost, error) {
		requested = authorIDs
		return []models.FeedPost{}, nil
	}

	w := s.request(http.MethodGet, "/api/v1/users/posts", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("User posts fetched", s.decode(w)["message"])
	s.Equal([]primitive.ObjectID{s.authUser.ID}, requested)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
