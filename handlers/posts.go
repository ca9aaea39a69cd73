package handlers

import (
	"net/http"
	"strconv"

	"github.com/carrion626/social-network/pkg/events"
	"github.com/carrion626/social-network/pkg/notify"
	"github.com/carrion626/social-network/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var likeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "social_post_like_toggles_total",
	Help: "Number of like toggle operations, labeled by resulting action.",
}, []string{"action"})

type PostsHandler struct {
	posts    *repository.PostsRepository
	notifier notify.Notifier
}

func NewPostsHandler(posts *repository.PostsRepository) *PostsHandler {
	return &PostsHandler{posts: posts}
}

func (h *PostsHandler) WithNotifier(n notify.Notifier) *PostsHandler {
	h.notifier = n
	return h
}

func (h *PostsHandler) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userId")
	post, err := h.posts.CreatePost(userID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostsHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.GetPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// ToggleLike flips the caller's like on a post and returns the updated post.
// There is no separate unlike verb; liking twice is a net no-op.
func (h *PostsHandler) ToggleLike(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID := c.GetInt("userId")
	post, liked, err := h.posts.ToggleLike(postID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	likeToggles.WithLabelValues(action).Inc()

	if liked && post.UserID != userID && h.notifier != nil {
		h.notifier.NotifyUser(post.UserID, events.PostLiked{
			Type:    "post_liked",
			PostID:  post.ID,
			LikerID: userID,
		})
	}

	c.JSON(http.StatusOK, post)
}
