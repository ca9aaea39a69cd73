package handlers

import (
	"net/http"
	"time"

	"github.com/carrion626/social-network/repository"

	"github.com/gin-gonic/gin"
)

type UsersHandler struct {
	users *repository.UsersRepository
}

func NewUsersHandler(users *repository.UsersRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) GetUsers(c *gin.Context) {
	users, err := h.users.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetActivity reports the caller's last login and last request timestamps.
func (h *UsersHandler) GetActivity(c *gin.Context) {
	userID := c.GetInt("userId")
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"last_login":   formatActivityTime(user.LastLogin),
		"last_request": formatActivityTime(user.LastRequest),
	})
}

func formatActivityTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02 15:04:05")
	return &s
}
