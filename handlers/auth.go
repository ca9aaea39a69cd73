package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carrion626/social-network/auth"
	"github.com/carrion626/social-network/pkg/tokenstore"
	"github.com/carrion626/social-network/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users  *repository.UsersRepository
	tokens *auth.TokenService
	store  *tokenstore.Store
}

func NewAuthHandler(users *repository.UsersRepository, tokens *auth.TokenService, store *tokenstore.Store) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, store: store}
}

// AuthMiddleware validates the bearer access token and stores the caller's
// user id in the gin context under "userId".
func AuthMiddleware(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			c.Abort()
			return
		}
		claims, err := tokens.Parse(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		c.Set("userId", claims.UserID)
		c.Next()
	}
}

// ActivityMiddleware records the caller's last request timestamp on
// instrumented routes. The update is best effort: a failed write is logged
// and never aborts the request it decorates.
func ActivityMiddleware(users *repository.UsersRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetInt("userId"); userID != 0 {
			if err := users.TouchLastRequest(userID); err != nil {
				slog.Warn("failed to update last request", "userId", userID, "err", err)
			}
		}
		c.Next()
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 50 characters"})
		return
	}
	user, err := h.users.CreateUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.GetUserByUsername(req.Username)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := h.users.TouchLastLogin(user.ID); err != nil {
		slog.Warn("failed to update last login", "userId", user.ID, "err", err)
	}

	access, err := h.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	refresh, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	if err := h.store.Save(c.Request.Context(), user.ID, refresh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"tokens": gin.H{
			"access":  access,
			"refresh": refresh,
		},
	})
}

// Refresh exchanges a valid refresh token for a new token pair. The stored
// refresh token is rotated, so each refresh token is usable exactly once.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, err := h.tokens.Parse(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	access, err := h.tokens.GenerateAccessToken(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	refresh, err := h.tokens.GenerateRefreshToken(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	if err := h.store.Rotate(c.Request.Context(), claims.UserID, req.Refresh, refresh); err != nil {
		if errors.Is(err, tokenstore.ErrTokenMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": gin.H{
			"access":  access,
			"refresh": refresh,
		},
	})
}
