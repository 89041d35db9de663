package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/friendsnet/backend/internal/logger"
	"github.com/friendsnet/backend/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const unauthorizedMessage = "Unauthorized user token not provided or invalid!"

// AuthMiddleware validates the session token and loads the authenticated user.
// The token is read from the Authorization Bearer header or, failing that, the
// "token" cookie. On success the gin context carries "user_id" (hex string)
// and "user" (*models.User).
func AuthMiddleware(jwtSecret string, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c)
			return
		}

		idHex, ok := claims["id"].(string)
		if !ok {
			abortUnauthorized(c)
			return
		}

		userID, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			logger.Log.Debug("token user lookup failed",
				logger.WithUserID(idHex),
				zap.Error(err),
			)
			abortUnauthorized(c)
			return
		}

		c.Set("user_id", idHex)
		c.Set("user", user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": unauthorizedMessage,
	})
}
