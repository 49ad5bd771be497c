package pkg

import "github.com/gin-gonic/gin"

const UserIDKey = "userID"

// GetUserID returns the authenticated user id, or "" when the request went
// through without authentication (dev mode).
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
