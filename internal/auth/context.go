package auth

import "github.com/gin-gonic/gin"

// Session identifies the authenticated caller. It is passed explicitly into
// services that need an identity rather than read from ambient state.
type Session struct {
	UserID string
	Email  string
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetSession returns the caller's session, or nil for anonymous requests.
func GetSession(c *gin.Context) *Session {
	userID := GetUserID(c)
	if userID == "" {
		return nil
	}
	return &Session{UserID: userID, Email: GetUserEmail(c)}
}
