// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// MustGetUserID gets the authenticated user's id from context or panics.
// Only call on routes behind Auth().
func MustGetUserID(c *gin.Context) string {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// GetUserID gets the authenticated user's id from context.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetUserType gets the authenticated user's type from context.
func GetUserType(c *gin.Context) string {
	v, exists := c.Get("user_type")
	if !exists {
		return ""
	}
	t, _ := v.(string)
	return t
}

// GetEmail gets the authenticated user's email from context.
func GetEmail(c *gin.Context) string {
	v, exists := c.Get("email")
	if !exists {
		return ""
	}
	e, _ := v.(string)
	return e
}

// IsAuthenticated checks if request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user_id")
	return exists
}

// IsAdmin checks if the caller is an admin.
func IsAdmin(c *gin.Context) bool {
	return GetUserType(c) == "admin"
}
