package middleware

import "github.com/gin-gonic/gin"

// callerIDKey is the key used to store the acting user's ID in the request
// context. The surrounding chat platform is trusted to identify the caller;
// it arrives as the X-Caller-ID header.
const callerIDKey = contextKey("callerID")

const callerIDHeader = "X-Caller-ID"

// CallerIDMiddleware copies the caller id header into the Gin context so
// handlers can attribute writes to a user.
func CallerIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if callerID := c.GetHeader(callerIDHeader); callerID != "" {
			c.Set(string(callerIDKey), callerID)
		}
		c.Next()
	}
}

// GetCallerIDFromContext retrieves the acting user ID from the Gin context.
// It returns the caller ID and a boolean indicating if it was found.
func GetCallerIDFromContext(c *gin.Context) (string, bool) {
	callerIDVal, exists := c.Get(string(callerIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(callerIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	callerID, ok := callerIDVal.(string)
	if !ok {
		return "", false
	}

	return callerID, true
}
