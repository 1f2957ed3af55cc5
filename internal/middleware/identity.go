package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextIdentityKey is the gin context key storing the caller identity.
const ContextIdentityKey = "callerIdentity"

// Identity extracts the caller identity from a bearer token issued by the
// external authentication layer. The engine treats the subject as an opaque
// string attached to created_by / reviewed_by metadata; requests without a
// valid token simply carry no identity.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if subject, err := token.Claims.GetSubject(); err == nil && subject != "" {
			c.Set(ContextIdentityKey, subject)
		}
		c.Next()
	}
}

// CallerIdentity returns the identity stored by the Identity middleware,
// or an empty string.
func CallerIdentity(c *gin.Context) string {
	if v, exists := c.Get(ContextIdentityKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
