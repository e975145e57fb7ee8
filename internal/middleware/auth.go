package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"portal/internal/domain/auth"
	"portal/internal/pkg/jwt"
)

// JWTAuth validates the bearer token and exposes user_id, role and sector on
// the gin context. Browsers cannot set headers on websocket handshakes, so
// upgrade requests may carry the token as ?token= instead.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" && websocket.IsWebSocketUpgrade(c.Request) {
			if token := c.Query("token"); token != "" {
				h = "Bearer " + token
			}
		}
		if h == "" {
			abortUnauthorized(c, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "INVALID_AUTH_FORMAT", "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("sector", claims.Sector)

		c.Next()
	}
}

// CurrentActor reads what JWTAuth stored on the context.
func CurrentActor(c *gin.Context) (auth.Actor, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		return auth.Actor{}, false
	}
	return auth.Actor{
		UserID: userID,
		Role:   auth.UserRole(c.GetString("role")),
		Sector: c.GetString("sector"),
	}, true
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
