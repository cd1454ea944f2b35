package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/utils"
)

// WebSocketAuth reads the token from the query string because browsers
// cannot set headers on a websocket handshake.
func WebSocketAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token missing"))
			return
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set(utils.StaffKey, claims.Subject)
		c.Next()
	}
}
