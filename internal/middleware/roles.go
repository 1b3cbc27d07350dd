package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole vérifie que l'utilisateur porte l'un des rôles attendus
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Accès réservé à un autre rôle"})
		c.Abort()
	}
}
