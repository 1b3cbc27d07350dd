package handlers

import (
	"github.com/gin-gonic/gin"

	"livra_back_end/internal/models"
)

// actor reconstruit l'identité posée par le middleware JWT
func actor(c *gin.Context) models.Actor {
	return models.Actor{
		UserID: c.GetString("user_id"),
		Role:   c.GetString("role"),
	}
}

// fail renvoie l'enveloppe d'erreur structurée
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
