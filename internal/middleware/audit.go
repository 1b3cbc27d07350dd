package middleware

import (
	"github.com/gin-gonic/gin"

	"livra_back_end/internal/store"
)

// AuditAction trace les actions sensibles sur les commandes (changement de
// statut, annulation, réclamation) dans la table audit_logs. L'écriture est
// asynchrone, succès comme échec.
func AuditAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			orderID = c.Param("orderId")
		}

		c.Next()

		entry := store.AuditEntry{
			UserID:    c.GetString("user_id"),
			UserRole:  c.GetString("role"),
			Action:    action,
			OrderID:   orderID,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			Success:   c.Writer.Status() >= 200 && c.Writer.Status() < 300,
		}
		if !entry.Success {
			entry.ErrorMsg = "Action refusée"
		}
		store.LogAudit(entry)
	}
}
