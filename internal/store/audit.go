package store

import (
	"log"
	"time"

	"livra_back_end/internal/database"

	"github.com/gocql/gocql"
)

// AuditEntry — trace d'une action sensible sur une commande. Écrite en
// asynchrone : l'audit ne ralentit ni ne fait échouer la requête auditée.
type AuditEntry struct {
	ID        gocql.UUID
	UserID    string
	UserRole  string
	Action    string
	OrderID   string
	IPAddress string
	UserAgent string
	Success   bool
	ErrorMsg  string
	Timestamp time.Time
}

// Actions auditées
const (
	ActionOrderCreate = "order.create"
	ActionOrderStatus = "order.status_change"
	ActionOrderCancel = "order.cancel"
	ActionOrderClaim  = "order.claim"
	ActionNotifsClear = "notifications.clear"
)

// LogAudit enregistre l'entrée en arrière-plan
func LogAudit(entry AuditEntry) {
	entry.ID = gocql.TimeUUID()
	entry.Timestamp = time.Now()

	go func() {
		session, err := database.GetOrdersSession()
		if err != nil {
			log.Printf("❌ Erreur enregistrement audit: %v", err)
			return
		}

		err = session.Query(`INSERT INTO audit_logs (
				id, user_id, user_role, action, order_id,
				ip_address, user_agent, success, error_msg, timestamp
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.UserRole, entry.Action, entry.OrderID,
			entry.IPAddress, entry.UserAgent, entry.Success, entry.ErrorMsg, entry.Timestamp,
		).Exec()
		if err != nil {
			log.Printf("❌ Erreur enregistrement audit: %v", err)
		}
	}()
}
