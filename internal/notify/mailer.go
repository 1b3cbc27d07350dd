package notify

import (
	"fmt"
	"log"
	"os"

	"livra_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// Mailer — canal e-mail cosmétique, toujours best-effort
type Mailer interface {
	SendStatusEmail(to string, o *models.Order, status models.OrderStatus) error
}

// SMTPMailer envoie via le relais SMTP configuré en .env
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer { return &SMTPMailer{} }

func (m *SMTPMailer) SendStatusEmail(to string, o *models.Order, status models.OrderStatus) error {
	label := models.StatusLabelFR[status]

	msg := mail.NewMsg()
	if err := msg.From("noreply@livra.app"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("📦 Votre commande est %s - Livra", label))
	msg.SetBodyString(mail.TypeTextHTML, statusEmailHTML(o, label))

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail de statut à", to)
	return client.DialAndSend(msg)
}

func statusEmailHTML(o *models.Order, label string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Mise à jour de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>#%s</strong> est maintenant : <strong>%s</strong>.</p>
		<p>Montant total : <strong>%.2f€</strong></p>
		<p style="color: #999; font-size: 12px;">Cet e-mail a été envoyé automatiquement, merci de ne pas y répondre.</p>
	</div>
</body>
</html>`, shortID(o.ID), label, o.TotalPrice)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
