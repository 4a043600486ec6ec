package mailer

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail through SendGrid. A Mailer with an empty
// API key is a no-op, so local setups work without an account.
type Mailer struct {
	APIKey    string
	FromEmail string
}

func New(apiKey, fromEmail string) *Mailer {
	return &Mailer{APIKey: apiKey, FromEmail: fromEmail}
}

// SendWelcome greets a freshly registered user. Failures are returned so
// the caller can log them; signup never depends on this succeeding.
func (m *Mailer) SendWelcome(toName, toEmail string) error {
	if m.APIKey == "" {
		log.Printf("mailer: SENDGRID_API_KEY not set, skipping welcome mail to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("Zarpado", m.FromEmail)
	to := mail.NewEmail(toName, toEmail)
	subject := "Welcome to Zarpado"
	text := fmt.Sprintf("Hi %s, your account is ready. Upload a photo and start trying on garments.", toName)
	html := fmt.Sprintf("<p>Hi %s, your account is ready. Upload a photo and start trying on garments.</p>", toName)
	message := mail.NewSingleEmail(from, subject, to, text, html)

	response, err := sendgrid.NewSendClient(m.APIKey).Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return nil
}
