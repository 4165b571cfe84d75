// Package mail delivers customer and vendor notifications over SMTP.
// Delivery is best-effort: callers log failures and never fail the request
// that triggered the mail.
package mail

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

type Message struct {
	To            string
	Subject       string
	HTMLBody      string
	AttachmentURL string
}

type Mailer interface {
	Send(msg Message) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPMailer(host string, port int, username, password, from string, log *zap.Logger) Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

func (m *smtpMailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail: recipient is required")
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	body := msg.HTMLBody
	if msg.AttachmentURL != "" {
		body += fmt.Sprintf(`<p><a href="%s">Download attachment</a></p>`, msg.AttachmentURL)
	}
	gm.SetBody("text/html", body)
	if err := m.dialer.DialAndSend(gm); err != nil {
		m.log.Warn("mail send failed", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Error(err))
		return err
	}
	return nil
}
