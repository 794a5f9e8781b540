package mail

import (
	"go-hradmin/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Message is a composed notification ready for hand-off.
type Message struct {
	To      []string
	CC      []string
	Subject string
	Body    string
}

// Sender hands messages to the mail infrastructure. Delivery is best-effort:
// implementations do not retry, and callers must not fail their own
// transaction on a send error.
type Sender interface {
	Send(msg Message) error
}

type smtpSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
