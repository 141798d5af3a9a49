package mail

import (
	"fmt"
	"net/smtp"

	"github.com/minhquang4309/social-be/internal/shared/infrastructure/config"
)

// SMTPMailer sends plain-text mail through a configured SMTP relay
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendResetCode delivers a password-reset code to the given address
func (m *SMTPMailer) SendResetCode(to, code string) error {
	subject := "Your password reset code"
	body := fmt.Sprintf("Use this code to reset your password: %s\r\n\r\nIf you did not request a reset, ignore this mail.", code)

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body))

	addr := m.cfg.Host + ":" + m.cfg.Port

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
