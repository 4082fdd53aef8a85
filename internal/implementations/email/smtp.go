package email

import (
	"context"
	"fmt"
	c "pwreset/internal/core/domain/common"
	"pwreset/internal/core/domain/mail"

	"gopkg.in/gomail.v2"
)

type smtpDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	dialer smtpDialer
	sender string
}

func NewSMTPSender(host string, port int, username string, password string, sender string) *SMTPSender {
	return newSMTPSender(gomail.NewDialer(host, port, username, password), sender)
}

func newSMTPSender(dialer smtpDialer, sender string) *SMTPSender {
	return &SMTPSender{dialer: dialer, sender: sender}
}

// SendFromTemplate ignores ctx cancellation once the SMTP dialog has started.
func (s *SMTPSender) SendFromTemplate(ctx context.Context, to c.Email, t mail.Template, data interface{}) error {
	m, err := renderMessage(t, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.sender)
	msg.SetHeader("To", string(to))
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("could not send email via SMTP: %w", err)
	}
	return nil
}
