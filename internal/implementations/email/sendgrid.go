package email

import (
	"context"
	"fmt"
	c "pwreset/internal/core/domain/common"
	"pwreset/internal/core/domain/mail"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendGridAPI interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type SendGridSender struct {
	client     sendGridAPI
	sender     string
	senderName string
}

func NewSendGridSender(apiKey string, sender string, senderName string) *SendGridSender {
	return newSendGridSender(sendgrid.NewSendClient(apiKey), sender, senderName)
}

func newSendGridSender(client sendGridAPI, sender string, senderName string) *SendGridSender {
	return &SendGridSender{client: client, sender: sender, senderName: senderName}
}

func (s *SendGridSender) SendFromTemplate(ctx context.Context, to c.Email, t mail.Template, data interface{}) error {
	m, err := renderMessage(t, data)
	if err != nil {
		return err
	}

	personalization := sgmail.NewPersonalization()
	personalization.AddTos(sgmail.NewEmail("", string(to)))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(sgmail.NewEmail(s.senderName, s.sender))
	msg.Subject = m.Subject
	msg.AddPersonalizations(personalization)
	msg.AddContent(sgmail.NewContent("text/html", m.HTML))

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("could not send email via SendGrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("could not send email via SendGrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
