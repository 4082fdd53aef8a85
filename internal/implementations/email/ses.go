package email

import (
	"context"
	"fmt"
	c "pwreset/internal/core/domain/common"
	"pwreset/internal/core/domain/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESSender struct {
	ses sesAPI
	// This address must be verified with Amazon SES.
	sender string
}

func NewSESSender(awsConfig aws.Config, sender string) *SESSender {
	return newSESSender(ses.NewFromConfig(awsConfig), sender)
}

func newSESSender(client sesAPI, sender string) *SESSender {
	return &SESSender{ses: client, sender: sender}
}

func (s *SESSender) SendFromTemplate(ctx context.Context, to c.Email, t mail.Template, data interface{}) error {
	m, err := renderMessage(t, data)
	if err != nil {
		return err
	}

	_, err = s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{string(to)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(m.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(m.HTML), Charset: aws.String(charset)},
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("could not send email via SES: %w", err)
	}
	return nil
}
