package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"pwreset/internal/core/domain/mail"
	texttemplate "text/template"
)

type message struct {
	Subject string
	HTML    string
}

func renderMessage(t mail.Template, data interface{}) (m message, err error) {
	subject, body, err := render(t, data)
	if err != nil {
		return m, err
	}
	return message{Subject: subject, HTML: body}, nil
}

// render returns nothing but parse errors when data is nil.
func render(t mail.Template, data interface{}) (subject string, body string, err error) {
	subjectTemplate, err := texttemplate.New(t.Name + ".subject").Parse(t.Subject)
	if err != nil {
		return subject, body, fmt.Errorf("could not parse subject of email template %s: %w", t.Name, err)
	}
	bodyTemplate, err := htmltemplate.New(t.Name + ".body").Parse(t.Body)
	if err != nil {
		return subject, body, fmt.Errorf("could not parse body of email template %s: %w", t.Name, err)
	}
	if data == nil {
		return subject, body, nil
	}

	var buf bytes.Buffer
	if err := subjectTemplate.Execute(&buf, data); err != nil {
		return subject, body, fmt.Errorf("could not render subject of email template %s: %w", t.Name, err)
	}
	subject = buf.String()

	buf.Reset()
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return subject, body, fmt.Errorf("could not render body of email template %s: %w", t.Name, err)
	}
	body = buf.String()
	return subject, body, nil
}
