package mail

import (
	"context"
	"errors"
	c "pwreset/internal/core/domain/common"
)

var ErrTemplateNotFound = errors.New("email template not found")

// Template holds raw subject and body sources; data is applied at send time.
type Template struct {
	Name    string
	Subject string
	Body    string
}

type TemplateStore interface {
	GetTemplate(name string) (Template, error)
}

type Sender interface {
	SendFromTemplate(ctx context.Context, to c.Email, template Template, data interface{}) error
}
