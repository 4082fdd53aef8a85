package email

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"pwreset/internal/core/domain/mail"
	"strings"
)

const (
	templateExt   = ".tmpl"
	subjectHeader = "Subject:"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DefaultTemplates are the templates shipped with the binary.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateStore keeps templates loaded from "<name>.tmpl" files. A file starts with a
// "Subject: ..." line followed by a blank line and the HTML body.
type TemplateStore struct {
	templates map[string]mail.Template
}

func NewTemplateStore(fsys fs.FS) (*TemplateStore, error) {
	files, err := fs.Glob(fsys, "*"+templateExt)
	if err != nil {
		return nil, err
	}
	store := &TemplateStore{templates: make(map[string]mail.Template, len(files))}
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("could not read email template %s: %w", file, err)
		}
		t, err := parseTemplate(strings.TrimSuffix(path.Base(file), templateExt), string(content))
		if err != nil {
			return nil, err
		}
		store.templates[t.Name] = t
	}
	return store, nil
}

func (s *TemplateStore) GetTemplate(name string) (mail.Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return mail.Template{}, fmt.Errorf("%w: %s", mail.ErrTemplateNotFound, name)
	}
	return t, nil
}

func parseTemplate(name string, content string) (t mail.Template, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	header, body, found := strings.Cut(content, "\n\n")
	if !found || !strings.HasPrefix(header, subjectHeader) {
		return t, fmt.Errorf("email template %s must start with a subject line and a blank line", name)
	}
	t = mail.Template{
		Name:    name,
		Subject: strings.TrimSpace(strings.TrimPrefix(header, subjectHeader)),
		Body:    body,
	}
	if _, _, err := render(t, nil); err != nil {
		return t, err
	}
	return t, nil
}
