package mail

import (
	"context"
	"fmt"
	c "pwreset/internal/core/domain/common"
	"sync"
)

type FakeTemplateStore struct {
	Templates map[string]Template
}

func NewFakeTemplateStore(templates ...Template) *FakeTemplateStore {
	s := &FakeTemplateStore{Templates: make(map[string]Template)}
	for _, t := range templates {
		s.Templates[t.Name] = t
	}
	return s
}

func (s *FakeTemplateStore) GetTemplate(name string) (Template, error) {
	t, ok := s.Templates[name]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

type FakeSentEmail struct {
	To       c.Email
	Template Template
	Data     interface{}
}

type FakeSender struct {
	Sent        []FakeSentEmail
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

func (s *FakeSender) SendFromTemplate(ctx context.Context, to c.Email, template Template, data interface{}) error {
	if s.ReturnError {
		return fmt.Errorf("could not send %s to %s", template.Name, to)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, FakeSentEmail{To: to, Template: template, Data: data})
	return nil
}

func (s *FakeSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeSender) LastSent() FakeSentEmail {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}
