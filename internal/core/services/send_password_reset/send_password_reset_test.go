package sendpasswordreset

import (
	"context"
	"net/url"
	c "pwreset/internal/core/domain/common"
	"pwreset/internal/core/domain/logging"
	"pwreset/internal/core/domain/mail"
	"pwreset/internal/core/domain/user"
	"pwreset/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL          = "a@x.com"
	TEMP_EMAIL     = "new-a@x.com"
	OLD_PASSWORD   = "old-password"
	TEMPLATE_NAME  = "pw-reset"
	CLIENT_URL     = "https://client.test/password-reset"
	UNKNOWN_EMAIL  = "nobody@x.com"
	RESET_PASSWORD = "secret1"
)

var Now = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger      *logging.FakeLogger
	Users       *user.FakeUserRepository
	Hasher      *user.FakePasswordHasher
	TokenIssuer *user.FakePasswordResetTokenIssuer
	Templates   *mail.FakeTemplateStore
	Sender      *mail.FakeSender
	Service     services.Service[Input, Result]
	User        user.User
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.Users = user.NewFakeUserRepository()
	s.Hasher = user.NewFakePasswordHasher()
	s.TokenIssuer = user.NewFakePasswordResetTokenIssuer()
	s.Templates = mail.NewFakeTemplateStore(mail.Template{
		Name:    TEMPLATE_NAME,
		Subject: "Reset your password",
		Body:    "{{.ResetLink}}",
	})
	s.Sender = mail.NewFakeSender()
	s.Service = s.createService(TEMPLATE_NAME)
	s.User = s.createUser()
}

func TestSendPasswordResetService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestTempPasswordStaged() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Require().NoError(err)

	u := s.getUser()
	s.True(u.TempPasswordHash.IsPresent)
	s.NotEqual(user.PasswordHash(RESET_PASSWORD), u.TempPasswordHash.Value)
	s.NotEqual(u.PasswordHash.Value, u.TempPasswordHash.Value)
	s.True(s.Hasher.ValidatePassword(RESET_PASSWORD, u.TempPasswordHash.Value))
	s.True(s.Hasher.ValidatePassword(OLD_PASSWORD, u.PasswordHash.Value))
	s.Equal(1, s.Users.Writes)
}

func (s *testSuite) TestEmailSentWithResetLink() {
	result, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Require().NoError(err)
	s.Equal(s.TokenIssuer.LastIssued(), result.Token)

	s.Require().Equal(1, s.Sender.SentCount())
	sent := s.Sender.LastSent()
	s.Equal(c.Email(EMAIL), sent.To)
	s.Equal(TEMPLATE_NAME, sent.Template.Name)

	data, ok := sent.Data.(EmailData)
	s.Require().True(ok)
	s.Equal(s.User.ID, data.UserID)
	s.Equal(EMAIL, data.Email)
	s.Equal(TEMP_EMAIL, data.TempEmail)
	s.Equal(CLIENT_URL+"?id="+string(result.Token), data.ResetLink)
}

func (s *testSuite) TestTempEmailMatches() {
	_, err := s.Service.Run(context.Background(), Input{Email: TEMP_EMAIL, Password: RESET_PASSWORD})
	s.Require().NoError(err)

	s.True(s.getUser().TempPasswordHash.IsPresent)
	s.Require().Equal(1, s.Sender.SentCount())
	s.Equal(c.Email(TEMP_EMAIL), s.Sender.LastSent().To)
}

func (s *testSuite) TestUserDoesNotExist() {
	_, err := s.Service.Run(context.Background(), Input{Email: UNKNOWN_EMAIL, Password: RESET_PASSWORD})
	s.ErrorIs(err, user.ErrUserDoesNotExist)

	s.Equal(0, s.Users.Writes)
	s.False(s.getUser().TempPasswordHash.IsPresent)
	s.Equal(0, s.Sender.SentCount())
	s.Empty(s.TokenIssuer.Issued)
}

func (s *testSuite) TestEmptyInput() {
	cases := []struct {
		id    string
		input Input
	}{
		{id: "empty email", input: Input{Password: RESET_PASSWORD}},
		{id: "empty password", input: Input{Email: EMAIL}},
		{id: "both empty", input: Input{}},
	}
	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			_, err := s.Service.Run(context.Background(), testcase.input)
			s.ErrorIs(err, user.ErrInvalidInput)
			s.Equal(0, s.Users.Writes)
			s.Equal(0, s.Sender.SentCount())
		})
	}
}

func (s *testSuite) TestLookupFailed() {
	s.Users.GetReturnsError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Error(err)
	s.NotErrorIs(err, user.ErrUserDoesNotExist)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
	s.Equal(0, s.Sender.SentCount())
}

func (s *testSuite) TestSaveFailedEmailNotSent() {
	s.Users.SetTempPasswordReturnsError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Error(err)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
	s.Equal(0, s.Sender.SentCount())
	s.Empty(s.TokenIssuer.Issued)
}

func (s *testSuite) TestTemplateNotFound() {
	service := s.createService("unknown-template")

	_, err := service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.ErrorIs(err, mail.ErrTemplateNotFound)
	s.Equal(0, s.Sender.SentCount())
}

func (s *testSuite) TestTokenIssueFailed() {
	s.TokenIssuer.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Error(err)
	s.Equal(0, s.Sender.SentCount())
}

func (s *testSuite) TestSendFailed() {
	s.Sender.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: RESET_PASSWORD})
	s.Error(err)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}

func (s *testSuite) TestRepeatedRequestsOverwriteStage() {
	_, err := s.Service.Run(context.Background(), Input{Email: EMAIL, Password: "secret1"})
	s.Require().NoError(err)
	_, err = s.Service.Run(context.Background(), Input{Email: EMAIL, Password: "secret2"})
	s.Require().NoError(err)

	u := s.getUser()
	s.True(s.Hasher.ValidatePassword("secret2", u.TempPasswordHash.Value))
	s.False(s.Hasher.ValidatePassword("secret1", u.TempPasswordHash.Value))
	s.Equal(2, s.Sender.SentCount())
	s.Len(s.TokenIssuer.Issued, 2)
}

func (s *testSuite) createService(templateName string) services.Service[Input, Result] {
	resetURL, err := url.Parse(CLIENT_URL)
	if err != nil {
		s.FailNow(err.Error())
	}
	return New(
		s.Logger,
		s.Users,
		s.Hasher,
		s.TokenIssuer,
		s.Templates,
		s.Sender,
		*resetURL,
		templateName,
	)
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	hash, err := s.Hasher.HashPassword(OLD_PASSWORD)
	if err != nil {
		s.FailNow(err.Error())
	}
	u, err := s.Users.Create(context.Background(), user.CreateUserInput{
		Email:        c.Some(c.NewEmail(EMAIL)),
		TempEmail:    c.Some(c.NewEmail(TEMP_EMAIL)),
		PasswordHash: c.Some(hash),
		CreatedAt:    Now,
	})
	if err != nil {
		s.FailNow(err.Error())
	}
	return u
}

func (s *testSuite) getUser() user.User {
	s.T().Helper()
	u, err := s.Users.GetByID(context.Background(), s.User.ID)
	if err != nil {
		s.FailNow(err.Error())
	}
	return u
}

func TestResetLink(t *testing.T) {
	cases := []struct {
		base     string
		token    user.PasswordResetToken
		expected string
	}{
		{
			base:     "https://client.test/password-reset",
			token:    "abc.def.ghi",
			expected: "https://client.test/password-reset?id=abc.def.ghi",
		},
		{
			base:     "https://client.test/app/password-reset?lang=en",
			token:    "abc",
			expected: "https://client.test/app/password-reset?id=abc&lang=en",
		},
	}
	for _, testcase := range cases {
		t.Run(testcase.base, func(t *testing.T) {
			base, err := url.Parse(testcase.base)
			if err != nil {
				t.Fatal(err)
			}
			link := ResetLink(*base, testcase.token)
			if link != testcase.expected {
				t.Fatalf("expected %s, got %s", testcase.expected, link)
			}
			if base.String() != testcase.base {
				t.Fatalf("base URL must not be modified, got %s", base.String())
			}
		})
	}
}
