package sendpasswordreset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	c "pwreset/internal/core/domain/common"
	e "pwreset/internal/core/domain/errors"
	"pwreset/internal/core/domain/logging"
	"pwreset/internal/core/domain/mail"
	"pwreset/internal/core/domain/user"
	"pwreset/internal/core/services"
)

const ResetLinkTokenParam = "id"

type Input struct {
	Email    c.Email
	Password user.RawPassword
}

type Result struct {
	Token user.PasswordResetToken
}

// EmailData is the template context of the reset email.
type EmailData struct {
	UserID    user.ID
	Email     string
	TempEmail string
	ResetLink string
}

type service struct {
	log               logging.Logger
	userRepository    user.UserRepository
	passwordHasher    user.PasswordHasher
	tokenIssuer       user.PasswordResetTokenIssuer
	templates         mail.TemplateStore
	sender            mail.Sender
	resetURL          url.URL
	resetTemplateName string
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	tokenIssuer user.PasswordResetTokenIssuer,
	templates mail.TemplateStore,
	sender mail.Sender,
	resetURL url.URL,
	resetTemplateName string,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	if templates == nil {
		panic(e.NewNilArgumentError("templates"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	return &service{
		log:               log,
		userRepository:    userRepository,
		passwordHasher:    passwordHasher,
		tokenIssuer:       tokenIssuer,
		templates:         templates,
		sender:            sender,
		resetURL:          resetURL,
		resetTemplateName: resetTemplateName,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Email == "" {
		return result, fmt.Errorf("%w: email is required", user.ErrInvalidInput)
	}
	if input.Password == "" {
		return result, fmt.Errorf("%w: password is required", user.ErrInvalidInput)
	}

	u, err := s.userRepository.GetByEmailOrTempEmail(ctx, input.Email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for password reset.", logging.Entry("email", input.Email))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not load user for password reset.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	tempPasswordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not hash temporary password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = s.userRepository.SetTempPassword(ctx, u.ID, tempPasswordHash)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not save temporary password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	u.TempPasswordHash = c.Some(tempPasswordHash)

	template, err := s.templates.GetTemplate(s.resetTemplateName)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get password reset email template.",
			logging.Entry("template", s.resetTemplateName),
			logging.Entry("err", err),
		)
		return result, err
	}

	token, err := s.tokenIssuer.IssueToken(u)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not issue password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	err = s.sender.SendFromTemplate(ctx, input.Email, template, s.emailData(u, token))
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset email.",
			logging.Entry("userID", u.ID),
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("userID", u.ID),
		logging.Entry("email", input.Email),
	)
	return Result{Token: token}, nil
}

func (s *service) emailData(u user.User, token user.PasswordResetToken) EmailData {
	return EmailData{
		UserID:    u.ID,
		Email:     string(u.Email.Value),
		TempEmail: string(u.TempEmail.Value),
		ResetLink: ResetLink(s.resetURL, token),
	}
}

// ResetLink puts token into the id query parameter of base, keeping any existing query.
func ResetLink(base url.URL, token user.PasswordResetToken) string {
	link := base
	query := link.Query()
	query.Set(ResetLinkTokenParam, string(token))
	link.RawQuery = query.Encode()
	return link.String()
}
