package services

import (
	"pwreset/internal/app/deps"
	"pwreset/internal/core/services"
	confirmpasswordreset "pwreset/internal/core/services/confirm_password_reset"
	sendpasswordreset "pwreset/internal/core/services/send_password_reset"
)

type Services struct {
	SendPasswordReset    services.Service[sendpasswordreset.Input, sendpasswordreset.Result]
	ConfirmPasswordReset services.Service[confirmpasswordreset.Input, confirmpasswordreset.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendPasswordReset = sendpasswordreset.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.PasswordResetToken,
		deps.EmailTemplates,
		deps.EmailSender,
		deps.Config.PasswordResetURL(),
		deps.Config.PasswordResetTemplate,
	)
	s.ConfirmPasswordReset = confirmpasswordreset.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordResetToken,
	)

	return s
}
