package confirmpasswordreset

import (
	"context"
	"errors"
	e "pwreset/internal/core/domain/errors"
	"pwreset/internal/core/domain/logging"
	"pwreset/internal/core/domain/user"
	"pwreset/internal/core/services"
)

type Input struct {
	Token user.PasswordResetToken
}

type Result struct {
	Promoted bool
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	tokenIssuer    user.PasswordResetTokenIssuer
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	tokenIssuer user.PasswordResetTokenIssuer,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenIssuer == nil {
		panic(e.NewNilArgumentError("tokenIssuer"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		tokenIssuer:    tokenIssuer,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	claims, ok := s.tokenIssuer.VerifyToken(input.Token)
	if !ok || !claims.IsPasswordReset || claims.UserID == 0 {
		s.log.Info(ctx, "Password reset token rejected.", logging.Entry("token", input.Token))
		return result, user.ErrInvalidPasswordResetToken
	}

	u, err := s.userRepository.GetByID(ctx, claims.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "User not found for password reset confirmation.", logging.Entry("userID", claims.UserID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset confirmation.",
			logging.Entry("userID", claims.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if u.PasswordResetState() == user.PasswordResetIdle {
		s.log.Info(ctx, "No staged password to confirm, skipping.", logging.Entry("userID", u.ID))
		return result, nil
	}

	err = s.userRepository.PromoteTempPassword(ctx, u.ID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	// Another confirmation consumed the stage after it was read.
	if errors.Is(err, user.ErrPasswordResetIsNotRequired) {
		s.log.Info(ctx, "Staged password already confirmed.", logging.Entry("userID", u.ID))
		return result, nil
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Could not confirm password reset, user does not exist.", logging.Entry("userID", u.ID))
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not promote staged password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", u.ID))
	return Result{Promoted: true}, nil
}
