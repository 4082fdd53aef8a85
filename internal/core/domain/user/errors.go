package user

import (
	"errors"
)

var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrEmailAlreadyExists         = errors.New("email already exists")
	ErrUserDoesNotExist           = errors.New("user does not exist")
	ErrInvalidPasswordResetToken  = errors.New("invalid password reset token")
	ErrPasswordResetIsNotRequired = errors.New("password reset is not staged")
)
