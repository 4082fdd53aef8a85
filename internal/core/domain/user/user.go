package user

import (
	"fmt"
	c "pwreset/internal/core/domain/common"
	e "pwreset/internal/core/domain/errors"
	"strings"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type User struct {
	ID               ID
	Email            c.Optional[c.Email]
	TempEmail        c.Optional[c.Email]
	PasswordHash     c.Optional[PasswordHash]
	TempPasswordHash c.Optional[PasswordHash]
	CreatedAt        time.Time
}

func (u *User) Validate() error {
	if !u.Email.IsPresent && !u.TempEmail.IsPresent {
		return e.NewInvalidStateError(fmt.Sprintf("neither email nor temp email is defined for user %d", u.ID))
	}
	return nil
}

// HasEmail reports whether email is one of the user's lookup addresses, ignoring case.
func (u *User) HasEmail(email c.Email) bool {
	if u.Email.IsPresent && strings.EqualFold(string(u.Email.Value), string(email)) {
		return true
	}
	return u.TempEmail.IsPresent && strings.EqualFold(string(u.TempEmail.Value), string(email))
}

type PasswordResetState int

const (
	PasswordResetIdle PasswordResetState = iota
	PasswordResetStaged
)

func (s PasswordResetState) String() string {
	switch s {
	case PasswordResetStaged:
		return "staged"
	default:
		return "idle"
	}
}

// PasswordResetState is Staged while a temporary password awaits confirmation.
func (u *User) PasswordResetState() PasswordResetState {
	if u.TempPasswordHash.IsPresent {
		return PasswordResetStaged
	}
	return PasswordResetIdle
}
