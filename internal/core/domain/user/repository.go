package user

import (
	"context"
	c "pwreset/internal/core/domain/common"
	"time"
)

type CreateUserInput struct {
	Email        c.Optional[c.Email]
	TempEmail    c.Optional[c.Email]
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	// GetByEmailOrTempEmail matches either the current or the pending address.
	GetByEmailOrTempEmail(ctx context.Context, email c.Email) (User, error)
	// SetTempPassword stages hash, overwriting any previous stage.
	SetTempPassword(ctx context.Context, id ID, hash PasswordHash) error
	// PromoteTempPassword moves the staged hash into the active slot and clears the stage.
	// It returns ErrPasswordResetIsNotRequired when nothing is staged.
	PromoteTempPassword(ctx context.Context, id ID) error
}
