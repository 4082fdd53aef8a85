package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	c "pwreset/internal/core/domain/common"
	"strings"
	"sync"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users []User

	GetReturnsError             bool
	SetTempPasswordReturnsError bool
	PromoteReturnsError         bool

	// Writes counts successful mutations.
	Writes int
	lock   sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Users {
		if input.Email.IsPresent && existing.Email.IsPresent &&
			strings.EqualFold(string(existing.Email.Value), string(input.Email.Value)) {
			return u, ErrEmailAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		TempEmail:    input.TempEmail,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.GetReturnsError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmailOrTempEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.GetReturnsError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.HasEmail(email) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetTempPassword(ctx context.Context, id ID, hash PasswordHash) error {
	if r.SetTempPasswordReturnsError {
		return fmt.Errorf("could not set temp password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].TempPasswordHash = c.Some(hash)
			r.Writes++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeUserRepository) PromoteTempPassword(ctx context.Context, id ID) error {
	if r.PromoteReturnsError {
		return fmt.Errorf("could not promote temp password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID != id {
			continue
		}
		if !u.TempPasswordHash.IsPresent {
			return ErrPasswordResetIsNotRequired
		}
		r.Users[ix].PasswordHash = u.TempPasswordHash
		r.Users[ix].TempPasswordHash = c.None[PasswordHash]()
		r.Writes++
		return nil
	}
	return ErrUserDoesNotExist
}

// FakePasswordResetTokenIssuer accepts only tokens it issued or that were registered with Forge.
type FakePasswordResetTokenIssuer struct {
	ReturnError bool
	Issued      []PasswordResetToken
	claims      map[PasswordResetToken]PasswordResetClaims
	lock        sync.Mutex
}

func NewFakePasswordResetTokenIssuer() *FakePasswordResetTokenIssuer {
	return &FakePasswordResetTokenIssuer{claims: make(map[PasswordResetToken]PasswordResetClaims)}
}

func (i *FakePasswordResetTokenIssuer) IssueToken(u User) (PasswordResetToken, error) {
	if i.ReturnError {
		return PasswordResetToken(""), fmt.Errorf("could not issue token for user %d", u.ID)
	}
	i.lock.Lock()
	defer i.lock.Unlock()
	token := PasswordResetToken(fmt.Sprintf("reset-token-%d-%d", u.ID, len(i.Issued)+1))
	i.Issued = append(i.Issued, token)
	i.claims[token] = PasswordResetClaims{UserID: u.ID, IsPasswordReset: true}
	return token, nil
}

func (i *FakePasswordResetTokenIssuer) VerifyToken(token PasswordResetToken) (PasswordResetClaims, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()
	claims, ok := i.claims[token]
	if !ok || !claims.IsPasswordReset || claims.UserID == 0 {
		return PasswordResetClaims{}, false
	}
	return claims, true
}

func (i *FakePasswordResetTokenIssuer) Forge(token PasswordResetToken, claims PasswordResetClaims) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.claims[token] = claims
}

func (i *FakePasswordResetTokenIssuer) LastIssued() PasswordResetToken {
	l := len(i.Issued)
	if l == 0 {
		panic("Issued count is 0.")
	}
	return i.Issued[l-1]
}
