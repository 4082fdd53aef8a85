package passwordresettoken

import (
	"fmt"
	"pwreset/internal/core/domain/user"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	UserID          int64 `json:"id"`
	IsPasswordReset bool  `json:"isPasswordReset"`
	jwt.RegisteredClaims
}

// JWT issues HS256 tokens that expire validDuration after issuing.
type JWT struct {
	secretKey     []byte
	validDuration time.Duration
	now           func() time.Time
}

func NewJWT(secretKey string, validDuration time.Duration, now func() time.Time) *JWT {
	if secretKey == "" {
		panic("Password reset token secret key must not be empty.")
	}
	if now == nil {
		panic("Argument now must not be nil.")
	}
	return &JWT{
		secretKey:     []byte(secretKey),
		validDuration: validDuration,
		now:           now,
	}
}

func (j *JWT) IssueToken(u user.User) (user.PasswordResetToken, error) {
	issuedAt := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:          int64(u.ID),
		IsPasswordReset: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.validDuration)),
		},
	})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return user.PasswordResetToken(""), fmt.Errorf("could not sign password reset token: %w", err)
	}
	return user.PasswordResetToken(signed), nil
}

func (j *JWT) VerifyToken(token user.PasswordResetToken) (result user.PasswordResetClaims, ok bool) {
	parsedClaims := &claims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		parsedClaims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return result, false
	}
	if parsedClaims.ExpiresAt == nil || !parsedClaims.IsPasswordReset || parsedClaims.UserID == 0 {
		return result, false
	}
	return user.PasswordResetClaims{
		UserID:          user.ID(parsedClaims.UserID),
		IsPasswordReset: true,
	}, true
}
