package user

type PasswordResetToken string

func (t PasswordResetToken) String() string {
	if len(t) <= 8 {
		return "***"
	}
	return string(t[:8]) + "***"
}

// PasswordResetClaims is what a verified reset token asserts.
type PasswordResetClaims struct {
	UserID          ID
	IsPasswordReset bool
}

type PasswordResetTokenIssuer interface {
	IssueToken(user User) (PasswordResetToken, error)
	// VerifyToken returns ok=false for malformed, tampered, expired or non-reset tokens.
	VerifyToken(token PasswordResetToken) (claims PasswordResetClaims, ok bool)
}
