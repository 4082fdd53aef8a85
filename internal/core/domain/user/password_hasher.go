package user

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
}
