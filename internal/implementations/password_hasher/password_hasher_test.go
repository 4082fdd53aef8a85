package passwordhasher

import (
	"fmt"
	"pwreset/internal/core/domain/user"
	"testing"

	"github.com/stretchr/testify/require"
)

var _ user.PasswordHasher = (*Bcrypt)(nil)

func TestPasswordValid(t *testing.T) {
	cases := []struct {
		ix       int
		secret   string
		cost     int
		password string
	}{
		{ix: 1, secret: "test", cost: 5, password: "secret1"},
		{ix: 2, secret: "", cost: 5, password: "x"},
		{ix: 3, secret: "a", cost: 7, password: "password password"},
		{ix: 4, secret: "   b   ", cost: 10, password: "   test   "},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.ix), func(t *testing.T) {
			h := NewBcrypt(c.secret, c.cost)
			hash, err := h.HashPassword(user.RawPassword(c.password))
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NotEqual(t, user.PasswordHash(c.password), hash)
			require.True(t, h.ValidatePassword(user.RawPassword(c.password), hash))
		})
	}
}

func TestPasswordInvalid(t *testing.T) {
	cases := []struct {
		ix              int
		secretToHash    string
		secretToCheck   string
		passwordToHash  string
		passwordToCheck string
	}{
		{ix: 1, secretToHash: "test", secretToCheck: "test", passwordToHash: "test", passwordToCheck: "test "},
		{ix: 2, secretToHash: "test", secretToCheck: "test ", passwordToHash: "test", passwordToCheck: "test"},
		{ix: 3, secretToHash: "", secretToCheck: "", passwordToHash: "secret1", passwordToCheck: "secret2"},
		{ix: 4, secretToHash: "   b   ", secretToCheck: "   b   ", passwordToHash: "   test   ", passwordToCheck: "   tost   "},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.ix), func(t *testing.T) {
			hash, err := NewBcrypt(c.secretToHash, 5).HashPassword(user.RawPassword(c.passwordToHash))
			require.NoError(t, err)

			h := NewBcrypt(c.secretToCheck, 5)
			require.False(t, h.ValidatePassword(user.RawPassword(c.passwordToCheck), hash))
		})
	}
}

func TestSamePasswordHashesDiffer(t *testing.T) {
	h := NewBcrypt("test", 5)
	first, err := h.HashPassword("secret1")
	require.NoError(t, err)
	second, err := h.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDefaultCost(t *testing.T) {
	require.Equal(t, DefaultCost, NewBcrypt("", 0).cost)
}
