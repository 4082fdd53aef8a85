package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validEnviron() map[string]string {
	return map[string]string{
		"SECRET":                      "test-secret",
		"PASSWORD_RESET_TOKEN_SECRET": "test-token-secret",
		"POSTGRESQL_URL":              "postgres://localhost:5432/pwreset",
		"CLIENT_URL":                  "https://client.test",
		"EMAIL_SENDER":                "no-reply@pwreset.test",
		"EMAIL_TRANSPORT":             "smtp",
		"SMTP_HOST":                   "localhost",
	}
}

func TestDefaults(t *testing.T) {
	config, err := LoadFrom(validEnviron())
	require.NoError(t, err)

	require.Equal(t, uint16(9090), config.Port)
	require.Equal(t, "test-secret", config.Secret)
	require.Equal(t, "test-token-secret", config.PasswordResetTokenSecret)
	require.False(t, config.IsTestMode)
	require.Equal(t, 12, config.BcryptHasherCost)
	require.Equal(t, 24*time.Hour, config.PasswordResetValidDuration)
	require.Equal(t, "pw-reset", config.PasswordResetTemplate)
	require.Equal(t, 587, config.SMTPPort)
	require.Equal(t, []string{"*"}, config.AllowedOrigins)
	require.Equal(t, EmailTransportSMTP, config.EmailTransport)
}

func TestPasswordResetURL(t *testing.T) {
	cases := []struct {
		clientURL string
		path      string
		expected  string
	}{
		{clientURL: "https://client.test", path: "", expected: "https://client.test/password-reset"},
		{clientURL: "https://client.test/", path: "", expected: "https://client.test/password-reset"},
		{clientURL: "https://client.test/app", path: "reset", expected: "https://client.test/app/reset"},
	}
	for _, testcase := range cases {
		t.Run(testcase.clientURL+testcase.path, func(t *testing.T) {
			environ := validEnviron()
			environ["CLIENT_URL"] = testcase.clientURL
			if testcase.path != "" {
				environ["PASSWORD_RESET_PATH"] = testcase.path
			}
			config, err := LoadFrom(environ)
			require.NoError(t, err)

			resetURL := config.PasswordResetURL()
			require.Equal(t, testcase.expected, resetURL.String())
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	cases := []struct {
		id     string
		modify func(environ map[string]string)
	}{
		{id: "no secret", modify: func(environ map[string]string) { delete(environ, "SECRET") }},
		{id: "no token secret", modify: func(environ map[string]string) { delete(environ, "PASSWORD_RESET_TOKEN_SECRET") }},
		{id: "shared secret", modify: func(environ map[string]string) { environ["PASSWORD_RESET_TOKEN_SECRET"] = "test-secret" }},
		{id: "no db", modify: func(environ map[string]string) { delete(environ, "POSTGRESQL_URL") }},
		{id: "no client url", modify: func(environ map[string]string) { delete(environ, "CLIENT_URL") }},
		{id: "relative client url", modify: func(environ map[string]string) { environ["CLIENT_URL"] = "/client" }},
		{id: "low bcrypt cost", modify: func(environ map[string]string) { environ["BCRYPT_HASHER_COST"] = "2" }},
		{id: "bad duration", modify: func(environ map[string]string) { environ["PASSWORD_RESET_VALID_DURATION"] = "soon" }},
		{id: "zero duration", modify: func(environ map[string]string) { environ["PASSWORD_RESET_VALID_DURATION"] = "0s" }},
		{id: "unknown transport", modify: func(environ map[string]string) { environ["EMAIL_TRANSPORT"] = "pigeon" }},
		{id: "smtp without host", modify: func(environ map[string]string) { delete(environ, "SMTP_HOST") }},
		{id: "ses without credentials", modify: func(environ map[string]string) { environ["EMAIL_TRANSPORT"] = "ses" }},
		{id: "sendgrid without key", modify: func(environ map[string]string) { environ["EMAIL_TRANSPORT"] = "sendgrid" }},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			environ := validEnviron()
			testcase.modify(environ)

			_, err := LoadFrom(environ)
			require.Error(t, err)
		})
	}
}
