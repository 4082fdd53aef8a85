package confirmpasswordreset

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "pwreset/internal/core/domain/errors"
	"pwreset/internal/core/domain/user"
	"pwreset/internal/core/services"
	service "pwreset/internal/core/services/confirm_password_reset"
	"pwreset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

const maxTokenLength = 1024

var (
	errMissingToken = errors.New("please supply confirmation code")
	errInvalidToken = errors.New("invalid confirmation code")
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

// Input keeps the raw token so a missing value and a value of the wrong type
// can be told apart.
type Input struct {
	ResetToken json.RawMessage `json:"resetToken"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	err := e.Decode(i)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Token returns the token string or errMissingToken / errInvalidToken.
func (i Input) Token() (user.PasswordResetToken, error) {
	raw := bytes.TrimSpace(i.ResetToken)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errMissingToken
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", errInvalidToken
	}
	err := validation.Validate(token, validation.Required, validation.Length(0, maxTokenLength))
	if err != nil {
		return "", errInvalidToken
	}
	return user.PasswordResetToken(token), nil
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	token, err := input.Token()
	if err != nil {
		response.RenderValidationError(rw, err)
		return
	}

	_, err = h.service.Run(r.Context(), service.Input{Token: token})
	if errors.Is(err, user.ErrInvalidPasswordResetToken) {
		response.RenderError(rw, "invalid token", http.StatusBadRequest)
		return
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderUnauthorized(rw, "confirmation code expired")
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.RenderNoContent(rw)
}
