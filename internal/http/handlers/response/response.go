package response

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// RenderValidationError renders err as is, ozzo-validation errors marshal to a field map.
func RenderValidationError(rw http.ResponseWriter, err error) {
	if _, ok := err.(json.Marshaler); ok {
		Render(rw, err, http.StatusBadRequest)
		return
	}
	RenderError(rw, err.Error(), http.StatusBadRequest)
}

func RenderGone(rw http.ResponseWriter, msg string) {
	RenderError(rw, msg, http.StatusGone)
}

func RenderUnauthorized(rw http.ResponseWriter, msg string) {
	RenderError(rw, msg, http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderNoContent(rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusNoContent)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, errorResponse{Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
