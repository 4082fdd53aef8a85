package app

import (
	"fmt"
	"net/http"
	"pwreset/internal/app/deps"
	"pwreset/internal/app/services"
	confirmpasswordreset "pwreset/internal/http/handlers/password_reset/confirm_password_reset"
	sendpasswordreset "pwreset/internal/http/handlers/password_reset/send_password_reset"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := NewRouter(s, deps.Config.AllowedOrigins, deps.Config.IsTestMode)
	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

func NewRouter(s *services.Services, allowedOrigins []string, isTestMode bool) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(
		http.MethodPost,
		"/password_reset/send",
		sendpasswordreset.New(s.SendPasswordReset, isTestMode),
	)
	authRouter.Method(
		http.MethodPost,
		"/password_reset/confirm",
		confirmpasswordreset.New(s.ConfirmPasswordReset),
	)

	exposedHeaders := []string{}
	if isTestMode {
		exposedHeaders = append(exposedHeaders, sendpasswordreset.TestModeTokenHeader)
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)

	return router
}
