package handler

import (
	"net/http"
	"time"

	"github.com/go-questionnaire-nosql/internal/application/user"
	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/pkg/validate"
	"github.com/go-questionnaire-nosql/internal/transport/http/httperr"
	"github.com/go-questionnaire-nosql/internal/transport/http/middleware"
)

// CookieConfig describes the auth cookie.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// AuthHandler handles registration, login, logout and identity endpoints.
type AuthHandler struct {
	svc    user.Service
	cookie CookieConfig
}

func NewAuthHandler(svc user.Service, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		httperr.Write(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, err)
		return
	}
	u, token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	h.setCookie(w, token)
	writeJSON(w, http.StatusCreated, AuthEnvelope{Message: "User registered successfully", User: u, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(w, r, &req); err != nil {
		httperr.Write(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, err)
		return
	}
	u, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	h.setCookie(w, token)
	writeJSON(w, http.StatusOK, AuthEnvelope{Message: "Login successful", User: u, Token: token})
}

// Logout clears the cookie. Tokens are stateless, so there is nothing to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logout successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u})
}

// Verify never fails on a bad credential; it reports whether one resolved.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, VerifyEnvelope{Valid: ok, User: u})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
