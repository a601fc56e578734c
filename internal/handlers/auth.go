package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitroom/splitroom/internal/apperr"
	"github.com/splitroom/splitroom/internal/auth"
	"github.com/splitroom/splitroom/internal/middleware"
	"github.com/splitroom/splitroom/internal/service"
)

// AuthHandler serves registration, login/logout, and current-user routes.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         *service.UserService
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users *service.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		secureCookies: secureCookies,
	}
}

// Routes mounts the auth endpoints. requireAuth guards the session routes.
func (h *AuthHandler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/current", h.current)
		r.Get("/validate", h.validate)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, apperr.Validation("username and password are required"))
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, classifyAuthErr(err))
		return
	}

	respond(w, http.StatusCreated, "user registered successfully", map[string]string{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, apperr.Validation("username and password are required"))
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, apperr.Unauthenticated("username or password is incorrect"))
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		WriteError(w, apperr.Internal("failed to generate token", err))
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.jwtManager.TokenDuration().Seconds())))
	respond(w, http.StatusOK, "login successful", map[string]string{
		"id":       user.ID,
		"username": user.Username,
		"token":    token,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	// Stateless JWTs: clearing the cookie ends the browser session; API
	// clients discard the token themselves.
	http.SetCookie(w, h.sessionCookie("", -1))
	respond(w, http.StatusOK, "logged out successfully", nil)
}

func (h *AuthHandler) current(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Current(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	respond(w, http.StatusOK, "current user retrieved successfully", user)
}

func (h *AuthHandler) validate(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "user authenticated", map[string]string{
		"id":       middleware.GetUserID(r.Context()),
		"username": middleware.GetUsername(r.Context()),
	})
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		// Cross-site frontends need SameSite=None, which requires Secure.
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	}
}

// classifyAuthErr maps authenticator failures onto response kinds.
func classifyAuthErr(err error) error {
	switch {
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrUsernameTaken):
		return apperr.Validation(err.Error())
	default:
		return apperr.Internal("registration failed", err)
	}
}
