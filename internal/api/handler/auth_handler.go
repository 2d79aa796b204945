package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"skillarena/internal/app/service"
	"skillarena/internal/common"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	sessions    *security.SessionManager
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, sessions *security.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

type signupResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}

	if _, err := h.startSession(w, user); err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, signupResponse{Success: true, User: user})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		common.RespondWithServiceError(w, h.logger, err)
		return
	}

	token, err := h.startSession(w, user)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, loginResponse{Success: true, User: user, Token: token})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logout successful"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User) (string, error) {
	token, expiresAt, err := h.sessions.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", common.Errorf("failed to issue session: %w", err)
	}
	h.sessions.SetCookie(w, token, expiresAt)
	return token, nil
}
