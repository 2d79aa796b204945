package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skillarena/internal/api/middleware"
	"skillarena/internal/app/service"
	"skillarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	logger         *slog.Logger
}

func NewProfileHandler(ps *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: ps, logger: logger}
}

// RegisterRoutes expects an authenticated router.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.getMe)
	r.Put("/me", h.updateMe)
	r.Patch("/profile", h.patchProfile)
}

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
	}
	return userID, ok
}

func (h *ProfileHandler) getMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	me, err := h.profileService.GetMe(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, me)
}

func (h *ProfileHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req service.UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	me, err := h.profileService.UpdateMe(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, me)
}

func (h *ProfileHandler) patchProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req service.ProfilePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	me, err := h.profileService.UpdateMe(r.Context(), userID, req.ToUpdate())
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, me)
}
