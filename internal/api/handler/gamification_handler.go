package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skillarena/internal/app/service"
	"skillarena/internal/common"
	"skillarena/internal/domain/gamification"

	"github.com/go-chi/chi/v5"
)

type GamificationHandler struct {
	gamificationService *service.GamificationService
	logger              *slog.Logger
}

func NewGamificationHandler(gs *service.GamificationService, logger *slog.Logger) *GamificationHandler {
	return &GamificationHandler{gamificationService: gs, logger: logger}
}

// RegisterRoutes expects an authenticated router.
func (h *GamificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/points", h.addPoints)
	r.Post("/achievements/{achievementID}/unlock", h.unlock)
	r.Put("/achievements/{achievementID}/progress", h.progress)
	r.Post("/level-up/dismiss", h.dismissLevelUp)
	r.Post("/notifications/ack", h.ackNotifications)
}

type addPointsRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

func (h *GamificationHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	snap, err := h.gamificationService.Get(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, snap)
}

func (h *GamificationHandler) addPoints(w http.ResponseWriter, r *http.Request) {
	var req addPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Amount <= 0 {
		v := &common.ValidationError{}
		v.Add("amount", "Amount must be a positive number")
		common.RespondWithServiceError(w, h.logger, v)
		return
	}
	h.apply(w, r, gamification.AddPoints{Amount: req.Amount, Reason: req.Reason})
}

func (h *GamificationHandler) unlock(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, gamification.UnlockAchievement{ID: chi.URLParam(r, "achievementID")})
}

func (h *GamificationHandler) progress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Progress == nil {
		v := &common.ValidationError{}
		v.Add("progress", "Progress is required")
		common.RespondWithServiceError(w, h.logger, v)
		return
	}
	h.apply(w, r, gamification.UpdateAchievementProgress{ID: chi.URLParam(r, "achievementID"), Progress: *req.Progress})
}

func (h *GamificationHandler) dismissLevelUp(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, gamification.DismissLevelUp{})
}

func (h *GamificationHandler) ackNotifications(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, gamification.AcknowledgeNotifications{})
}

func (h *GamificationHandler) apply(w http.ResponseWriter, r *http.Request, action gamification.Action) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	snap, err := h.gamificationService.Apply(r.Context(), userID, action)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, snap)
}
