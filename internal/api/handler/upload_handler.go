package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"skillarena/internal/app/service"
	"skillarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	uploadService *service.UploadService
	logger        *slog.Logger
}

func NewUploadHandler(us *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploadService: us, logger: logger}
}

// RegisterRoutes expects an authenticated router.
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signature", h.sign)
}

func (h *UploadHandler) sign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// An empty body means "use the defaults".
	var req service.UploadSignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sig, err := h.uploadService.Sign(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, h.logger, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sig)
}
