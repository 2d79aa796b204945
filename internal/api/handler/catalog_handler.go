package handler

import (
	"net/http"

	"skillarena/internal/app/service"
	"skillarena/internal/common"

	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(cs *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contests", h.listContests)       // GET /api/v1/contests?category=design
	r.Get("/freelancers", h.listFreelancers) // GET /api/v1/freelancers?skill=figma
}

func (h *CatalogHandler) listContests(w http.ResponseWriter, r *http.Request) {
	contests := h.catalogService.ListContests(r.Context(), r.URL.Query().Get("category"))
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *CatalogHandler) listFreelancers(w http.ResponseWriter, r *http.Request) {
	freelancers := h.catalogService.ListFreelancers(r.Context(), r.URL.Query().Get("skill"))
	common.RespondWithJSON(w, http.StatusOK, freelancers)
}
