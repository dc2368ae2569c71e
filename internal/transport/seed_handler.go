package transport

import (
	"net/http"

	"teslo-catalog/internal/middleware"
	"teslo-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SeedHandler exposes the destructive reseed operation over HTTP. Intended
// for test/demo environments only.
type SeedHandler struct {
	seed   service.SeedService
	logger *zap.Logger
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(seed service.SeedService, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{
		seed:   seed,
		logger: logger,
	}
}

// RegisterRoutes registers the seed route
func (h *SeedHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/seed", h.Run)
}

// Run executes the reseed and reports the outcome
func (h *SeedHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.seed.Run(r.Context()); err != nil {
		h.logger.Error("Seed failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "seed failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"status": "Seed executed successfully",
	})
}
