package transport

import (
	"errors"
	"net/http"

	"teslo-catalog/internal/middleware"
	"teslo-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FileHandler serves product images from the uploads directory
type FileHandler struct {
	files  service.FileService
	logger *zap.Logger
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(files service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger,
	}
}

// RegisterRoutes registers the static file route
func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/files/product/{filename}", h.GetProductImage)
}

// GetProductImage resolves a product image filename and serves the file
func (h *FileHandler) GetProductImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.files.ResolveProductImage(filename)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}

		h.logger.Error("File lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.ServeFile(w, r, path)
}
