package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/repositories"
)

// DimensionsHandler serves the ordered name lists of the dimension tables.
type DimensionsHandler struct {
	dims   repositories.DimensionRepository
	logger *zap.Logger
}

// NewDimensionsHandler creates a new dimensions handler.
func NewDimensionsHandler(dims repositories.DimensionRepository, logger *zap.Logger) *DimensionsHandler {
	return &DimensionsHandler{dims: dims, logger: logger}
}

// RegisterRoutes registers the dimension list endpoints on the given mux.
func (h *DimensionsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/instructors", h.listWith(h.dims.ListInstructors))
	mux.HandleFunc("GET /api/domains", h.listWith(h.dims.ListDomains))
	mux.HandleFunc("GET /api/classes", h.listWith(h.dims.ListClasses))
}

func (h *DimensionsHandler) listWith(list func(context.Context) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := list(r.Context())
		if err != nil {
			h.logger.Error("failed to list dimension", zap.Error(err))
			ErrorResponse(w, http.StatusInternalServerError, ErrorBody{
				Error: "failed to load list",
			})
			return
		}
		WriteJSON(w, http.StatusOK, names)
	}
}
