package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sessionlens/sessionlens/pkg/apperrors"
	"github.com/sessionlens/sessionlens/pkg/services"
)

// QueryRequest is the POST /api/query body.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the three-part success payload: row data, summary, and
// the executed SQL (returned for transparency, not as a contract).
type QueryResponse struct {
	Data    []map[string]any `json:"data"`
	Summary string           `json:"summary"`
	SQL     string           `json:"sql"`
}

// QueryHandler handles natural-language query requests.
type QueryHandler struct {
	ask    *services.AskService
	logger *zap.Logger
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(ask *services.AskService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{ask: ask, logger: logger}
}

// RegisterRoutes registers the query endpoint on the given mux.
func (h *QueryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/query", h.Ask)
}

// Ask runs the generate-validate-execute-summarize pipeline for one question.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, ErrorBody{
			Error:      "invalid request body",
			Suggestion: `Send JSON of the form {"query": "..."}.`,
		})
		return
	}

	result, err := h.ask.Ask(r.Context(), req.Query)
	if err != nil {
		pe := apperrors.AsPipelineError(err)
		h.logger.Warn("ask pipeline failed",
			zap.String("category", string(pe.Category)),
			zap.Error(err))

		ErrorResponse(w, statusForCategory(pe.Category), ErrorBody{
			Error:      pe.Message,
			Details:    pe.Detail,
			Suggestion: pe.Suggestion,
		})
		return
	}

	WriteJSON(w, http.StatusOK, QueryResponse{
		Data:    result.Rows,
		Summary: result.Summary,
		SQL:     result.SQL,
	})
}

// statusForCategory maps pipeline failure categories to HTTP status codes.
// Transient generation unavailability is reported as 503 so callers know to
// retry later.
func statusForCategory(category apperrors.Category) int {
	switch category {
	case apperrors.CategoryInvalidInput:
		return http.StatusBadRequest
	case apperrors.CategoryLLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
