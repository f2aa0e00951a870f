package server

import (
	"context"
	"errors"
	"net/http"

	"trackcatalog/core/catalog"
	"trackcatalog/logger"
	"trackcatalog/model"
)

// TrackGroupService is what the handler needs from the catalog.
type TrackGroupService interface {
	ListTrackGroups(ctx context.Context) ([]model.TrackGroupSummary, error)
	CreateTrackGroup(ctx context.Context) error
}

// TrackGroupHandler serves /v1/trackGroups.
type TrackGroupHandler struct {
	service TrackGroupService
}

// NewTrackGroupHandler creates a handler backed by service.
func NewTrackGroupHandler(service TrackGroupService) *TrackGroupHandler {
	return &TrackGroupHandler{service: service}
}

type listTrackGroupsResponse struct {
	Results []model.TrackGroupSummary `json:"results"`
}

// List handles GET /v1/trackGroups.
func (h *TrackGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.ListTrackGroups(r.Context())
	if err != nil {
		logger.Error("Failed to list track groups",
			logger.ErrorField(err),
			logger.String("requestId", RequestIDFromContext(r.Context())),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if results == nil {
		results = []model.TrackGroupSummary{}
	}
	writeJSON(w, http.StatusOK, listTrackGroupsResponse{Results: results})
}

// Create handles POST /v1/trackGroups.
func (h *TrackGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	err := h.service.CreateTrackGroup(r.Context())
	switch {
	case errors.Is(err, catalog.ErrNotImplemented):
		writeError(w, r, http.StatusNotImplemented, "creating track groups is not supported yet")
	case err != nil:
		logger.Error("Failed to create track group", logger.ErrorField(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}
