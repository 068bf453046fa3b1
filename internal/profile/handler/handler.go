// Package handler exposes profile reads and demographic updates over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carelink/internal/profile/models"
	"carelink/internal/transport/http/shared"
	id "carelink/pkg/domain"
	"carelink/pkg/requestcontext"
)

// Service answers profile reads and applies demographic updates.
type Service interface {
	Get(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (*models.SeniorProfile, error)
	Update(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, update models.Update) (*models.SeniorProfile, error)
}

// Handler wires profile endpoints to the profile service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a profile handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts profile endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/seniors/{seniorID}", h.HandleGet)
	r.Patch("/seniors/{seniorID}", h.HandleUpdate)
}

// HandleGet handles GET /seniors/{seniorID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))

	profile, err := h.service.Get(ctx, requestcontext.CaregiverID(ctx), seniorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, profile)
}

type updateRequest struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
	Avatar *string `json:"avatar"`
}

// HandleUpdate handles PATCH /seniors/{seniorID}. Absent fields are left
// untouched.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))
	caregiverID := requestcontext.CaregiverID(ctx)

	req, ok := shared.Decode[updateRequest](w, r)
	if !ok {
		return
	}

	profile, err := h.service.Update(ctx, caregiverID, seniorID, models.Update{
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Avatar: req.Avatar,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile updated",
		"request_id", requestcontext.RequestID(ctx),
		"senior_id", seniorID.String(),
		"updated_by", caregiverID.String(),
	)
	shared.WriteJSON(w, http.StatusOK, profile)
}
