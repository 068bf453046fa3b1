// Package handler exposes the relation lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carelink/internal/relation/models"
	"carelink/internal/transport/http/shared"
	id "carelink/pkg/domain"
	"carelink/pkg/requestcontext"
)

// Service drives the relation lifecycle.
type Service interface {
	Request(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID, label, nickname string) (*models.CaregiverRelation, error)
	Approve(ctx context.Context, relationID id.RelationID, deciderID id.CaregiverID, granted models.Permissions) (*models.CaregiverRelation, error)
	Reject(ctx context.Context, relationID id.RelationID, deciderID id.CaregiverID, reason string) (*models.CaregiverRelation, error)
	UpdatePermissions(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID, perms models.Permissions) (*models.CaregiverRelation, error)
	UpdateNickname(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID, nickname string) (*models.CaregiverRelation, error)
	Delete(ctx context.Context, relationID id.RelationID, requesterID id.CaregiverID) error
	ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.CaregiverRelation, error)
	ListByCaregiver(ctx context.Context, caregiverID id.CaregiverID) ([]*models.CaregiverRelation, error)
}

// Handler wires relation endpoints to the relation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a relation handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts relation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/relations", h.HandleRequest)
	r.Get("/relations", h.HandleListMine)
	r.Post("/relations/{relationID}/approve", h.HandleApprove)
	r.Post("/relations/{relationID}/reject", h.HandleReject)
	r.Put("/relations/{relationID}/permissions", h.HandlePermissions)
	r.Put("/relations/{relationID}/nickname", h.HandleNickname)
	r.Delete("/relations/{relationID}", h.HandleDelete)
	r.Get("/seniors/{seniorID}/relations", h.HandleListBySenior)
}

type requestBody struct {
	SeniorID string `json:"senior_id"`
	Label    string `json:"label"`
	Nickname string `json:"nickname"`
}

// HandleRequest handles POST /relations.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caregiverID := requestcontext.CaregiverID(ctx)

	req, ok := shared.Decode[requestBody](w, r)
	if !ok {
		return
	}

	relation, err := h.service.Request(ctx, caregiverID, id.SeniorID(req.SeniorID), req.Label, req.Nickname)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "relation requested",
		"request_id", requestcontext.RequestID(ctx),
		"relation_id", relation.ID.String(),
		"caregiver_id", caregiverID.String(),
		"senior_id", req.SeniorID,
	)
	shared.WriteJSON(w, http.StatusCreated, relation)
}

type approveBody struct {
	Permissions models.Permissions `json:"permissions"`
}

// HandleApprove handles POST /relations/{relationID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	relationID := id.RelationID(chi.URLParam(r, "relationID"))

	req, ok := shared.Decode[approveBody](w, r)
	if !ok {
		return
	}

	relation, err := h.service.Approve(ctx, relationID, requestcontext.CaregiverID(ctx), req.Permissions)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relation)
}

type rejectBody struct {
	Reason string `json:"reason"`
}

// HandleReject handles POST /relations/{relationID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	relationID := id.RelationID(chi.URLParam(r, "relationID"))

	req, ok := shared.Decode[rejectBody](w, r)
	if !ok {
		return
	}

	relation, err := h.service.Reject(ctx, relationID, requestcontext.CaregiverID(ctx), req.Reason)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relation)
}

// HandlePermissions handles PUT /relations/{relationID}/permissions.
func (h *Handler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	relationID := id.RelationID(chi.URLParam(r, "relationID"))

	req, ok := shared.Decode[approveBody](w, r)
	if !ok {
		return
	}

	relation, err := h.service.UpdatePermissions(ctx, relationID, requestcontext.CaregiverID(ctx), req.Permissions)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relation)
}

type nicknameBody struct {
	Nickname string `json:"nickname"`
}

// HandleNickname handles PUT /relations/{relationID}/nickname.
func (h *Handler) HandleNickname(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	relationID := id.RelationID(chi.URLParam(r, "relationID"))

	req, ok := shared.Decode[nicknameBody](w, r)
	if !ok {
		return
	}

	relation, err := h.service.UpdateNickname(ctx, relationID, requestcontext.CaregiverID(ctx), req.Nickname)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relation)
}

// HandleDelete handles DELETE /relations/{relationID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	relationID := id.RelationID(chi.URLParam(r, "relationID"))

	if err := h.service.Delete(ctx, relationID, requestcontext.CaregiverID(ctx)); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListMine handles GET /relations for the authenticated caregiver.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	relations, err := h.service.ListByCaregiver(ctx, requestcontext.CaregiverID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relations)
}

// HandleListBySenior handles GET /seniors/{seniorID}/relations.
func (h *Handler) HandleListBySenior(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))

	relations, err := h.service.ListBySenior(ctx, seniorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, relations)
}
