// Package handler exposes the provisioning saga over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/provision/models"
	"carelink/internal/transport/http/shared"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/requestcontext"
)

// Coordinator drives the provisioning and deletion sagas.
type Coordinator interface {
	CreateSeniorIdentity(ctx context.Context, req models.CreateSeniorRequest) (*models.ProvisionedSenior, error)
	DeleteSeniorIdentity(ctx context.Context, seniorID id.SeniorID, requesterID id.CaregiverID) (*models.DeletionReport, error)
}

// TicketRedeemer resolves one-time login tickets.
type TicketRedeemer interface {
	Redeem(ctx context.Context, ticketID string) (string, error)
}

// Handler wires provisioning endpoints to the coordinator.
type Handler struct {
	coordinator Coordinator
	tickets     TicketRedeemer
	logger      *slog.Logger
}

// New constructs a provisioning handler. tickets may be nil when ticket
// redemption is not offered.
func New(coordinator Coordinator, tickets TicketRedeemer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{coordinator: coordinator, tickets: tickets, logger: logger}
}

// Register mounts the authenticated provisioning endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/seniors", h.HandleCreate)
	r.Delete("/seniors/{seniorID}", h.HandleDelete)
}

// RegisterPublic mounts the unauthenticated ticket redemption endpoint. The
// ticket itself is the credential; it is single-use and short-lived.
func (h *Handler) RegisterPublic(r chi.Router) {
	if h.tickets != nil {
		r.Post("/login/redeem", h.HandleRedeem)
	}
}

type createRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
	Label    string `json:"label"`
	Nickname string `json:"nickname"`
}

// HandleCreate handles POST /seniors.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	caregiverID := requestcontext.CaregiverID(ctx)

	req, ok := shared.Decode[createRequest](w, r)
	if !ok {
		return
	}

	result, err := h.coordinator.CreateSeniorIdentity(ctx, models.CreateSeniorRequest{
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Avatar:    req.Avatar,
		CreatorID: caregiverID,
		Password:  req.Password,
		Label:     req.Label,
		Nickname:  req.Nickname,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "senior provisioning failed",
			"request_id", requestcontext.RequestID(ctx),
			"creator_id", caregiverID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "senior provisioned",
		"request_id", requestcontext.RequestID(ctx),
		"senior_id", result.Profile.ID.String(),
		"creator_id", caregiverID.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	shared.WriteJSON(w, http.StatusCreated, result)
}

// HandleDelete handles DELETE /seniors/{seniorID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caregiverID := requestcontext.CaregiverID(ctx)
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))

	report, err := h.coordinator.DeleteSeniorIdentity(ctx, seniorID, caregiverID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "senior deleted",
		"request_id", requestcontext.RequestID(ctx),
		"senior_id", seniorID.String(),
		"records_deleted", report.RecordsDeleted,
		"relations_deleted", report.RelationsDeleted,
		"profile_deleted", report.ProfileDeleted,
		"account_revoked", report.AccountRevoked,
	)
	shared.WriteJSON(w, http.StatusOK, report)
}

type redeemRequest struct {
	TicketID string `json:"ticket_id"`
}

type redeemResponse struct {
	Payload string `json:"payload"`
}

// HandleRedeem handles POST /login/redeem. The response carries the encoded
// login payload exactly once; subsequent redemptions of the same ticket 404.
func (h *Handler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := shared.Decode[redeemRequest](w, r)
	if !ok {
		return
	}
	if req.TicketID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "ticket_id is required"))
		return
	}

	payload, err := h.tickets.Redeem(ctx, req.TicketID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, redeemResponse{Payload: payload})
}
