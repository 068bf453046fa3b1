// Package handler exposes the permission-gated health record gateway over
// HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carelink/internal/health/models"
	"carelink/internal/transport/http/shared"
	id "carelink/pkg/domain"
	"carelink/pkg/requestcontext"
)

// Gateway fronts the health record store with permission checks.
type Gateway interface {
	Summary(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID) (*models.Summary, error)
	ListRecords(ctx context.Context, requesterID id.CaregiverID, seniorID id.SeniorID, recordType models.RecordType) ([]*models.HealthRecord, error)
	SaveRecord(ctx context.Context, requesterID id.CaregiverID, record *models.HealthRecord) (*models.HealthRecord, error)
}

// Handler wires health endpoints to the gateway.
type Handler struct {
	gateway Gateway
	logger  *slog.Logger
}

// New constructs a health handler.
func New(gateway Gateway, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gateway: gateway, logger: logger}
}

// Register mounts health endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/seniors/{seniorID}/health/summary", h.HandleSummary)
	r.Get("/seniors/{seniorID}/health/records", h.HandleList)
	r.Post("/seniors/{seniorID}/health/records", h.HandleSave)
}

// HandleSummary handles GET /seniors/{seniorID}/health/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))

	summary, err := h.gateway.Summary(ctx, requestcontext.CaregiverID(ctx), seniorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

// HandleList handles GET /seniors/{seniorID}/health/records. The optional
// "type" query parameter filters by record type.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))
	recordType := models.RecordType(r.URL.Query().Get("type"))

	records, err := h.gateway.ListRecords(ctx, requestcontext.CaregiverID(ctx), seniorID, recordType)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*models.HealthRecord{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}

type saveRequest struct {
	Type       models.RecordType `json:"type"`
	Systolic   int               `json:"systolic"`
	Diastolic  int               `json:"diastolic"`
	HeartRate  int               `json:"heart_rate"`
	BloodSugar float64           `json:"blood_sugar"`
	Weight     float64           `json:"weight"`
	Note       string            `json:"note"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// HandleSave handles POST /seniors/{seniorID}/health/records.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seniorID := id.SeniorID(chi.URLParam(r, "seniorID"))
	caregiverID := requestcontext.CaregiverID(ctx)

	req, ok := shared.Decode[saveRequest](w, r)
	if !ok {
		return
	}

	record := &models.HealthRecord{
		SeniorID:   seniorID,
		Type:       req.Type,
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		HeartRate:  req.HeartRate,
		BloodSugar: req.BloodSugar,
		Weight:     req.Weight,
		Note:       req.Note,
		RecordedAt: req.RecordedAt,
	}
	saved, err := h.gateway.SaveRecord(ctx, caregiverID, record)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "health record saved",
		"request_id", requestcontext.RequestID(ctx),
		"senior_id", seniorID.String(),
		"type", string(saved.Type),
		"recorded_by", caregiverID.String(),
	)
	shared.WriteJSON(w, http.StatusCreated, saved)
}
