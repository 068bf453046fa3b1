package audit

import (
	"context"
	"log/slog"
)

// SlogPublisher writes audit events to a structured logger. It is the
// default sink for single-instance deployments and tests.
type SlogPublisher struct {
	logger *slog.Logger
}

func NewSlogPublisher(logger *slog.Logger) *SlogPublisher {
	return &SlogPublisher{logger: logger}
}

func (p *SlogPublisher) Emit(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "audit",
		"category", string(event.Category),
		"action", string(event.Action),
		"actor_id", event.ActorID.String(),
		"senior_id", event.SeniorID.String(),
		"relation_id", event.RelationID.String(),
		"reason", event.Reason,
		"request_id", event.RequestID,
	)
	return nil
}
