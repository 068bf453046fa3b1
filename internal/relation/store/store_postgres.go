package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"carelink/internal/relation/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// Postgres persists relations in PostgreSQL. The unique index on
// (caregiver_id, senior_id) enforces at-most-one-relation-per-pair; plain
// UPDATE statements give last-write-wins on concurrent decisions.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed relation store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const relationColumns = `
	id, caregiver_id, senior_id, status, label, nickname,
	view_health, edit_health, view_reminders, edit_reminders, approve_requests,
	password_copy, approver_id, created_at, approved_at
`

func (s *Postgres) Create(ctx context.Context, relation *models.CaregiverRelation) error {
	query := `
		INSERT INTO caregiver_relations (` + relationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(ctx, query,
		relation.ID.String(),
		relation.CaregiverID.String(),
		relation.SeniorID.String(),
		string(relation.Status),
		relation.Label,
		relation.Nickname,
		relation.Permissions.ViewHealth,
		relation.Permissions.EditHealth,
		relation.Permissions.ViewReminders,
		relation.Permissions.EditReminders,
		relation.Permissions.ApproveRequests,
		relation.PasswordCopy,
		relation.ApproverID.String(),
		relation.CreatedAt,
		nullTime(relation.ApprovedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("relation for pair (%s, %s) already exists: %w",
				relation.CaregiverID, relation.SeniorID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create relation: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, relationID id.RelationID) (*models.CaregiverRelation, error) {
	query := `SELECT ` + relationColumns + ` FROM caregiver_relations WHERE id = $1`
	return scanRelation(s.db.QueryRowContext(ctx, query, relationID.String()))
}

func (s *Postgres) FindByPair(ctx context.Context, caregiverID id.CaregiverID, seniorID id.SeniorID) (*models.CaregiverRelation, error) {
	query := `SELECT ` + relationColumns + ` FROM caregiver_relations WHERE caregiver_id = $1 AND senior_id = $2`
	return scanRelation(s.db.QueryRowContext(ctx, query, caregiverID.String(), seniorID.String()))
}

func (s *Postgres) ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.CaregiverRelation, error) {
	query := `SELECT ` + relationColumns + ` FROM caregiver_relations WHERE senior_id = $1 ORDER BY created_at, id`
	return s.list(ctx, query, seniorID.String())
}

func (s *Postgres) ListByCaregiver(ctx context.Context, caregiverID id.CaregiverID) ([]*models.CaregiverRelation, error) {
	query := `SELECT ` + relationColumns + ` FROM caregiver_relations WHERE caregiver_id = $1 ORDER BY created_at, id`
	return s.list(ctx, query, caregiverID.String())
}

func (s *Postgres) Update(ctx context.Context, relation *models.CaregiverRelation) error {
	query := `
		UPDATE caregiver_relations
		SET status = $2, label = $3, nickname = $4,
			view_health = $5, edit_health = $6, view_reminders = $7,
			edit_reminders = $8, approve_requests = $9,
			approver_id = $10, approved_at = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		relation.ID.String(),
		string(relation.Status),
		relation.Label,
		relation.Nickname,
		relation.Permissions.ViewHealth,
		relation.Permissions.EditHealth,
		relation.Permissions.ViewReminders,
		relation.Permissions.EditReminders,
		relation.Permissions.ApproveRequests,
		relation.ApproverID.String(),
		nullTime(relation.ApprovedAt),
	)
	if err != nil {
		return fmt.Errorf("update relation: %w", err)
	}
	return requireRelationRow(res, relation.ID)
}

func (s *Postgres) Delete(ctx context.Context, relationID id.RelationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM caregiver_relations WHERE id = $1`, relationID.String())
	if err != nil {
		return fmt.Errorf("delete relation: %w", err)
	}
	return requireRelationRow(res, relationID)
}

func requireRelationRow(res sql.Result, relationID id.RelationID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("relation %s: %w", relationID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) DeleteBySenior(ctx context.Context, seniorID id.SeniorID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM caregiver_relations WHERE senior_id = $1`, seniorID.String())
	if err != nil {
		return 0, fmt.Errorf("delete relations by senior: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *Postgres) list(ctx context.Context, query string, arg string) ([]*models.CaregiverRelation, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	var out []*models.CaregiverRelation
	for rows.Next() {
		relation, err := scanRelationRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, relation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelation(row *sql.Row) (*models.CaregiverRelation, error) {
	relation, err := scanRelationRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("relation: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return relation, nil
}

func scanRelationRow(row rowScanner) (*models.CaregiverRelation, error) {
	var r models.CaregiverRelation
	var status string
	var approvedAt sql.NullTime
	err := row.Scan(
		(*string)(&r.ID),
		(*string)(&r.CaregiverID),
		(*string)(&r.SeniorID),
		&status,
		&r.Label,
		&r.Nickname,
		&r.Permissions.ViewHealth,
		&r.Permissions.EditHealth,
		&r.Permissions.ViewReminders,
		&r.Permissions.EditReminders,
		&r.Permissions.ApproveRequests,
		&r.PasswordCopy,
		(*string)(&r.ApproverID),
		&r.CreatedAt,
		&approvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan relation: %w", err)
	}
	r.Status = models.Status(status)
	if approvedAt.Valid {
		r.ApprovedAt = approvedAt.Time
	}
	return &r, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
