package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"carelink/internal/health/models"
	id "carelink/pkg/domain"
	"carelink/pkg/platform/sentinel"
)

// Postgres persists health records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed health record store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const recordColumns = `
	id, senior_id, type, systolic, diastolic, heart_rate, blood_sugar,
	weight, note, recorded_by, recorded_at, created_at
`

func (s *Postgres) Create(ctx context.Context, record *models.HealthRecord) error {
	if record.ID.IsEmpty() {
		record.ID = id.RecordID(uuid.NewString())
	}
	query := `
		INSERT INTO health_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.SeniorID.String(),
		string(record.Type),
		record.Systolic,
		record.Diastolic,
		record.HeartRate,
		record.BloodSugar,
		record.Weight,
		record.Note,
		record.RecordedBy.String(),
		record.RecordedAt,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create health record: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, recordID id.RecordID) (*models.HealthRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM health_records WHERE id = $1`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, recordID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("health record %s: %w", recordID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return record, nil
}

func (s *Postgres) ListBySenior(ctx context.Context, seniorID id.SeniorID) ([]*models.HealthRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM health_records WHERE senior_id = $1 ORDER BY recorded_at DESC`
	return s.list(ctx, query, seniorID.String())
}

func (s *Postgres) ListBySeniorAndType(ctx context.Context, seniorID id.SeniorID, recordType models.RecordType) ([]*models.HealthRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM health_records WHERE senior_id = $1 AND type = $2 ORDER BY recorded_at DESC`
	return s.list(ctx, query, seniorID.String(), string(recordType))
}

func (s *Postgres) LatestBySeniorAndType(ctx context.Context, seniorID id.SeniorID, recordType models.RecordType) (*models.HealthRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM health_records
		WHERE senior_id = $1 AND type = $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, seniorID.String(), string(recordType)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s record for %s: %w", recordType, seniorID, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return record, nil
}

func (s *Postgres) DeleteBySenior(ctx context.Context, seniorID id.SeniorID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM health_records WHERE senior_id = $1`, seniorID.String())
	if err != nil {
		return 0, fmt.Errorf("delete health records by senior: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

func (s *Postgres) list(ctx context.Context, query string, args ...any) ([]*models.HealthRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer rows.Close()

	var out []*models.HealthRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.HealthRecord, error) {
	var r models.HealthRecord
	var recordType string
	err := row.Scan(
		(*string)(&r.ID),
		(*string)(&r.SeniorID),
		&recordType,
		&r.Systolic,
		&r.Diastolic,
		&r.HeartRate,
		&r.BloodSugar,
		&r.Weight,
		&r.Note,
		(*string)(&r.RecordedBy),
		&r.RecordedAt,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan health record: %w", err)
	}
	r.Type = models.RecordType(recordType)
	return &r, nil
}
