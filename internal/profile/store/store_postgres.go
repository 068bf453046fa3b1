package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"carelink/internal/profile/models"
	id "carelink/pkg/domain"
	"carelink/pkg/identity"
	"carelink/pkg/platform/sentinel"
)

// Postgres persists senior profiles in PostgreSQL.
type Postgres struct {
	db    *sql.DB
	idgen IDGenerator
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithPostgresIDGenerator overrides identity generation, for tests.
func WithPostgresIDGenerator(gen IDGenerator) PostgresOption {
	return func(s *Postgres) {
		if gen != nil {
			s.idgen = gen
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, idgen: identity.Generate}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Postgres) Create(ctx context.Context, profile *models.SeniorProfile) error {
	if profile.ID.IsEmpty() {
		profile.ID = s.idgen()
	}
	query := `
		INSERT INTO senior_profiles
			(id, account_id, name, age, gender, avatar, creator_id, registration_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.ID.String(),
		profile.AccountID.String(),
		profile.Name,
		profile.Age,
		profile.Gender,
		profile.Avatar,
		profile.CreatorID.String(),
		string(profile.RegistrationType),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("profile %s already exists: %w", profile.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, seniorID id.SeniorID) (*models.SeniorProfile, error) {
	query := `
		SELECT id, account_id, name, age, gender, avatar, creator_id, registration_type, created_at, updated_at
		FROM senior_profiles
		WHERE id = $1
	`
	return scanProfile(s.db.QueryRowContext(ctx, query, seniorID.String()))
}

func (s *Postgres) Update(ctx context.Context, profile *models.SeniorProfile) error {
	query := `
		UPDATE senior_profiles
		SET account_id = $2, name = $3, age = $4, gender = $5, avatar = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		profile.ID.String(),
		profile.AccountID.String(),
		profile.Name,
		profile.Age,
		profile.Gender,
		profile.Avatar,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res, profile.ID)
}

func (s *Postgres) Delete(ctx context.Context, seniorID id.SeniorID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM senior_profiles WHERE id = $1`, seniorID.String())
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return requireRow(res, seniorID)
}

func (s *Postgres) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM senior_profiles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

func requireRow(res sql.Result, seniorID id.SeniorID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %s: %w", seniorID, sentinel.ErrNotFound)
	}
	return nil
}

func scanProfile(row *sql.Row) (*models.SeniorProfile, error) {
	var p models.SeniorProfile
	var accountID, creatorID, registrationType string
	err := row.Scan(
		(*string)(&p.ID),
		&accountID,
		&p.Name,
		&p.Age,
		&p.Gender,
		&p.Avatar,
		&creatorID,
		&registrationType,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.AccountID = id.AccountID(accountID)
	p.CreatorID = id.CaregiverID(creatorID)
	p.RegistrationType = models.RegistrationType(registrationType)
	return &p, nil
}
