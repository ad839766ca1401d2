package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"brandpost/internal/domain"
)

type ProfileStore struct {
	db *sqlx.DB
}

func NewProfileStore(db *sqlx.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (name, headline, about)
		VALUES ($1, $2, $3)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)
	err := exec.QueryRowxContext(ctx, query,
		profile.Name,
		profile.Headline,
		profile.About,
	).Scan(&profile.ID)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetFirst returns the earliest created profile.
func (s *ProfileStore) GetFirst(ctx context.Context) (*domain.Profile, error) {
	query := `SELECT id, name, headline, about FROM profiles ORDER BY id ASC LIMIT 1`

	var profile domain.Profile
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &profile, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileStore) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	query := `SELECT id, name, headline, about FROM profiles WHERE id = $1`

	var profile domain.Profile
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &profile, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
