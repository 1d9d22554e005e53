package freezer

import (
	"context"
	"database/sql"

	"github.com/Ivaan2/studio/internal/db"

	"github.com/google/uuid"
)

// PostgresStore is the database/sql driver for the freezer repository.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f *Freezer) (string, error) {

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO freezers (owner_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		f.OwnerID,
		f.Name,
		f.CreatedAt,
	).Scan(&id)

	if err != nil {
		return "", err
	}

	f.ID = id.String()
	return f.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Freezer, error) {

	// The id column is uuid typed; a malformed id must read as absent,
	// not as a storage failure.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var f Freezer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at
		FROM freezers
		WHERE id = $1
	`, id).Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {

	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM freezers WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner string) ([]*Freezer, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at
		FROM freezers
		WHERE owner_id = $1
		ORDER BY created_at
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	freezers := make([]*Freezer, 0)
	for rows.Next() {
		var f Freezer
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.Name, &f.CreatedAt); err != nil {
			return nil, err
		}
		freezers = append(freezers, &f)
	}
	return freezers, rows.Err()
}
