package item

import (
	"context"
	"database/sql"

	"github.com/Ivaan2/studio/internal/db"

	"github.com/google/uuid"
)

// PostgresStore is the database/sql driver for the item repository.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, it *FoodItem) (string, error) {

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO food_items
			(owner_id, name, description, freezer_box, freezer_id, item_type, frozen_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		it.OwnerID,
		it.Name,
		it.Description,
		it.FreezerBox,
		it.FreezerID,
		it.ItemType,
		it.FrozenDate,
		it.CreatedAt,
	).Scan(&id)

	if err != nil {
		return "", err
	}

	it.ID = id.String()
	return it.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*FoodItem, error) {

	// The id column is uuid typed; a malformed id would fail the WHERE
	// comparison with a syntax error, not ErrNoRows. Treat it as absent,
	// same as the Redis driver does.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var it FoodItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, freezer_box, freezer_id, item_type, frozen_date, created_at
		FROM food_items
		WHERE id = $1
	`, id).Scan(
		&it.ID,
		&it.OwnerID,
		&it.Name,
		&it.Description,
		&it.FreezerBox,
		&it.FreezerID,
		&it.ItemType,
		&it.FrozenDate,
		&it.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (s *PostgresStore) Update(ctx context.Context, it *FoodItem) error {

	if _, err := uuid.Parse(it.ID); err != nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE food_items
		SET name = $2,
		    description = $3,
		    freezer_box = $4,
		    freezer_id = $5,
		    item_type = $6,
		    frozen_date = $7
		WHERE id = $1
	`,
		it.ID,
		it.Name,
		it.Description,
		it.FreezerBox,
		it.FreezerID,
		it.ItemType,
		it.FrozenDate,
	)
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

func (s *PostgresStore) Delete(ctx context.Context, id string) error {

	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM food_items WHERE id = $1
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

func (s *PostgresStore) ListByFreezer(
	ctx context.Context,
	owner string,
	freezerID string,
) ([]*FoodItem, error) {

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, description, freezer_box, freezer_id, item_type, frozen_date, created_at
		FROM food_items
		WHERE owner_id = $1
		  AND freezer_id = $2
		ORDER BY created_at
	`, owner, freezerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*FoodItem, 0)
	for rows.Next() {
		var it FoodItem
		if err := rows.Scan(
			&it.ID,
			&it.OwnerID,
			&it.Name,
			&it.Description,
			&it.FreezerBox,
			&it.FreezerID,
			&it.ItemType,
			&it.FrozenDate,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
