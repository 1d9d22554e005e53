package db

import (
	"context"
	"database/sql"
)

const schemaMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS freezers (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id text NOT NULL,
    name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS freezers_owner_id_idx
ON freezers (owner_id);

CREATE TABLE IF NOT EXISTS food_items (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id text NOT NULL,
    name text NOT NULL,
    description text NOT NULL DEFAULT '',
    freezer_box text NOT NULL DEFAULT '',
    freezer_id text NOT NULL,
    item_type text NOT NULL,
    frozen_date timestamptz NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS food_items_owner_freezer_idx
ON food_items (owner_id, freezer_id);
`

// RunSchemaMigration applies the idempotent baseline schema.
func RunSchemaMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
