package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS analytics_events (
	id               BIGSERIAL PRIMARY KEY,
	event_name       TEXT        NOT NULL,
	event_time       TIMESTAMPTZ NOT NULL,
	session_id       TEXT,
	request_id       TEXT,
	platform         TEXT        NOT NULL,
	app_version      TEXT        NOT NULL DEFAULT '',
	device_locale    TEXT,
	source_event_key TEXT UNIQUE,
	properties       JSONB       NOT NULL DEFAULT '{}'::jsonb
)`

// Connect opens the Postgres pool, pings it and makes sure the analytics
// table exists.
func Connect(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
