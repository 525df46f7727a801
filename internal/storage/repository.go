package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"showroom/internal/core"
	applog "showroom/internal/log"
	"showroom/internal/session"

	_ "modernc.org/sqlite"
)

var _ session.Store = (*SQLiteRepository)(nil)

// SQLiteRepository is the durable edit-session backend, for admins who
// want drafts to survive a restart. The remote API stays the only
// authority for the record itself; only the local draft lives here.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements session.Store.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.EditState, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM edit_sessions WHERE record_id = ?`, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.EditState{}, session.ErrNotFound
	}
	if err != nil {
		return core.EditState{}, fmt.Errorf("select edit session: %w", err)
	}

	var state core.EditState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return core.EditState{}, fmt.Errorf("decode edit session: %w", err)
	}
	return state, nil
}

// Put implements session.Store.
func (r *SQLiteRepository) Put(ctx context.Context, id string, state core.EditState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode edit session: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO edit_sessions (record_id, state, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(record_id) DO UPDATE SET
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP`,
		id, string(raw))
	if err != nil {
		return fmt.Errorf("upsert edit session: %w", err)
	}

	slog.DebugContext(ctx, "Edit session saved", applog.FieldRecordID, id)
	return nil
}

// Delete implements session.Store.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM edit_sessions WHERE record_id = ?`, id,
	); err != nil {
		return fmt.Errorf("delete edit session: %w", err)
	}
	return nil
}
