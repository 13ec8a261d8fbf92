// Package resultcache persists computed engine runs in SQLite so repeat
// requests for the same report/fight/config revision skip recomputation.
// It sits outside the engine; the engine itself never touches storage.
package resultcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tstirrat/wow-threat-sub003/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	report_code     TEXT NOT NULL,
	fight_id        INTEGER NOT NULL,
	config_revision TEXT NOT NULL,
	output          BLOB NOT NULL,
	created_at_ms   INTEGER NOT NULL,
	UNIQUE(report_code, fight_id, config_revision)
);`

// Store persists engine outputs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the cache database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put stores one computed run, replacing any prior entry for the same key.
// Returns the run id.
func (s *Store) Put(ctx context.Context, reportCode string, fightID int, configRevision string, out *engine.Output) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("cache is not configured")
	}
	reportCode = strings.TrimSpace(reportCode)
	if reportCode == "" {
		return "", fmt.Errorf("report code is required")
	}
	if out == nil {
		return "", fmt.Errorf("output is required")
	}

	blob, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode output: %w", err)
	}
	id := uuid.NewString()
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO runs (id, report_code, fight_id, config_revision, output, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(report_code, fight_id, config_revision)
		DO UPDATE SET id = excluded.id, output = excluded.output, created_at_ms = excluded.created_at_ms`,
		id, reportCode, fightID, configRevision, blob, time.Now().UTC().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("store run: %w", err)
	}
	return id, nil
}

// Get loads a cached run; the second return is false on a miss.
func (s *Store) Get(ctx context.Context, reportCode string, fightID int, configRevision string) (*engine.Output, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, false, fmt.Errorf("cache is not configured")
	}

	var blob []byte
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT output FROM runs
		WHERE report_code = ? AND fight_id = ? AND config_revision = ?`,
		strings.TrimSpace(reportCode), fightID, configRevision).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load run: %w", err)
	}
	var out engine.Output
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, false, fmt.Errorf("decode cached output: %w", err)
	}
	return &out, true, nil
}
