package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/siteplan/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sitemaps (
	tenant_id  TEXT PRIMARY KEY,
	records    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS import_log (
	id              TEXT PRIMARY KEY,
	tenant_id       TEXT NOT NULL,
	rows_imported   INTEGER NOT NULL,
	carried_forward INTEGER NOT NULL,
	dropped         INTEGER NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_import_log_tenant ON import_log(tenant_id, created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetRecords(ctx context.Context, tenantID string) ([]model.PageRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT records FROM sitemaps WHERE tenant_id = ?`, tenantID,
	)

	var recordsJSON string
	err := row.Scan(&recordsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get records %s", tenantID)
	}

	var records []model.PageRecord
	if err := json.Unmarshal([]byte(recordsJSON), &records); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal records")
	}
	return records, nil
}

func (s *SQLiteStore) PutRecords(ctx context.Context, tenantID string, records []model.PageRecord) error {
	if records == nil {
		records = []model.PageRecord{}
	}
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal records")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sitemaps (tenant_id, records, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(tenant_id) DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`,
		tenantID, string(recordsJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put records %s", tenantID)
}

func (s *SQLiteStore) UpdatePage(ctx context.Context, tenantID, path string, edit PageEdit) error {
	records, err := s.GetRecords(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := editRecords(records, path, edit); err != nil {
		return err
	}
	return s.PutRecords(ctx, tenantID, records)
}

func (s *SQLiteStore) DeletePage(ctx context.Context, tenantID, path string) error {
	records, err := s.GetRecords(ctx, tenantID)
	if err != nil {
		return err
	}
	remaining, err := dropRecord(records, path)
	if err != nil {
		return err
	}
	return s.PutRecords(ctx, tenantID, remaining)
}

func (s *SQLiteStore) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tenant_id FROM sitemaps ORDER BY tenant_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tenants")
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tenant")
		}
		tenants = append(tenants, id)
	}
	return tenants, eris.Wrap(rows.Err(), "sqlite: list tenants iterate")
}

func (s *SQLiteStore) LogImport(ctx context.Context, entry ImportLogEntry) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_log (id, tenant_id, rows_imported, carried_forward, dropped, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, entry.TenantID, entry.RowsImported, entry.CarriedForward, entry.Dropped, now,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: log import %s", entry.TenantID)
	}
	return id, nil
}

func (s *SQLiteStore) ListImports(ctx context.Context, tenantID string, limit int) ([]ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tenant_id, rows_imported, carried_forward, dropped, created_at
		 FROM import_log WHERE tenant_id = ? ORDER BY created_at DESC LIMIT ?`,
		tenantID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list imports")
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.RowsImported, &e.CarriedForward, &e.Dropped, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan import entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list imports iterate")
}
