package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/siteplan/internal/config"
	"github.com/sells-group/siteplan/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg config.PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg.MaxConns > 0 {
		maxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		minConns = poolCfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sitemaps (
	tenant_id  TEXT PRIMARY KEY,
	records    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS import_log (
	id              TEXT PRIMARY KEY,
	tenant_id       TEXT NOT NULL,
	rows_imported   INTEGER NOT NULL,
	carried_forward INTEGER NOT NULL,
	dropped         INTEGER NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_import_log_tenant ON import_log(tenant_id, created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetRecords(ctx context.Context, tenantID string) ([]model.PageRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT records FROM sitemaps WHERE tenant_id = $1`, tenantID,
	)

	var recordsJSON []byte
	err := row.Scan(&recordsJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get records %s", tenantID)
	}

	var records []model.PageRecord
	if err := json.Unmarshal(recordsJSON, &records); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal records")
	}
	return records, nil
}

func (s *PostgresStore) PutRecords(ctx context.Context, tenantID string, records []model.PageRecord) error {
	if records == nil {
		records = []model.PageRecord{}
	}
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal records")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sitemaps (tenant_id, records, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id) DO UPDATE SET records = EXCLUDED.records, updated_at = EXCLUDED.updated_at`,
		tenantID, recordsJSON, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put records %s", tenantID)
}

func (s *PostgresStore) UpdatePage(ctx context.Context, tenantID, path string, edit PageEdit) error {
	records, err := s.GetRecords(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := editRecords(records, path, edit); err != nil {
		return err
	}
	return s.PutRecords(ctx, tenantID, records)
}

func (s *PostgresStore) DeletePage(ctx context.Context, tenantID, path string) error {
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

func (s *PostgresStore) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tenant_id FROM sitemaps ORDER BY tenant_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tenants")
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tenant")
		}
		tenants = append(tenants, id)
	}
	return tenants, eris.Wrap(rows.Err(), "postgres: list tenants iterate")
}

func (s *PostgresStore) LogImport(ctx context.Context, entry ImportLogEntry) (string, error) {
	id := uuid.New().String()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO import_log (id, tenant_id, rows_imported, carried_forward, dropped, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, entry.TenantID, entry.RowsImported, entry.CarriedForward, entry.Dropped, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: log import %s", entry.TenantID)
	}
	return id, nil
}

func (s *PostgresStore) ListImports(ctx context.Context, tenantID string, limit int) ([]ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, rows_imported, carried_forward, dropped, created_at
		 FROM import_log WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list imports")
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.RowsImported, &e.CarriedForward, &e.Dropped, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan import entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list imports iterate")
}
