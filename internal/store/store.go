package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siteplan/internal/model"
)

// ErrPageNotFound is returned by page-level edits when the path is not in
// the tenant's record list.
var ErrPageNotFound = eris.New("store: page not found")

// PageEdit carries an admin edit to a single page. Nil fields are left
// unchanged.
type PageEdit struct {
	Status *model.PageStatus `json:"status,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}

// ImportLogEntry records one import run for a tenant.
type ImportLogEntry struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id"`
	RowsImported   int       `json:"rows_imported"`
	CarriedForward int       `json:"carried_forward"`
	Dropped        int       `json:"dropped"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store persists each tenant's page records as one ordered document.
// Reads before a display request and writes after an import or admin edit
// are both single, last-write-wins operations; callers needing stricter
// concurrency must serialize around the store.
type Store interface {
	// GetRecords returns the tenant's ordered record list. An unknown
	// tenant yields an empty list, not an error.
	GetRecords(ctx context.Context, tenantID string) ([]model.PageRecord, error)
	// PutRecords replaces the tenant's record list wholesale.
	PutRecords(ctx context.Context, tenantID string, records []model.PageRecord) error
	// UpdatePage applies an admin edit to the page with the given path.
	UpdatePage(ctx context.Context, tenantID, path string, edit PageEdit) error
	// DeletePage removes the page with the given path.
	DeletePage(ctx context.Context, tenantID, path string) error
	// ListTenants returns every tenant with a stored record list.
	ListTenants(ctx context.Context) ([]string, error)

	// Import audit log
	LogImport(ctx context.Context, entry ImportLogEntry) (string, error)
	ListImports(ctx context.Context, tenantID string, limit int) ([]ImportLogEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// applyEdit mutates the record in place per the edit. Shared by both
// store implementations so edit semantics cannot drift between drivers.
func applyEdit(rec *model.PageRecord, edit PageEdit) {
	if edit.Status != nil {
		rec.Status = *edit.Status
	}
	if edit.Notes != nil {
		rec.Notes = *edit.Notes
	}
}

// editRecords applies an edit to the record with the given path inside a
// record list, returning ErrPageNotFound when no record matches.
func editRecords(records []model.PageRecord, path string, edit PageEdit) error {
	for i := range records {
		if records[i].FullURLPath == path {
			applyEdit(&records[i], edit)
			return nil
		}
	}
	return ErrPageNotFound
}

// dropRecord removes the record with the given path, preserving order.
func dropRecord(records []model.PageRecord, path string) ([]model.PageRecord, error) {
	for i := range records {
		if records[i].FullURLPath == path {
			return append(records[:i:i], records[i+1:]...), nil
		}
	}
	return nil, ErrPageNotFound
}
