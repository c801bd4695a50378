package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/siteplan/internal/model"
	"github.com/sells-group/siteplan/internal/sitemap"
	"github.com/sells-group/siteplan/internal/store"
)

var (
	importTenant string
	importFile   string
	importFormat string
	importSheet  string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a page/keyword sheet for a tenant",
	Long: `Parses a CSV, TSV or XLSX export of the site architecture sheet and
reconciles it against the tenant's stored site map. Admin-edited status and
notes survive re-import; pages removed from the sheet are dropped.

Examples:
  # Dry run — parse and reconcile, print the outcome, persist nothing
  siteplan import --tenant acme-dental --file sitemap.csv --dry-run

  # Import an XLSX export
  siteplan import --tenant acme-dental --file sitemap.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		incoming, err := parseImportFile(importFile, importFormat, importSheet)
		if err != nil {
			return eris.Wrap(err, "import: parse file")
		}
		zap.L().Info("parsed import file",
			zap.String("file", importFile),
			zap.Int("rows", len(incoming)),
		)

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "import: open store")
		}
		defer st.Close() //nolint:errcheck

		existing, err := st.GetRecords(ctx, importTenant)
		if err != nil {
			return eris.Wrap(err, "import: get records")
		}
		result := sitemap.Reconcile(existing, incoming)

		if importDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if err := st.PutRecords(ctx, importTenant, result.Records); err != nil {
			return eris.Wrap(err, "import: put records")
		}
		importID, err := st.LogImport(ctx, store.ImportLogEntry{
			TenantID:       importTenant,
			RowsImported:   len(result.Records),
			CarriedForward: result.CarriedForward,
			Dropped:        len(result.DroppedPaths),
		})
		if err != nil {
			zap.L().Warn("import: log write failed", zap.Error(err))
		}

		if len(result.DroppedPaths) > 0 {
			zap.L().Warn("import removed pages missing from the sheet",
				zap.String("tenant", importTenant),
				zap.Strings("dropped_paths", result.DroppedPaths),
			)
		}
		zap.L().Info("import complete",
			zap.String("tenant", importTenant),
			zap.String("import_id", importID),
			zap.Int("total", len(result.Records)),
			zap.Int("added", result.Added),
			zap.Int("carried_forward", result.CarriedForward),
			zap.Int("dropped", len(result.DroppedPaths)),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTenant, "tenant", "", "tenant id (required)")
	importCmd.Flags().StringVar(&importFile, "file", "", "path to CSV/TSV/XLSX file (required)")
	importCmd.Flags().StringVar(&importFormat, "format", "", "file format: csv or xlsx (default: by extension)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "reconcile and print the outcome without persisting")
	_ = importCmd.MarkFlagRequired("tenant")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

// parseImportFile dispatches on format or file extension.
func parseImportFile(path, format, sheet string) ([]model.PageRecord, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx":
			format = "xlsx"
		default:
			format = "csv"
		}
	}

	switch format {
	case "xlsx":
		return sitemap.ParseXLSX(path, sitemap.XLSXOptions{SheetName: sheet})
	case "csv", "tsv":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "read file")
		}
		return sitemap.Parse(string(raw))
	default:
		return nil, eris.Errorf("unknown format %q", format)
	}
}
