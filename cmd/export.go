package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportTenant string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a tenant's site map back to CSV",
	Long: `Writes the tenant's stored records in the import template column order,
so an exported file can be edited and re-imported.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "export: open store")
		}
		defer st.Close() //nolint:errcheck

		records, err := st.GetRecords(ctx, exportTenant)
		if err != nil {
			return eris.Wrap(err, "export: get records")
		}

		var w *os.File
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return eris.Wrap(err, "export: create output file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		} else {
			w = os.Stdout
		}

		cw := csv.NewWriter(w)
		if err := cw.Write(strings.Split(templateHeader, ",")); err != nil {
			return eris.Wrap(err, "export: write header")
		}
		for _, rec := range records {
			row := []string{
				rec.ClusterName,
				rec.PrimaryKeyword,
				strconv.Itoa(rec.SearchVolume),
				rec.Intent,
				rec.PageType,
				rec.FullURLPath,
				rec.Priority,
				strings.Join(rec.SecondaryKeywords, ";"),
			}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "export: write row")
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return eris.Wrap(err, "export: flush")
		}

		zap.L().Info("export complete",
			zap.String("tenant", exportTenant),
			zap.Int("rows", len(records)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTenant, "tenant", "", "tenant id (required)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default: stdout)")
	_ = exportCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(exportCmd)
}
