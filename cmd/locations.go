package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/siteplan/internal/sitemap"
)

var locationsTenant string

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the location segments of a tenant's site map",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "locations: open store")
		}
		defer st.Close() //nolint:errcheck

		records, err := st.GetRecords(ctx, locationsTenant)
		if err != nil {
			return eris.Wrap(err, "locations: get records")
		}

		for _, loc := range sitemap.LocationSegments(records) {
			fmt.Println(loc)
		}
		return nil
	},
}

func init() {
	locationsCmd.Flags().StringVar(&locationsTenant, "tenant", "", "tenant id (required)")
	_ = locationsCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(locationsCmd)
}
