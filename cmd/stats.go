package main

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/siteplan/internal/model"
	"github.com/sells-group/siteplan/internal/sitemap"
)

var (
	statsTenant      string
	statsAll         bool
	statsConcurrency int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print site map statistics for a tenant (or all tenants)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !statsAll && statsTenant == "" {
			return eris.New("stats: either --tenant or --all is required")
		}

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "stats: open store")
		}
		defer st.Close() //nolint:errcheck

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if !statsAll {
			records, err := st.GetRecords(ctx, statsTenant)
			if err != nil {
				return eris.Wrap(err, "stats: get records")
			}
			return enc.Encode(sitemap.ComputeStats(records))
		}

		tenants, err := st.ListTenants(ctx)
		if err != nil {
			return eris.Wrap(err, "stats: list tenants")
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(statsConcurrency)

		var mu sync.Mutex
		byTenant := make(map[string]model.WebsiteStats, len(tenants))

		for _, tenant := range tenants {
			tenant := tenant
			g.Go(func() error {
				records, err := st.GetRecords(gCtx, tenant)
				if err != nil {
					return eris.Wrapf(err, "stats: get records %s", tenant)
				}
				stats := sitemap.ComputeStats(records)
				mu.Lock()
				byTenant[tenant] = stats
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		return enc.Encode(byTenant)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsTenant, "tenant", "", "tenant id")
	statsCmd.Flags().BoolVar(&statsAll, "all", false, "compute stats for every tenant")
	statsCmd.Flags().IntVar(&statsConcurrency, "concurrency", 4, "tenants to process concurrently with --all")
	rootCmd.AddCommand(statsCmd)
}
