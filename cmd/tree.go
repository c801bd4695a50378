package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/siteplan/internal/sitemap"
)

var (
	treeTenant   string
	treeLocation string
	treeQuery    string
	treeFormat   string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the annotated site tree for a tenant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "tree: open store")
		}
		defer st.Close() //nolint:errcheck

		records, err := st.GetRecords(ctx, treeTenant)
		if err != nil {
			return eris.Wrap(err, "tree: get records")
		}

		filtered := sitemap.Filter(records, sitemap.FilterOptions{
			Text:     treeQuery,
			Location: treeLocation,
		})
		forest := sitemap.Annotate(sitemap.BuildTree(filtered))

		switch treeFormat {
		case "yaml":
			out, err := yaml.Marshal(forest)
			if err != nil {
				return eris.Wrap(err, "tree: marshal yaml")
			}
			_, err = os.Stdout.Write(out)
			return err
		case "json", "":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(forest)
		default:
			return eris.Errorf("unknown format %q", treeFormat)
		}
	},
}

func init() {
	treeCmd.Flags().StringVar(&treeTenant, "tenant", "", "tenant id (required)")
	treeCmd.Flags().StringVar(&treeLocation, "location", "", "filter to pages under /{location}/")
	treeCmd.Flags().StringVar(&treeQuery, "query", "", "case-insensitive text filter over path, keyword and cluster")
	treeCmd.Flags().StringVar(&treeFormat, "format", "json", "output format: json or yaml")
	_ = treeCmd.MarkFlagRequired("tenant")
	rootCmd.AddCommand(treeCmd)
}
