package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// templateHeader is the documented column contract for import sheets.
const templateHeader = "Cluster Name,Primary Keyword,Search Volume,Intent,Page Type,Full URL Path,Priority,Secondary Keywords"

const templateExample = `Pillar,Dental Implants,1900,Commercial,Service,/dental-implants,P1,implants abroad;tooth replacement`

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the import sheet template",
	Long: `Prints the CSV header and an example row in the exact column order the
importer expects. The first six columns are required; priority and secondary
keywords are optional. Status and notes are managed in the portal and must
not appear in the sheet.`,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println(templateHeader)
		fmt.Println(templateExample)
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
