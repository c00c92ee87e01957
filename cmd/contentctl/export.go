package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagExportStatus string
	flagExportKind   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the current content listing as JSON",
	Long: `Export pages through the public listing endpoint and writes every record
to stdout as a JSON array, for inspection or diffing against the snapshot
file.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportStatus, "status", "all", "status filter: published, draft, all")
	exportCmd.Flags().StringVar(&flagExportKind, "kind", "", "kind filter: article, event")
}

func runExport(cmd *cobra.Command, args []string) error {
	var all []json.RawMessage

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", fmt.Sprint(page))
		query.Set("page_size", "100")
		query.Set("status", flagExportStatus)
		if flagExportKind != "" {
			query.Set("kind", flagExportKind)
		}

		data, err := callAPI("GET", "/api/v1/content?"+query.Encode(), nil)
		if err != nil {
			return err
		}

		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decoding page %d: %w", page, err)
		}

		all = append(all, items...)
		if len(items) < 100 {
			break
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(all); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "exported %d records\n", len(all))
	return nil
}
