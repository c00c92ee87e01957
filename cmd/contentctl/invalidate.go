package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop the API's memory cache",
	Long: `Invalidate forces the next read to re-load from the snapshot file. The
snapshot and the authoritative store are not touched.`,
	Args: cobra.NoArgs,
	RunE: runInvalidate,
}

func runInvalidate(cmd *cobra.Command, args []string) error {
	if _, err := callAPI("POST", "/api/v1/admin/cache/invalidate", nil); err != nil {
		return err
	}

	fmt.Println("caches invalidated")
	return nil
}
