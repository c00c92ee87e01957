package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// Global flag values.
var (
	flagAddr   string
	flagAPIKey string
)

var rootCmd = &cobra.Command{
	Use:   "contentctl",
	Short: "contentctl operates the content API's data tiers",
	Long: `contentctl talks to a running content API instance.

It covers the operator tasks that do not belong in the admin UI: forcing a
full reconciliation pull from the authoritative store, dropping the memory
cache, and exporting the current listing for inspection.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "http://localhost:8080", "base URL of the content API")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "admin API key (X-API-Key)")

	rootCmd.AddCommand(resyncCmd)
	rootCmd.AddCommand(invalidateCmd)
	rootCmd.AddCommand(exportCmd)
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

// callAPI issues one request against the API and decodes the response
// envelope, reporting the server's error message on failure.
func callAPI(method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, flagAddr+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if flagAPIKey != "" {
		req.Header.Set("X-API-Key", flagAPIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Warning string          `json:"warning"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		if envelope.Error != nil {
			return nil, fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if envelope.Warning != "" {
		fmt.Println("warning:", envelope.Warning)
	}

	return envelope.Data, nil
}
