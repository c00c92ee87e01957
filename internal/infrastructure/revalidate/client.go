// Package revalidate signals the page-rendering host that previously
// rendered pages are stale after a mutation. The endpoint's wire format is
// an opaque contract: a POST of stale paths with a shared-secret header.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"content-backend/internal/domains/content/model"
	"content-backend/pkg/logger"
)

// Signaler is consumed by the reconciler; the no-op implementation covers
// deployments without a rendering host.
type Signaler interface {
	RevalidatePaths(ctx context.Context, paths []string)
	RevalidateRecord(ctx context.Context, record model.ContentRecord)
	RevalidateAll(ctx context.Context)
}

type Client struct {
	url        string
	secret     string
	httpClient *http.Client
}

// NewClient builds the revalidation client. An empty url yields a no-op
// signaler.
func NewClient(url, secret string) Signaler {
	if url == "" {
		return noop{}
	}
	return &Client{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type revalidateRequest struct {
	Paths []string `json:"paths"`
}

// RevalidatePaths POSTs the stale paths. Failures are logged and swallowed:
// a missed revalidation means a stale page until the edge re-renders, never
// a failed mutation.
func (c *Client) RevalidatePaths(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	body, err := json.Marshal(revalidateRequest{Paths: paths})
	if err != nil {
		logger.Error("revalidate: encoding request", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		logger.Error("revalidate: building request", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Revalidate-Secret", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("revalidate: signal failed", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn("revalidate: signal rejected", fmt.Errorf("status %d", resp.StatusCode))
		return
	}

	logger.Info("revalidate: signalled", map[string]interface{}{
		"paths": paths,
	})
}

// RevalidateRecord computes the public pages a record can appear on: home,
// its city scopes, its kind's listing page, and its detail page.
func (c *Client) RevalidateRecord(ctx context.Context, record model.ContentRecord) {
	c.RevalidatePaths(ctx, PathsFor(record))
}

// RevalidateAll marks every scope and listing page stale, used after a full
// resync.
func (c *Client) RevalidateAll(ctx context.Context) {
	paths := []string{"/", "/articles", "/events"}
	for _, scope := range model.Scopes() {
		if scope != model.ScopeHome {
			paths = append(paths, "/"+scope)
		}
	}
	c.RevalidatePaths(ctx, paths)
}

// PathsFor lists the pages affected by a mutation of record.
func PathsFor(record model.ContentRecord) []string {
	paths := []string{"/"}

	for _, scope := range record.CityScopes() {
		paths = append(paths, "/"+scope)
	}

	switch record.Kind {
	case model.KindEvent:
		paths = append(paths, "/events", "/events/"+record.ID)
	default:
		paths = append(paths, "/articles", "/articles/"+record.ID)
	}

	return paths
}

type noop struct{}

func (noop) RevalidatePaths(context.Context, []string)             {}
func (noop) RevalidateRecord(context.Context, model.ContentRecord) {}
func (noop) RevalidateAll(context.Context)                         {}
