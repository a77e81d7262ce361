package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AppendMode is the only write mode the endpoint supports.
const AppendMode = "add"

// Client talks to the spreadsheet-backed endpoint: a single URL that
// serves the full dataset on GET and appends one row per POST.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client with an explicit request timeout. The remote
// endpoint specifies no cancellation policy of its own, so the timeout
// here is the only bound on outbound calls.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchAll retrieves every sheet as ordered rows of string cells.
func (c *Client) FetchAll(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheets: unexpected status %d", resp.StatusCode)
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sheets payload: %w", err)
	}
	return payload, nil
}

type appendEnvelope struct {
	Sheet string            `json:"sheet"`
	Mode  string            `json:"mode"`
	Data  map[string]string `json:"data"`
}

// Append writes one record to the named sheet. The endpoint returns an
// opaque body, so only transport-level failures and non-2xx statuses are
// observable.
func (c *Client) Append(ctx context.Context, sheet string, record map[string]string) error {
	body, err := json.Marshal(appendEnvelope{Sheet: sheet, Mode: AppendMode, Data: record})
	if err != nil {
		return fmt.Errorf("encode append payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	// The Apps Script endpoint only accepts simple requests; text/plain
	// matches what the original browser client sends.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("append to sheet %q: %w", sheet, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("append to sheet %q: unexpected status %d", sheet, resp.StatusCode)
	}
	return nil
}
