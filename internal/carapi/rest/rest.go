// Package rest implements the carapi ports against the showroom's
// HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"showroom/internal/carapi"
)

// Ensure interface conformance
var (
	_ carapi.InstallmentReader = (*Client)(nil)
	_ carapi.InstallmentWriter = (*Client)(nil)
)

// Client talks to {baseURL}/api/car/... with bearer authentication.
// No client-side timeout is imposed; the transport's defaults apply.
type Client struct {
	baseURL string
	token   carapi.TokenSource
	httpc   *http.Client
}

// New builds a client. An empty baseURL produces a disabled client
// whose calls return carapi.ErrNotConfigured so the page can degrade
// to a warning instead of failing outright.
func New(baseURL string, token carapi.TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   token,
		httpc:   &http.Client{},
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool { return c.baseURL != "" }

// FetchInstallment implements carapi.InstallmentReader.
func (c *Client) FetchInstallment(ctx context.Context, id string) (carapi.RecordPayload, error) {
	if !c.Configured() {
		return carapi.RecordPayload{}, carapi.ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/api/car/%s/installment", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return carapi.RecordPayload{}, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carapi.RecordPayload{}, fmt.Errorf("fetch installment: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return carapi.RecordPayload{}, err
	}

	payload, err := decodeRecord(resp.Body)
	if err != nil {
		return carapi.RecordPayload{}, fmt.Errorf("decode installment: %w", err)
	}

	slog.DebugContext(ctx, "Fetched installment record", "id", id)
	return payload, nil
}

// UpdateInstallment implements carapi.InstallmentWriter.
func (c *Client) UpdateInstallment(ctx context.Context, id string, update carapi.UpdateRequest) error {
	if !c.Configured() {
		return carapi.ErrNotConfigured
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/car/%s/sell-installment", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("update installment: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Updated installment record", "id", id)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
}

// checkStatus maps the response status to the carapi error taxonomy:
// 401 uniformly to ErrUnauthorized, any other non-2xx to a StatusError
// carrying the server message when the body provides one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return carapi.ErrUnauthorized
	}

	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &carapi.StatusError{Status: resp.StatusCode, Message: body.Message}
}

// decodeRecord accepts both the bare record and the {"data": record}
// envelope some API routes use.
func decodeRecord(r io.Reader) (carapi.RecordPayload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return carapi.RecordPayload{}, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && isJSONObject(envelope.Data) {
		raw = envelope.Data
	}

	var payload carapi.RecordPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return carapi.RecordPayload{}, err
	}
	return payload, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
