// Package client talks to the POS HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "http://localhost:8080"

type Confirmation struct {
	OrderID       string `json:"order_id"`
	Table         string `json:"table"`
	Items         string `json:"items"`
	Subtotal      int64  `json:"subtotal"`
	GST           int64  `json:"gst"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

type Card struct {
	OrderID        string `json:"order_id"`
	ShortID        string `json:"short_id"`
	Table          string `json:"table"`
	ItemsText      string `json:"items_text"`
	Total          int64  `json:"total"`
	Status         string `json:"status"`
	StatusLabel    string `json:"status_label"`
	ElapsedMinutes int    `json:"elapsed_minutes"`
	Late           bool   `json:"late"`
	Action         string `json:"action"`
	Updating       bool   `json:"updating"`
	Error          string `json:"error"`
}

type Column struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Cards  []Card `json:"cards"`
}

type Board struct {
	Columns []Column `json:"columns"`
	Total   int      `json:"total"`
	Error   string   `json:"error"`
}

// APIError is a non-2xx reply from the POS service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pos: status %d", e.StatusCode)
	}
	return fmt.Sprintf("pos: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ResetCart(ctx context.Context, table string) error {
	return c.do(ctx, http.MethodDelete, "/api/tables/"+url.PathEscape(table)+"/cart", nil, nil)
}

func (c *Client) AddItem(ctx context.Context, table, itemID string) error {
	path := fmt.Sprintf("/api/tables/%s/cart/%s/increment", url.PathEscape(table), url.PathEscape(itemID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, table, method string) (Confirmation, error) {
	var conf Confirmation
	body := map[string]string{"payment_method": method}
	err := c.do(ctx, http.MethodPost, "/api/tables/"+url.PathEscape(table)+"/orders", body, &conf)
	return conf, err
}

func (c *Client) Board(ctx context.Context, refresh bool) (Board, error) {
	var b Board
	if refresh {
		err := c.do(ctx, http.MethodPost, "/api/kitchen/refresh", nil, &b)
		return b, err
	}
	err := c.do(ctx, http.MethodGet, "/api/kitchen/board", nil, &b)
	return b, err
}

func (c *Client) Advance(ctx context.Context, orderID string) (Card, error) {
	var card Card
	err := c.do(ctx, http.MethodPost, "/api/kitchen/orders/"+url.PathEscape(orderID)+"/advance", nil, &card)
	return card, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
