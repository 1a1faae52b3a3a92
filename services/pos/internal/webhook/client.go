package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/pkg/logger"
	"github.com/appetiteclub/pos/services/pos/internal/normalize"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

const (
	maxBodyBytes = 4 << 20

	placeOrderFailed  = "Failed to place order"
	fetchOrdersFailed = "Failed to fetch orders"
)

// Client talks to the webhook backend that owns orders.
type Client struct {
	cfg        Config
	http       *http.Client
	normalizer *normalize.Normalizer
	now        func() time.Time
	logger     logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Client) {
		if n != nil {
			c.normalizer = n
		}
	}
}

func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:        cfg,
		http:       &http.Client{},
		normalizer: normalize.New(time.UTC),
		now:        time.Now,
		logger:     log.With("component", "webhook"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubmitOrder computes totals locally, posts the order, and merges the
// backend's reply into a confirmation. Errors carry a stable prefix.
func (c *Client) SubmitOrder(ctx context.Context, p order.Payload) (order.Confirmation, error) {
	conf, err := c.submitOrder(ctx, p)
	if err != nil {
		c.logger.Error("cannot place order", "table", p.Table, "error", err)
		return order.Confirmation{}, fmt.Errorf("%s: %w", placeOrderFailed, err)
	}
	c.logger.Info("order placed", "order_id", conf.OrderID, "table", conf.Table, "total", conf.Total)
	return conf, nil
}

func (c *Client) submitOrder(ctx context.Context, p order.Payload) (order.Confirmation, error) {
	totals := order.ComputeTotals(p.Items)
	now := c.now()

	req := placeOrderRequest{
		Table:         p.Table,
		Items:         make([]placeOrderItem, 0, len(p.Items)),
		Subtotal:      totals.Subtotal,
		GST:           totals.GST,
		Total:         totals.Total,
		PaymentMethod: p.PaymentMethod.Code(),
		Timestamp:     now.UTC().Format(time.RFC3339),
	}
	for _, item := range p.Items {
		req.Items = append(req.Items, placeOrderItem{
			Name:  item.Name,
			Price: item.Price,
			Qty:   item.Qty,
			Total: item.Total(),
		})
	}

	body, err := c.do(ctx, "place order", http.MethodPost, c.cfg.endpoint(c.cfg.PlaceOrderPath), req, nil)
	if err != nil {
		return order.Confirmation{}, err
	}

	a := parseAck(body)
	if !a.Parsed {
		c.logger.Debug("place order reply was not an object, assuming success", "bytes", len(body))
	}
	if !a.Success {
		if a.Message != "" {
			return order.Confirmation{}, fmt.Errorf("%w: %s", ErrRejected, a.Message)
		}
		return order.Confirmation{}, ErrRejected
	}

	conf := order.Confirmation{
		OrderID:       a.OrderID,
		Table:         p.Table,
		Items:         order.Summary(p.Items),
		Subtotal:      totals.Subtotal,
		GST:           totals.GST,
		Total:         totals.Total,
		PaymentMethod: p.PaymentMethod.Code(),
		Success:       true,
	}
	if conf.OrderID == "" {
		conf.OrderID = "ORD-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	if a.HasTotal {
		conf.Total = a.Total
	}
	return conf, nil
}

// FetchOrders reads the live board, bypassing caches, newest first.
func (c *Client) FetchOrders(ctx context.Context) ([]order.KitchenOrder, error) {
	orders, err := c.fetchOrders(ctx)
	if err != nil {
		c.logger.Error("cannot fetch orders", "error", err)
		return nil, fmt.Errorf("%s: %w", fetchOrdersFailed, err)
	}
	return orders, nil
}

func (c *Client) fetchOrders(ctx context.Context) ([]order.KitchenOrder, error) {
	target, err := url.Parse(c.cfg.endpoint(c.cfg.ListOrdersPath))
	if err != nil {
		return nil, fmt.Errorf("list orders url: %w", err)
	}
	q := target.Query()
	q.Set("_t", strconv.FormatInt(c.now().UnixNano(), 10))
	target.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	headers.Set("Pragma", "no-cache")

	body, err := c.do(ctx, "list orders", http.MethodGet, target.String(), nil, headers)
	if err != nil {
		return nil, err
	}

	list, err := c.normalizer.List(body)
	if err != nil {
		if errors.Is(err, normalize.ErrRejected) {
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if list.Dropped > 0 || list.Partial > 0 {
		c.logger.Debug("normalized order list", "orders", len(list.Orders), "dropped", list.Dropped, "partial", list.Partial)
	}
	return list.Orders, nil
}

// UpdateOrderStatus reports whether the backend accepted the new status.
// Failures are logged, never returned.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status orderstatus.Status) bool {
	req := updateStatusRequest{OrderID: orderID, Status: status.Code()}
	body, err := c.do(ctx, "update status", http.MethodPost, c.cfg.endpoint(c.cfg.UpdateStatusPath), req, nil)
	if err != nil {
		c.logger.Error("cannot update order status", "order_id", orderID, "status", status.Code(), "error", err)
		return false
	}

	a := parseAck(body)
	if !a.Success {
		c.logger.Error("order status update rejected", "order_id", orderID, "status", status.Code(), "message", a.Message)
		return false
	}
	c.logger.Info("order status updated", "order_id", orderID, "status", status.Code())
	return true
}

func (c *Client) do(ctx context.Context, op, method, target string, payload any, headers http.Header) ([]byte, error) {
	if c == nil || c.cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %s: %w", op, c.cfg.Timeout, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if readErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s timed out after %s: %w", op, c.cfg.Timeout, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("read %s response: %w", op, readErr)
	}
	return body, nil
}
