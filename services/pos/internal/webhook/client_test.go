package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/appetiteclub/pos/pkg/config"
	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/appetiteclub/pos/pkg/logger"
	"github.com/appetiteclub/pos/services/pos/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, logger.NewNoopLogger(), WithClock(func() time.Time { return fixedNow }))
}

func samplePayload() order.Payload {
	return order.Payload{
		Table: "T3",
		Items: []order.LineItem{
			{Name: "Parotta", Price: 15, Qty: 2},
			{Name: "Chappathi", Price: 40, Qty: 1},
		},
		PaymentMethod: payment.Methods.UPI,
	}
}

func TestSubmitOrderRequestBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPlaceOrderPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"success":true,"order_id":"ORD-42"}`)
	})

	conf, err := c.SubmitOrder(context.Background(), samplePayload())
	require.NoError(t, err)

	assert.Equal(t, "T3", got["table"])
	assert.Equal(t, float64(70), got["subtotal"])
	assert.Equal(t, float64(13), got["gst"])
	assert.Equal(t, float64(83), got["total"])
	assert.Equal(t, "upi", got["paymentMethod"])
	assert.Equal(t, "2024-06-01T12:00:00Z", got["timestamp"])

	items := got["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Parotta", "price": float64(15), "qty": float64(2), "total": float64(30)}, first)

	assert.Equal(t, order.Confirmation{
		OrderID:       "ORD-42",
		Table:         "T3",
		Items:         "Parotta x2, Chappathi x1",
		Subtotal:      70,
		GST:           13,
		Total:         83,
		PaymentMethod: "upi",
		Success:       true,
	}, conf)
}

func TestSubmitOrderTolerantReplies(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantID    string
		wantTotal int64
	}{
		{name: "emptyBody", status: http.StatusOK, body: "", wantID: "ORD-1717243200000", wantTotal: 83},
		{name: "malformedBody", status: http.StatusOK, body: "Workflow started", wantID: "ORD-1717243200000", wantTotal: 83},
		{name: "successMissing", status: http.StatusOK, body: `{"orderId":"A-7"}`, wantID: "A-7", wantTotal: 83},
		{name: "backendTotalWins", status: http.StatusOK, body: `{"order_id":"B-1","total":"90"}`, wantID: "B-1", wantTotal: 90},
		{name: "listReply", status: http.StatusOK, body: `[{"order_id":"C-2","total":84}]`, wantID: "C-2", wantTotal: 84},
		{name: "createdStatus", status: http.StatusCreated, body: `{}`, wantID: "ORD-1717243200000", wantTotal: 83},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			conf, err := c.SubmitOrder(context.Background(), samplePayload())
			require.NoError(t, err)
			assert.True(t, conf.Success)
			assert.Equal(t, tt.wantID, conf.OrderID)
			assert.Equal(t, tt.wantTotal, conf.Total)
			assert.Equal(t, int64(70), conf.Subtotal)
		})
	}
}

func TestSubmitOrderFailures(t *testing.T) {
	t.Run("httpStatus", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := c.SubmitOrder(context.Background(), samplePayload())
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "Failed to place order: "), err.Error())
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	})

	t.Run("explicitFalse", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":false,"message":"sheet locked"}`)
		})

		_, err := c.SubmitOrder(context.Background(), samplePayload())
		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "sheet locked")
		assert.Contains(t, err.Error(), "Failed to place order")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		cfg := DefaultConfig()
		cfg.BaseURL = srv.URL
		cfg.Timeout = 50 * time.Millisecond
		c := NewClient(cfg, nil)

		start := time.Now()
		_, err := c.SubmitOrder(context.Background(), samplePayload())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("notConfigured", func(t *testing.T) {
		c := NewClient(Config{}, nil)
		_, err := c.SubmitOrder(context.Background(), samplePayload())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestFetchOrdersCacheBusting(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultListOrdersPath, r.URL.Path)
		assert.Contains(t, r.Header.Get("Cache-Control"), "no-cache")
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))
		seen = append(seen, r.URL.Query().Get("_t"))
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := c.FetchOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.NotEmpty(t, seen[0])
}

func TestFetchOrdersShapes(t *testing.T) {
	a := `{"order_id":"A","table":"T1","items":"Tea x1","total":12,"status":"PENDING","created_at":"2024-06-01T09:00:00Z"}`
	b := `{"orderId":"B","table":"T2","items":"Coke x2","total":80,"status":"COOKING","timestamp":"01/06/2024 10:00:00 am"}`

	bodies := map[string]string{
		"bareArray": `[` + a + `,` + b + `]`,
		"ordersKey": `{"orders":[` + a + `,` + b + `]}`,
		"withNoIDs": `[` + a + `,{"table":"T9"},` + b + `]`,
		"reversed":  `[` + b + `,` + a + `]`,
	}

	var want []order.KitchenOrder
	for _, name := range []string{"bareArray", "ordersKey", "withNoIDs", "reversed"} {
		body := bodies[name]
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			got, err := c.FetchOrders(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "B", got[0].OrderID)
			if want == nil {
				want = got
			}
			assert.Equal(t, want, got)
		})
	}

	t.Run("singleObject", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, a)
		})
		got, err := c.FetchOrders(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, orderstatus.Statuses.Pending, got[0].Status)
	})
}

func TestFetchOrdersFailures(t *testing.T) {
	t.Run("malformedBodyIsNotEmpty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>gateway</html>`)
		})
		got, err := c.FetchOrders(context.Background())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrMalformedBody)
		assert.Contains(t, err.Error(), "Failed to fetch orders")
	})

	t.Run("httpStatus", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.FetchOrders(context.Background())
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	})

	t.Run("successFalseIsRejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":false,"message":"sheet unavailable"}`)
		})
		got, err := c.FetchOrders(context.Background())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "Failed to fetch orders")
		assert.Contains(t, err.Error(), "sheet unavailable")
	})

	t.Run("errorObjectIsMalformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"error":"Workflow could not be started"}`)
		})
		got, err := c.FetchOrders(context.Background())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrMalformedBody)
		assert.Contains(t, err.Error(), "Workflow could not be started")
	})

	t.Run("emptyBodyIsEmptyList", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		got, err := c.FetchOrders(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{name: "explicitSuccess", status: http.StatusOK, body: `{"success":true}`, want: true},
		{name: "emptyBodyIsSuccess", status: http.StatusOK, body: ``, want: true},
		{name: "malformedBodyIsSuccess", status: http.StatusOK, body: `ok`, want: true},
		{name: "explicitFalse", status: http.StatusOK, body: `{"success":false,"message":"no row"}`, want: false},
		{name: "serverError", status: http.StatusInternalServerError, body: `{}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got updateStatusRequest
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, DefaultUpdateStatusPath, r.URL.Path)
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			ok := c.UpdateOrderStatus(context.Background(), "ORD-1", orderstatus.Statuses.Cooking)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, updateStatusRequest{OrderID: "ORD-1", Status: "COOKING"}, got)
		})
	}
}

func TestUpdateOrderStatusUnreachable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	srv.Close()

	c := NewClient(cfg, nil)
	assert.False(t, c.UpdateOrderStatus(context.Background(), "ORD-1", orderstatus.Statuses.Ready))
	assert.Zero(t, calls.Load())
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.NewFromMap(map[string]any{
		"webhook.base_url": "http://n8n.local:5678/",
		"webhook.timeout":  "3s",
	}))

	assert.Equal(t, "http://n8n.local:5678/", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultListOrdersPath, cfg.ListOrdersPath)
	assert.Equal(t, "http://n8n.local:5678/webhook/get-orders", cfg.endpoint(cfg.ListOrdersPath))

	defaults := ConfigFrom(nil)
	assert.Equal(t, DefaultConfig(), defaults)
}
