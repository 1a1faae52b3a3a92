package webhook

import (
	"strings"
	"time"

	"github.com/appetiteclub/pos/pkg/config"
)

const (
	DefaultBaseURL          = "http://localhost:5678"
	DefaultPlaceOrderPath   = "/webhook/place-order"
	DefaultListOrdersPath   = "/webhook/get-orders"
	DefaultUpdateStatusPath = "/webhook/order-status"
	DefaultTimeout          = 10 * time.Second
)

type Config struct {
	BaseURL          string
	PlaceOrderPath   string
	ListOrdersPath   string
	UpdateStatusPath string
	Timeout          time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		PlaceOrderPath:   DefaultPlaceOrderPath,
		ListOrdersPath:   DefaultListOrdersPath,
		UpdateStatusPath: DefaultUpdateStatusPath,
		Timeout:          DefaultTimeout,
	}
}

// ConfigFrom reads the webhook.* keys, keeping defaults for anything unset.
func ConfigFrom(cfg *config.Config) Config {
	d := DefaultConfig()
	return Config{
		BaseURL:          cfg.StringOr("webhook.base_url", d.BaseURL),
		PlaceOrderPath:   cfg.StringOr("webhook.place_order_path", d.PlaceOrderPath),
		ListOrdersPath:   cfg.StringOr("webhook.list_orders_path", d.ListOrdersPath),
		UpdateStatusPath: cfg.StringOr("webhook.update_status_path", d.UpdateStatusPath),
		Timeout:          cfg.DurationOr("webhook.timeout", d.Timeout),
	}
}

func (c Config) endpoint(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
