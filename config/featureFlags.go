package config

import (
	"os"
	"strings"
)

// PublishStockEvents enables best-effort Pub/Sub notifications after a
// purchase order is received (stock increments applied).
//
// Set via env:
// - PUBLISH_STOCK_EVENTS=true
func PublishStockEvents() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PUBLISH_STOCK_EVENTS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
