// Package health reports service health for the /health endpoint.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/genericbro/genericbro-api/interfaces"
	"github.com/genericbro/genericbro-api/suggestcache"
)

// Checker implements interfaces.HealthChecker against the store client and
// the suggestion cache.
type Checker struct {
	store     interfaces.MedicineStore
	cache     *suggestcache.Cache
	startTime time.Time
}

// NewChecker creates a health checker.
func NewChecker(store interfaces.MedicineStore, cache *suggestcache.Cache) *Checker {
	return &Checker{store: store, cache: cache, startTime: time.Now()}
}

// HealthCheck returns the service status. The store being unreachable is the
// only unhealthy condition: everything this service does needs the table.
func (c *Checker) HealthCheck() (string, map[string]any, int) {
	status := "healthy"
	httpStatus := http.StatusOK
	if !c.store.Available() {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	var lastProbe string
	if t := c.store.LastProbe(); !t.IsZero() {
		lastProbe = t.Format(time.RFC3339)
	}

	data := map[string]any{
		"store_available":  c.store.Available(),
		"last_probe":       lastProbe,
		"suggestion_cache": c.cache.Len(),
		"uptime_seconds":   math.Round(time.Since(c.startTime).Seconds()),
	}
	return status, data, httpStatus
}
