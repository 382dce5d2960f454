// internal/pipeline/validator/rates.go
package validator

import (
	"context"
	"sync"
	"time"

	"finquery/internal/common/database"
	"finquery/internal/common/logger"
)

// rateQuery pulls the most recent implied USD/UYU rate from the data itself:
// the ratio between original-currency and USD amounts of the latest local
// currency movement.
const rateQuery = `SELECT monto / NULLIF(monto_usd, 0) AS tasa
FROM movimientos
WHERE moneda_original = 'UYU'
  AND eliminado = false
  AND monto_usd > 0
ORDER BY fecha DESC
LIMIT 1`

// RateCache memoizes the reference exchange rate so the semantic phase does
// not hit the database on every validation. The cached value expires after
// its TTL and is refetched lazily.
type RateCache struct {
	executor database.Executor
	ttl      time.Duration
	logger   logger.Logger

	mu        sync.Mutex
	value     float64
	fetchedAt time.Time
}

func NewRateCache(executor database.Executor, ttl time.Duration, log logger.Logger) *RateCache {
	return &RateCache{
		executor: executor,
		ttl:      ttl,
		logger:   log.With(map[string]interface{}{"component": "rate_cache"}),
	}
}

// Current returns the cached rate, refreshing it when stale. A fetch failure
// with a previously cached value falls back to the stale value; with no
// cached value it returns ok=false and the rate check is skipped.
func (c *RateCache) Current(ctx context.Context) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value > 0 && time.Since(c.fetchedAt) < c.ttl {
		return c.value, true
	}

	rows, err := c.executor.QueryRows(ctx, rateQuery)
	if err != nil || len(rows) == 0 {
		if err != nil {
			c.logger.Warn("exchange rate refresh failed", map[string]interface{}{
				"error": err,
			})
		}
		if c.value > 0 {
			return c.value, true
		}
		return 0, false
	}

	if rate := toFloat(rows[0]["tasa"]); rate > 0 {
		c.value = rate
		c.fetchedAt = time.Now()
	}
	if c.value > 0 {
		return c.value, true
	}
	return 0, false
}
