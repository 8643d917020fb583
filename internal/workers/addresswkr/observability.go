package addresswkr

import (
	"time"

	"zonefinder.dev/backend/internal/pkg/observability"
)

func observe(outcome string, dur time.Duration) {
	observability.AddressBackfill.WithLabelValues(outcome).Inc()
	observability.AddressBackfillDuration.WithLabelValues(outcome).Set(dur.Seconds())
}
