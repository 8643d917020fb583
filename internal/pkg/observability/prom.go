package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "zonefinder"
)

var (
	ZonesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "zone", "created_total"),
		Help: "Number of zones created, by whether an image was attached",
	}, []string{"with_image"})
	ZoneListSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "zone", "list_size"),
		Help:    "Number of zones returned by a listing",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"filtered"})
	ReverseGeocodeCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "geocode", "reverse_cache_total"),
		Help: "Reverse geocode lookups by cache result",
	}, []string{"result"})
	ReverseGeocodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "geocode", "reverse_duration_seconds"),
		Help:    "Duration of upstream reverse geocode requests in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"outcome"})
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "event", "published_total"),
		Help: "Zone lifecycle events handed to JetStream",
	}, []string{"kind"})
	AddressBackfill = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "address_backfill_total"),
		Help: "Created zones processed by the address worker, by outcome",
	}, []string{"outcome"})
	AddressBackfillDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "address_backfill_duration_seconds"),
		Help: "Duration of the last address backfill in seconds",
	}, []string{"outcome"})
)
