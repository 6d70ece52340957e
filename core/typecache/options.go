package typecache

import (
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/typecache/core/expiry"
	"github.com/codewandler/typecache/core/hierarchy"
	"github.com/codewandler/typecache/core/typetag"
)

// DefaultExpiry is the lifetime of a key-type bucket unless configured.
const DefaultExpiry = 10 * time.Second

// Option configures a Cache.
type Option func(*config)

type config struct {
	expiry    time.Duration
	expiryFor func(keyType typetag.Tag) time.Duration
	scheduler expiry.Scheduler
	roots     *hierarchy.Registry
	log       *slog.Logger
	metrics   Metrics
	newID     func() string
}

func defaultConfig() *config {
	return &config{
		expiry: DefaultExpiry,
		log:    slog.Default(),
		newID:  func() string { return gonanoid.Must(12) },
	}
}

// WithExpiry sets how long a bucket lives after its creation.
// Non-positive values are ignored.
func WithExpiry(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.expiry = d
		}
	}
}

// WithExpiryFor overrides the expiry per key type. fn is consulted once,
// when a bucket is created; a non-positive result falls back to the
// cache-wide expiry.
func WithExpiryFor(fn func(keyType typetag.Tag) time.Duration) Option {
	return func(c *config) { c.expiryFor = fn }
}

// WithScheduler sets the scheduler that runs bucket expiry. The caller
// keeps ownership. Defaults to expiry.Default().
func WithScheduler(s expiry.Scheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithHierarchy sets the registry used to resolve value root types.
// Defaults to hierarchy.Default().
func WithHierarchy(r *hierarchy.Registry) Option {
	return func(c *config) { c.roots = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithMetrics sets the metrics sink. Defaults to NopMetrics().
func WithMetrics(m Metrics) Option {
	return func(c *config) { c.metrics = m }
}
