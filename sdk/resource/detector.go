package resource

import (
	"context"
	"time"

	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// Detector contributes a partial Resource at provider build time: Detect
// either returns attributes (and an optional schema URL) or an error, under
// an "attempt under a deadline, failure is not fatal" policy, and callers
// compose detectors with a timeout rather than trusting any single one to
// return promptly.
type Detector interface {
	Detect(ctx context.Context) (attribute.Set, string, error)
}

// DetectorFunc adapts a function to a Detector.
type DetectorFunc func(ctx context.Context) (attribute.Set, string, error)

// Detect implements Detector.
func (f DetectorFunc) Detect(ctx context.Context) (attribute.Set, string, error) { return f(ctx) }

// WithTimeout wraps d so Detect is abandoned (and treated as a failure) if it
// does not return within d's budget, mirroring cachedfetch's per-attempt
// context deadline.
func WithTimeout(d Detector, timeout time.Duration) Detector {
	return DetectorFunc(func(ctx context.Context) (attribute.Set, string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		type result struct {
			set       attribute.Set
			schemaURL string
			err       error
		}
		done := make(chan result, 1)
		go func() {
			set, schemaURL, err := d.Detect(ctx)
			done <- result{set, schemaURL, err}
		}()
		select {
		case r := <-done:
			return r.set, r.schemaURL, r.err
		case <-ctx.Done():
			return attribute.Set{}, "", ctx.Err()
		}
	})
}

// Option configures New.
type Option func(*config)

type config struct {
	detectors []Detector
	attrs     []attribute.KeyValue
	schemaURL string
}

// WithDetectors appends detectors to run, in order, during New.
func WithDetectors(detectors ...Detector) Option {
	return func(c *config) { c.detectors = append(c.detectors, detectors...) }
}

// WithAttributes seeds the resource with fixed attributes, merged before any
// detector runs (so detectors may still override them by key).
func WithAttributes(kvs ...attribute.KeyValue) Option {
	return func(c *config) { c.attrs = append(c.attrs, kvs...) }
}

// WithSchemaURL sets the initial schema URL, subject to the same
// equal-or-absent conflict rule applied to every detector's schema URL.
func WithSchemaURL(url string) Option {
	return func(c *config) { c.schemaURL = url }
}

// New builds a Resource by merging WithAttributes seed data and every
// registered detector's output, left-to-right: a later contributor's keys
// overwrite an earlier one's. A failed or timed-out detector contributes
// nothing and is logged, not fatal. Schema URL conflicts (two non-empty,
// unequal URLs) drop the incoming URL and log a diagnostic; an absent URL on
// either side yields the other.
func New(ctx context.Context, opts ...Option) Resource {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	merged := attribute.NewSet(c.attrs...)
	schemaURL := c.schemaURL

	for _, d := range c.detectors {
		set, url, err := d.Detect(ctx)
		if err != nil {
			log.Warn("resource: detector failed: %s", err)
			continue
		}
		merged = mergeSets(merged, set)
		schemaURL = mergeSchemaURL(schemaURL, url)
	}

	return Resource{set: merged, schemaURL: schemaURL}
}

func mergeSets(base, overlay attribute.Set) attribute.Set {
	kvs := append(append([]attribute.KeyValue{}, base.ToSlice()...), overlay.ToSlice()...)
	return attribute.NewSet(kvs...)
}

func mergeSchemaURL(base, incoming string) string {
	if incoming == "" {
		return base
	}
	if base == "" {
		return incoming
	}
	if base != incoming {
		log.Warn("resource: conflicting schema URL %q dropped in favor of %q", incoming, base)
		return base
	}
	return base
}
