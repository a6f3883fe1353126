// Package metrics exports projection cache events as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.trai.ch/zerr"
)

const namespace = "dr"

// Observer implements ports.CacheObserver on a private Prometheus registry.
type Observer struct {
	registry      *prometheus.Registry
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// Summary totals the counters of an Observer.
type Summary struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
	// ByLayer holds hits and misses per layer.
	ByLayer map[string]LayerSummary
}

// LayerSummary totals cache lookups for one layer.
type LayerSummary struct {
	Hits   uint64
	Misses uint64
}

// NewObserver creates an Observer with its own registry.
func NewObserver() *Observer {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Observer{
		registry: reg,
		hits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_hits_total",
			Help:      "Projected layers served from the cache.",
		}, []string{"layer"}),
		misses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_misses_total",
			Help:      "Projected layers computed by replaying staged changes.",
		}, []string{"layer"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_invalidations_total",
			Help:      "Projection cache invalidations by scope.",
		}, []string{"scope"}),
	}
}

// Registry returns the registry holding the cache counters.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// ObserveHit counts a cache hit.
func (o *Observer) ObserveHit(_, layer string) {
	o.hits.WithLabelValues(layer).Inc()
}

// ObserveMiss counts a cache miss.
func (o *Observer) ObserveMiss(_, layer string) {
	o.misses.WithLabelValues(layer).Inc()
}

// ObserveInvalidation counts an invalidation.
func (o *Observer) ObserveInvalidation(_, scope string) {
	o.invalidations.WithLabelValues(scope).Inc()
}

// Snapshot gathers the registry and totals every counter.
func (o *Observer) Snapshot() (Summary, error) {
	families, err := o.registry.Gather()
	if err != nil {
		return Summary{}, zerr.Wrap(err, "failed to gather cache metrics")
	}

	summary := Summary{ByLayer: make(map[string]LayerSummary)}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := uint64(metric.GetCounter().GetValue())
			label := ""
			if pairs := metric.GetLabel(); len(pairs) > 0 {
				label = pairs[0].GetValue()
			}

			switch family.GetName() {
			case namespace + "_projection_cache_hits_total":
				summary.Hits += value
				layer := summary.ByLayer[label]
				layer.Hits += value
				summary.ByLayer[label] = layer
			case namespace + "_projection_cache_misses_total":
				summary.Misses += value
				layer := summary.ByLayer[label]
				layer.Misses += value
				summary.ByLayer[label] = layer
			case namespace + "_projection_cache_invalidations_total":
				summary.Invalidations += value
			}
		}
	}
	return summary, nil
}
