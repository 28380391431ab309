package registry

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// registryMetrics holds the counters of one registry in its own metrics set,
// so several registries can live in one process without name clashes.
type registryMetrics struct {
	set *metrics.Set

	registered *metrics.Counter
	rejected   *metrics.Counter
	released   *metrics.Counter
	destroyed  *metrics.Counter
	created    *metrics.Counter
}

func newRegistryMetrics(name string, entries func() float64) *registryMetrics {
	set := metrics.NewSet()
	label := fmt.Sprintf("{registry=%q}", name)

	m := &registryMetrics{
		set:        set,
		registered: set.NewCounter("dcoll_registry_registered_total" + label),
		rejected:   set.NewCounter("dcoll_registry_rejected_total" + label),
		released:   set.NewCounter("dcoll_registry_released_total" + label),
		destroyed:  set.NewCounter("dcoll_registry_destroyed_total" + label),
		created:    set.NewCounter("dcoll_registry_singletons_created_total" + label),
	}
	set.NewGauge("dcoll_registry_entries"+label, entries)
	return m
}

// WritePrometheus writes the metrics of the registry in Prometheus text format
func (r *Registry) WritePrometheus(w io.Writer) {
	r.metrics.set.WritePrometheus(w)
}
