package metrics

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts movie-table interactions. It satisfies movietable.Observer.
type Recorder struct {
	registry   *prometheus.Registry
	added      prometheus.Counter
	removed    prometheus.Counter
	edited     prometheus.Counter
	validation *prometheus.CounterVec
}

// New registers the movie-table collectors plus the Go and process
// collectors on a private registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movietable_rows_added_total",
			Help: "Rows appended by form submissions.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movietable_rows_removed_total",
			Help: "Rows deleted through the remove control.",
		}),
		edited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movietable_rows_edited_total",
			Help: "Edits that changed at least one field.",
		}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movietable_validation_failures_total",
			Help: "Rejected user input by field.",
		}, []string{"field"}),
	}
	reg.MustRegister(
		r.added, r.removed, r.edited, r.validation,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) RowAdded()   { r.added.Inc() }
func (r *Recorder) RowRemoved() { r.removed.Inc() }
func (r *Recorder) RowEdited()  { r.edited.Inc() }

// ValidationFailed counts one rejected value for field.
func (r *Recorder) ValidationFailed(field string) {
	r.validation.WithLabelValues(field).Inc()
}

// ObservePool exports connection counts of a pgx pool.
func (r *Recorder) ObservePool(stat func() *pgxpool.Stat) {
	r.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "movietable_db_pool_total_conns",
			Help: "Connections currently held by the pool.",
		}, func() float64 {
			if s := stat(); s != nil {
				return float64(s.TotalConns())
			}
			return 0
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "movietable_db_pool_idle_conns",
			Help: "Idle connections in the pool.",
		}, func() float64 {
			if s := stat(); s != nil {
				return float64(s.IdleConns())
			}
			return 0
		}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
