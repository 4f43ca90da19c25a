package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"skoview/internal/state"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Observer records reductions as Prometheus metrics. It implements state.Observer.
type Observer struct {
	actionsTotal   *prometheus.CounterVec
	reduceDuration prometheus.Histogram
	downloadStatus *prometheus.GaugeVec
	downloadErrors *prometheus.CounterVec
	selectedItems  *prometheus.GaugeVec
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skoview",
			Name:      "actions_total",
			Help:      "Number of dispatched actions by tag.",
		}, []string{"action"}),
		reduceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "skoview",
			Name:      "reduce_duration_seconds",
			Help:      "Time spent reducing one action.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		downloadStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "skoview",
			Name:      "download_status",
			Help:      "Current download status per resource (0 unstarted, 1 initialized, 2 completed, 3 error).",
		}, []string{"resource"}),
		downloadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skoview",
			Name:      "download_errors_total",
			Help:      "Number of transitions into the ERROR status per resource.",
		}, []string{"resource"}),
		selectedItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "skoview",
			Name:      "selected_items",
			Help:      "Number of selected items per item type.",
		}, []string{"item_type"}),
	}
	reg.MustRegister(o.actionsTotal, o.reduceDuration, o.downloadStatus, o.downloadErrors, o.selectedItems)
	return o
}

func statuses(s state.State) map[string]state.AsyncStatus {
	return map[string]state.AsyncStatus{
		"base_dates":   s.DownloadBaseDatesStatus,
		"base_items":   s.DownloadBaseItemStatus,
		"integrations": s.DownloadIntegrationStatus,
		"statistics":   s.DownloadStatisticsStatus,
		"history":      s.DownloadHistoryStatus,
	}
}

func (o *Observer) Observe(a state.Action, before, after state.State, elapsed time.Duration) {
	o.actionsTotal.WithLabelValues(a.Tag()).Inc()
	o.reduceDuration.Observe(elapsed.Seconds())

	prev := statuses(before)
	for resource, st := range statuses(after) {
		o.downloadStatus.WithLabelValues(resource).Set(float64(st))
		if st == state.Error && prev[resource] != state.Error {
			o.downloadErrors.WithLabelValues(resource).Inc()
		}
	}
	for t, ids := range after.Selected {
		o.selectedItems.WithLabelValues(string(t)).Set(float64(len(ids)))
	}
	for t := range before.Selected {
		if _, ok := after.Selected[t]; !ok {
			o.selectedItems.WithLabelValues(string(t)).Set(0)
		}
	}
}

// Serve exposes the metrics of g on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
