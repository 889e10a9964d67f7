package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vacancy_service_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	RefreshedVacanciesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vacancy_service_sync_refreshed_total",
			Help: "Total number of vacancies refreshed from hh.ru by the sync job.",
		},
	)
	FailedRefreshesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vacancy_service_sync_failures_total",
			Help: "Total number of per-vacancy refresh failures in the sync job.",
		},
	)
	OutdatedVacanciesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vacancy_service_marked_outdated_total",
			Help: "Total number of vacancies marked as outdated by the staleness sweep.",
		},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vacancy_service_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(RefreshedVacanciesCounter)
	prometheus.MustRegister(FailedRefreshesCounter)
	prometheus.MustRegister(OutdatedVacanciesCounter)
	prometheus.MustRegister(RequestDuration)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()
}
