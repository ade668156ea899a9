package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendwars/vote-ledger/utils/handlers"
)

var (
	latencyBuckets = []float64{.25, .5, 1, 2.5, 5, 10}

	inFlightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "in_flight_requests",
		Help: "A gauge of requests currently being served by the wrapped handler.",
	})

	// ConcurrentGoRoutines holds the number of async goroutines in flight
	ConcurrentGoRoutines = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "concurrent_goroutine",
			Help: "Gauge that holds the current number of goroutines",
		},
		[]string{
			"method",
		},
	)
)

func init() {
	if err := prometheus.Register(inFlightGauge); err != nil {
		if aerr, ok := err.(prometheus.AlreadyRegisteredError); ok {
			inFlightGauge = aerr.ExistingCollector.(prometheus.Gauge)
		} else {
			panic(err)
		}
	}
	if err := prometheus.Register(ConcurrentGoRoutines); err != nil {
		if aerr, ok := err.(prometheus.AlreadyRegisteredError); ok {
			ConcurrentGoRoutines = aerr.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			panic(err)
		}
	}
}

// InstrumentHandlerFunc - helper to wrap up an instrumented app handler
func InstrumentHandlerFunc(name string, f handlers.AppHandler) http.HandlerFunc {
	return InstrumentHandler(name, f).ServeHTTP
}

// InstrumentHandler instruments an http.Handler to capture metrics like the number
// the total number of requests served and latency information
func InstrumentHandler(name string, h http.Handler) http.Handler {
	hRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "api_requests_total",
			Help:        "Number of requests per handler.",
			ConstLabels: prometheus.Labels{"handler": name},
		},
		[]string{"code", "method"},
	)

	if err := prometheus.Register(hRequests); err != nil {
		if aerr, ok := err.(prometheus.AlreadyRegisteredError); ok {
			hRequests = aerr.ExistingCollector.(*prometheus.CounterVec)
		} else {
			panic(err)
		}
	}

	hLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "request_duration_seconds",
			Help:        "A histogram of latencies for requests.",
			Buckets:     latencyBuckets,
			ConstLabels: prometheus.Labels{"handler": name},
		},
		[]string{"method"},
	)
	if err := prometheus.Register(hLatency); err != nil {
		if aerr, ok := err.(prometheus.AlreadyRegisteredError); ok {
			hLatency = aerr.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			panic(err)
		}
	}

	return promhttp.InstrumentHandlerInFlight(inFlightGauge,
		promhttp.InstrumentHandlerCounter(hRequests, promhttp.InstrumentHandlerDuration(hLatency, h)),
	)
}

// Metrics returns a http.HandlerFunc for the prometheus /metrics endpoint
func Metrics() http.HandlerFunc {
	return promhttp.Handler().(http.HandlerFunc)
}
