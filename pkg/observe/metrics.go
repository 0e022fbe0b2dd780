package observe

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"binapi/pkg/core"
	"binapi/pkg/service"
)

// HeaderUsedWeight carries the request weight consumed in the current minute.
const HeaderUsedWeight = "X-Mbx-Used-Weight-1m"

// MetricsInterceptor records Prometheus metrics for dispatched calls.
// Calls that fail before a response is received are counted in
// requests_total but never reach responses_total.
type MetricsInterceptor struct {
	requestsTotal    *prometheus.CounterVec
	requestWeight    *prometheus.CounterVec
	responsesTotal   *prometheus.CounterVec
	responseDuration *prometheus.HistogramVec
	usedWeight       prometheus.Gauge
}

var _ service.Interceptor = (*MetricsInterceptor)(nil)

// NewMetricsInterceptor creates an interceptor on the default registerer.
func NewMetricsInterceptor() *MetricsInterceptor {
	return NewMetricsInterceptorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsInterceptorWithRegistry creates an interceptor using the supplied registerer.
func NewMetricsInterceptorWithRegistry(registry prometheus.Registerer) *MetricsInterceptor {
	return &MetricsInterceptor{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "binapi_requests_total",
				Help: "Total number of calls dispatched",
			},
			[]string{"operation"},
		),
		requestWeight: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "binapi_request_weight_total",
				Help: "Sum of declared endpoint weights of dispatched calls",
			},
			[]string{"operation"},
		),
		responsesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "binapi_responses_total",
				Help: "Total number of responses received",
			},
			[]string{"operation", "status_code"},
		),
		responseDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "binapi_response_duration_seconds",
				Help:    "Time from dispatch to response in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		usedWeight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "binapi_used_weight_1m",
				Help: "Request weight used in the current minute as reported by the server",
			},
		),
	}
}

func (m *MetricsInterceptor) BeforeRequest(req *core.Request, _ bool) error {
	op := req.Operation.String()
	m.requestsTotal.WithLabelValues(op).Inc()
	m.requestWeight.WithLabelValues(op).Add(float64(req.Weight))
	return nil
}

func (m *MetricsInterceptor) AfterResponse(resp *service.Response, _ bool) error {
	op := resp.Request.Operation.String()
	m.responsesTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	m.responseDuration.WithLabelValues(op).Observe(resp.Duration.Seconds())

	if raw := resp.Header.Get(HeaderUsedWeight); raw != "" {
		used, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		m.usedWeight.Set(used)
	}
	return nil
}
