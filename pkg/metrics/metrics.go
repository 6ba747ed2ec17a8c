package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标管理器
type Metrics struct {
	registry *prometheus.Registry

	// HTTP请求指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	alertsRaised     *prometheus.CounterVec
	businessCounter  *prometheus.CounterVec
	alertTransitions *prometheus.CounterVec
}

// NewMetrics 创建指标管理器；每个实例使用独立的 registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		alertsRaised: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourist_alerts_raised_total",
				Help: "Alerts raised against tourists",
			},
			[]string{"type", "severity"},
		),

		businessCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "business_operations_total",
				Help: "Total number of business operations",
			},
			[]string{"operation", "status"},
		),

		alertTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourist_alert_status_updates_total",
				Help: "Alert status updates by target status",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest 记录HTTP请求
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAlert 记录新告警
func (m *Metrics) RecordAlert(alertType, severity string) {
	m.alertsRaised.WithLabelValues(alertType, severity).Inc()
}

// RecordAlertStatus 记录告警状态变更
func (m *Metrics) RecordAlertStatus(status string) {
	m.alertTransitions.WithLabelValues(status).Inc()
}

// RecordBusiness 记录业务操作结果，status 取 success / failure
func (m *Metrics) RecordBusiness(operation, status string) {
	m.businessCounter.WithLabelValues(operation, status).Inc()
}

// Registry 暴露底层 registry，便于测试读取
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 输出
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
