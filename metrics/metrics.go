package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics 는 API/worker 가 기록하는 계측값 모음이다.
// nil 리시버에서도 안전하게 호출할 수 있다.
type Metrics struct {
	HTTPRequests   metric.Int64Counter
	HTTPDuration   metric.Float64Histogram
	FlowRuns       metric.Int64Counter
	FlowDuration   metric.Float64Histogram
	FlowTokens     metric.Int64Counter
	PostsPublished metric.Int64Counter
}

// Setup 은 전용 prometheus 레지스트리에 연결된 meter 를 만들고 /metrics 핸들러를 반환한다.
func Setup(serviceName string) (*Metrics, http.Handler, error) {
	reg := promclient.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	m := &Metrics{}
	if m.HTTPRequests, err = meter.Int64Counter(
		"postpilot_http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, nil, err
	}
	if m.HTTPDuration, err = meter.Float64Histogram(
		"postpilot_http_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
	); err != nil {
		return nil, nil, err
	}
	if m.FlowRuns, err = meter.Int64Counter(
		"postpilot_flow_runs_total",
		metric.WithDescription("AI flow invocations by flow and outcome"),
	); err != nil {
		return nil, nil, err
	}
	if m.FlowDuration, err = meter.Float64Histogram(
		"postpilot_flow_duration_seconds",
		metric.WithDescription("AI flow latency in seconds"),
	); err != nil {
		return nil, nil, err
	}
	if m.FlowTokens, err = meter.Int64Counter(
		"postpilot_flow_tokens_total",
		metric.WithDescription("Tokens consumed by AI flows"),
	); err != nil {
		return nil, nil, err
	}
	if m.PostsPublished, err = meter.Int64Counter(
		"postpilot_posts_published_total",
		metric.WithDescription("Scheduled posts marked published by the sweeper"),
	); err != nil {
		return nil, nil, err
	}

	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	)
	m.HTTPRequests.Add(ctx, 1, labels)
	m.HTTPDuration.Record(ctx, duration.Seconds(), labels)
}

// RecordFlow 는 outcome 으로 ok, invalid_input, model_error, quota 중 하나를 받는다.
func (m *Metrics) RecordFlow(ctx context.Context, flow, outcome string, duration time.Duration, totalTokens int64) {
	if m == nil {
		return
	}
	labels := metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	)
	m.FlowRuns.Add(ctx, 1, labels)
	if duration > 0 {
		m.FlowDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("flow", flow)))
	}
	if totalTokens > 0 {
		m.FlowTokens.Add(ctx, totalTokens, metric.WithAttributes(attribute.String("flow", flow)))
	}
}

func (m *Metrics) RecordPublished(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PostsPublished.Add(ctx, int64(n))
}

// GinMiddleware 는 라우트 패턴 단위로 요청 수와 지연을 기록한다.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Context(), c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
