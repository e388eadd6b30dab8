// Package services – PredictService
//
// PredictService proxies classification requests to the remote inference
// endpoint (a Hugging Face style model server). It chooses the outbound
// payload, decodes the answer according to its content type, and classifies
// the outcome for metrics.
//
// There is no client timeout, retry or circuit breaking: the outbound call is
// bound to the inbound request context only.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Outcome labels for spamzero_predictions_total.
const (
	OutcomeOK            = "ok"
	OutcomeUpstreamError = "upstream_error"
	OutcomeFailed        = "failed"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spamzero_predictions_total",
			Help: "Prediction proxy calls by outcome.",
		},
		[]string{"outcome"},
	)
	upstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spamzero_upstream_duration_seconds",
			Help:    "Latency of calls to the inference endpoint.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// textKeys are probed in order for the text to classify.
var textKeys = [...]string{"message", "text", "inputs"}

// PredictService forwards classification requests to URL.
type PredictService struct {
	URL    string
	Client *http.Client
}

// NewPredictService returns a proxy for url using a traced HTTP client.
func NewPredictService(url string) *PredictService {
	return &PredictService{
		URL: strings.TrimSpace(url),
		Client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var predictTracer = otel.Tracer("services/PredictService")

// Ready returns ErrNotConfigured when no endpoint URL is set.
func (s *PredictService) Ready() error {
	if s == nil || strings.TrimSpace(s.URL) == "" {
		return ErrNotConfigured
	}
	return nil
}

// ExtractText returns the first of "message", "text" or "inputs" holding a
// string. Other value types are skipped. It returns "" when none matches or
// body is not an object.
func ExtractText(body any) string {
	m, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	for _, k := range textKeys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// Payload builds the outbound body: {"message": text} when text has
// non-whitespace content, otherwise raw verbatim.
func Payload(text string, raw json.RawMessage) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return raw, nil
	}
	return json.Marshal(map[string]string{"message": text})
}

// Classify posts the payload for text (or raw) to the endpoint and returns the
// decoded result. A non-2xx answer yields *UpstreamError; transport and
// decoding failures are returned as plain errors.
func (s *PredictService) Classify(ctx context.Context, text string, raw json.RawMessage) (any, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	ctx, span := predictTracer.Start(ctx, "Classify")
	defer span.End()

	payload, err := Payload(text, raw)
	if err != nil {
		return nil, s.failed(span, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, s.failed(span, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	upstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.failed(span, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := decodeResponse(resp)
	if err != nil {
		return nil, s.failed(span, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		predictionsTotal.WithLabelValues(OutcomeUpstreamError).Inc()
		span.SetStatus(codes.Error, "upstream error")
		return nil, &UpstreamError{Status: resp.StatusCode, Details: data}
	}

	predictionsTotal.WithLabelValues(OutcomeOK).Inc()
	return data, nil
}

func (s *PredictService) failed(span trace.Span, err error) error {
	predictionsTotal.WithLabelValues(OutcomeFailed).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// decodeResponse parses JSON bodies and returns anything else as text.
func decodeResponse(resp *http.Response) (any, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return string(body), nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode upstream json: %w", err)
	}
	return v, nil
}
