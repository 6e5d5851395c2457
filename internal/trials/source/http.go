package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trialfinder/internal/trials/metrics"
	"trialfinder/internal/trials/models"
)

const (
	// DefaultTrialsPath is the analytics API route serving the full trial list.
	DefaultTrialsPath = "/trials/"

	maxPayloadBytes = 64 << 20
	tracerName      = "trialfinder/source"
)

// HTTPSource fetches trials from the analytics HTTP API with a single GET.
type HTTPSource struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the HTTP client, e.g. with an instrumented one.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(s *HTTPSource) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) HTTPOption {
	return func(s *HTTPSource) {
		s.metrics = m
	}
}

// NewHTTPSource builds a source for baseURL joined with trialsPath
// (DefaultTrialsPath when empty).
func NewHTTPSource(baseURL, trialsPath string, timeout time.Duration, opts ...HTTPOption) (*HTTPSource, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("analytics base URL is required")
	}
	if trialsPath == "" {
		trialsPath = DefaultTrialsPath
	}
	endpoint, err := url.JoinPath(baseURL, trialsPath)
	if err != nil {
		return nil, fmt.Errorf("build trials endpoint: %w", err)
	}
	// JoinPath drops a trailing slash on the last element; Django routes need it.
	if strings.HasSuffix(trialsPath, "/") && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	s := &HTTPSource{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements Source.
func (s *HTTPSource) Name() string {
	return "analytics_http"
}

// Endpoint returns the resolved trials URL.
func (s *HTTPSource) Endpoint() string {
	return s.endpoint
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.Trial, error) {
	start := time.Now()
	defer s.metrics.ObserveFetch(s.Name(), start)

	ctx, span := s.tracer.Start(ctx, "trials.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", s.endpoint)),
	)
	defer span.End()

	trials, err := s.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(GetCategory(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int("trials.count", len(trials)))
	return trials, nil
}

func (s *HTTPSource) fetch(ctx context.Context) ([]models.Trial, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, NewFetchError(ErrorInternal, s.Name(), "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewFetchError(ErrorTimeout, s.Name(), "request timed out", err)
		}
		return nil, NewFetchError(ErrorOutage, s.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewFetchError(categoryForStatus(resp.StatusCode), s.Name(),
			fmt.Sprintf("unexpected status %d", resp.StatusCode),
			fmt.Errorf("body: %s", strings.TrimSpace(string(snippet))))
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewFetchError(ErrorTimeout, s.Name(), "reading response timed out", err)
		}
		return nil, NewFetchError(ErrorOutage, s.Name(), "failed to read response", err)
	}

	res, err := DecodeTrials(payload)
	if err != nil {
		return nil, NewFetchError(ErrorBadData, s.Name(), "response is not a trial list", err)
	}
	if res.Skipped > 0 {
		s.metrics.AddSkippedRecords(res.Skipped)
		s.logger.WarnContext(ctx, "skipped malformed or duplicate trial records",
			"source", s.Name(),
			"skipped", res.Skipped,
			"kept", len(res.Trials),
		)
	}
	return res.Trials, nil
}

func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorOutage
	default:
		return ErrorInternal
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
