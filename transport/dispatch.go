package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fedsign/fedsign/request"
	"github.com/fedsign/fedsign/requestctx"
	"github.com/fedsign/fedsign/utils"
)

// Result of one HTTP exchange. A remote rejection of a signature is just a
// status code here; locally we cannot tell clock skew from a wrong secret
// and we do not try to.
type Result struct {
	StatusCode int
	Body       []byte
}

// Rejected is true when the remote refused our authentication material.
func (r *Result) Rejected() bool {
	return r.StatusCode == http.StatusUnauthorized || r.StatusCode == http.StatusForbidden
}

// Dispatcher performs exactly one exchange for a signed request. No retries:
// a retry needs a freshly signed request because the timestamp is part of
// the signature.
type Dispatcher interface {
	Dispatch(ctx context.Context, sr *request.SignedRequest) (*Result, error)
}

type HTTPDispatcher struct {
	client *http.Client

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewHTTPDispatcher wraps an http.Client. A nil client means
// http.DefaultClient, a nil registerer means no metrics.
func NewHTTPDispatcher(client *http.Client, reg prometheus.Registerer) *HTTPDispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	d := &HTTPDispatcher{
		client: client,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbound_http_requests_total",
				Help: "Signed requests dispatched, by method and response code.",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "outbound_http_request_duration_seconds",
				Help:    "Wall time of one dispatched exchange.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(d.requestsTotal, d.requestDuration)
	}
	return d
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, sr *request.SignedRequest) (*Result, error) {
	r, err := sr.ToHTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	resp, err := d.client.Do(r)
	d.requestDuration.Observe(time.Since(startTime).Seconds())
	if err != nil {
		d.requestsTotal.WithLabelValues(sr.Method, "error").Inc()
		return nil, fmt.Errorf("could not dispatch signed request: %w", err)
	}
	defer utils.Close(resp.Body, "Dispatch", ctx)
	d.requestsTotal.WithLabelValues(sr.Method, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	requestctx.AddAccessLogInfo(ctx, "transport", slog.Int("status", resp.StatusCode))
	return &Result{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
