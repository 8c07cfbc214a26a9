package metrics

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/rpsgame-go/internal/model"
)

const namespace = "rps"

// Recorder counts game activity and HTTP traffic
type Recorder struct {
	registry *prometheus.Registry

	GamesStarted   prometheus.Counter
	GamesFinished  *prometheus.CounterVec
	RoundsResolved *prometheus.CounterVec
	ChoicesPlayed  *prometheus.CounterVec
	Rejections     *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a Recorder on its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games whose first round has started",
		}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that ended, by result",
		}, []string{"result"}),
		RoundsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_resolved_total",
			Help:      "Rounds resolved, by outcome",
		}, []string{"outcome"}),
		ChoicesPlayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_played_total",
			Help:      "Choices revealed in resolved rounds",
		}, []string{"choice"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Submissions rejected by the round engine, by kind",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.GamesStarted,
		r.GamesFinished,
		r.RoundsResolved,
		r.ChoicesPlayed,
		r.Rejections,
		r.HTTPRequests,
		r.HTTPDuration,
	)
	return r
}

// Registry returns the recorder's registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RegisterGauge exposes a value sampled at scrape time
func (r *Recorder) RegisterGauge(name, help string, fn func() float64) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// Notify updates counters from engine events
func (r *Recorder) Notify(_ context.Context, event model.Event) {
	switch p := event.Payload.(type) {
	case model.RoundStartedPayload:
		if p.Round == 1 {
			r.GamesStarted.Inc()
		}
	case model.RoundResolvedPayload:
		r.RoundsResolved.WithLabelValues(string(p.Outcome)).Inc()
		r.ChoicesPlayed.WithLabelValues(string(p.Player1Choice)).Inc()
		r.ChoicesPlayed.WithLabelValues(string(p.Player2Choice)).Inc()
	case model.GameFinishedPayload:
		if p.Draw {
			r.GamesFinished.WithLabelValues("draw").Inc()
		} else {
			r.GamesFinished.WithLabelValues("win").Inc()
		}
	case model.GameAbandonedPayload:
		r.GamesFinished.WithLabelValues("abandoned").Inc()
	}

	switch event.Type {
	case model.EventValidationError:
		r.Rejections.WithLabelValues("validation").Inc()
	case model.EventStateError:
		r.Rejections.WithLabelValues("state").Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route template
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, req)

		route := "unmatched"
		if current := mux.CurrentRoute(req); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		r.HTTPRequests.WithLabelValues(req.Method, route, strconv.Itoa(wrapped.status)).Inc()
		r.HTTPDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets streaming handlers work through the wrapper
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets WebSocket upgrades work through the wrapper
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Unwrap exposes the underlying writer to http.ResponseController
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
