package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"favorite-rates-service/internal/metrics"
	"favorite-rates-service/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Router struct {
	handler  *Handler
	log      *logger.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// NewRouter serves /metrics from gatherer, which should be the registry the
// metrics were registered with.
func NewRouter(handler *Handler, log *logger.Logger, metrics *metrics.Metrics, gatherer prometheus.Gatherer) *Router {
	return &Router{
		handler:  handler,
		log:      log,
		metrics:  metrics,
		gatherer: gatherer,
	}
}

// requestIDMiddleware reuses an incoming X-Request-ID or mints one.
func (r *Router) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), requestIDKey{}, id)))
	})
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		crw := &customResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(crw, req)

		duration := time.Since(start)
		r.metrics.HTTPRequestDuration.WithLabelValues(req.URL.Path, req.Method).Observe(duration.Seconds())
		r.metrics.HTTPRequestsTotal.WithLabelValues(req.URL.Path, req.Method, fmt.Sprintf("%dxx", crw.statusCode/100)).Inc()

		r.log.Info("HTTP request",
			"method", req.Method,
			"path", req.URL.Path,
			"query", req.URL.RawQuery,
			"status", crw.statusCode,
			"duration", duration,
			"remote_addr", req.RemoteAddr,
			"request_id", requestIDFrom(req.Context()),
		)
	})
}

type customResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (crw *customResponseWriter) WriteHeader(code int) {
	crw.statusCode = code
	crw.ResponseWriter.WriteHeader(code)
}

func (r *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/favorites", r.handler.ListFavoritesHandler)
	mux.HandleFunc("POST /api/v1/favorites", r.handler.AddFavoriteHandler)
	mux.HandleFunc("DELETE /api/v1/favorites", r.handler.RemoveFavoriteHandler)
	mux.HandleFunc("GET /api/v1/favorites/rates", r.handler.RefreshFavoritesHandler)
	mux.HandleFunc("GET /api/v1/refresh", r.handler.RefreshHandler)
	mux.HandleFunc("GET /api/v1/rates", r.handler.QuoteHandler)
	mux.HandleFunc("GET /api/v1/history", r.handler.HistoryHandler)
	mux.HandleFunc("GET /api/v1/history/sparkline", r.handler.SparklineHandler)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	apiWithMiddleware := r.requestIDMiddleware(r.loggingMiddleware(mux))

	rootMux := http.NewServeMux()

	rootMux.Handle("/", apiWithMiddleware)
	rootMux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))

	return rootMux
}
