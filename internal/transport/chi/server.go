// Package chi exposes the admin HTTP API: health, metrics and a JSON
// classification endpoint mirroring the TCP protocol.
package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/domain"
	logpkg "github.com/kailas-cloud/intentd/internal/logger"
	"github.com/kailas-cloud/intentd/internal/metrics"
	"github.com/kailas-cloud/intentd/internal/transport/protocol"
	healthuc "github.com/kailas-cloud/intentd/internal/usecase/health"
)

// maxBodyBytes caps a classify request body.
const maxBodyBytes = 64 << 10

// Classifier answers one sentence.
type Classifier interface {
	Classify(ctx context.Context, sentence string) (domain.Prediction, error)
}

// HealthChecker produces a health report.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the admin API handlers.
type Server struct {
	classifier Classifier
	health     HealthChecker
	logger     *zap.Logger
}

// NewServer creates an admin HTTP server.
func NewServer(classifier Classifier, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{classifier: classifier, health: health, logger: logger}
}

// Router builds the chi router with the standard middleware stack.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/healthz", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/v1/classify", s.Classify)
	return r
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Classify handles POST /v1/classify with the TCP request/response payloads.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	log := logpkg.FromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.Failure(protocol.ErrInvalidPayload))
		return
	}

	sentence, err := protocol.DecodeRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.Failure(err))
		return
	}

	pred, err := s.classifier.Classify(r.Context(), sentence)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("Classification failed", zap.String("sentence", sentence), zap.Error(err))
		}
		metrics.RequestsTotal.WithLabelValues("http", protocol.StatusError).Inc()
		writeJSON(w, status, protocol.Failure(err))
		return
	}

	metrics.RequestsTotal.WithLabelValues("http", protocol.StatusOK).Inc()
	metrics.PredictionConfidence.Observe(pred.Confidence)
	writeJSON(w, http.StatusOK, protocol.Success(sentence, pred))
}

func statusFor(err error) int {
	switch protocol.MessageFor(err) {
	case protocol.MsgInternal:
		return http.StatusInternalServerError
	case protocol.MsgNoPrediction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
