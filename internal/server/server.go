// Package server implements the webhook receiver: an HTTP endpoint that
// authenticates inbound EasyPost event deliveries before handing them to
// a caller-supplied handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/easypost/internal/telemetry"
	"github.com/tournevent/easypost/pkg/easypost"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EventHandler consumes a verified webhook event.
type EventHandler func(ctx context.Context, event *easypost.Event) error

// Server is the HTTP server receiving EasyPost webhook deliveries.
type Server struct {
	port    int
	secret  string
	handler EventHandler
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port          int
	WebhookSecret string
}

// New creates a new server instance. A nil handler logs events and
// discards them.
func New(cfg Config, handler EventHandler, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	return &Server{
		port:    cfg.Port,
		secret:  cfg.WebhookSecret,
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting webhook receiver", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down webhook receiver")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Routes builds the HTTP mux: health check, Prometheus metrics, and the
// webhook endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/webhooks/easypost", s.handleWebhook)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// The raw body is what was signed; it must not be re-serialized.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read webhook body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	event, err := easypost.ValidateWebhook(body, r.Header, s.secret)
	if err != nil {
		var sigErr *easypost.SignatureVerificationError
		if errors.As(err, &sigErr) {
			s.metrics.RecordVerification("rejected")
			s.logger.Warn("Rejected webhook delivery", zap.Error(err))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.metrics.RecordVerification("malformed")
		s.logger.Error("Malformed webhook delivery", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.metrics.RecordVerification("accepted")
	s.logger.Info("Received webhook event",
		zap.String("event_id", event.ID),
		zap.String("description", event.Description),
		zap.String("mode", event.Mode),
	)

	if s.handler != nil {
		if err := s.handler(r.Context(), event); err != nil {
			s.logger.Error("Webhook handler failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
