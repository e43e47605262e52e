package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/metrics"
	chiTransport "github.com/kailas-cloud/intentd/internal/transport/chi"
	"github.com/kailas-cloud/intentd/internal/transport/tcp"
	"github.com/kailas-cloud/intentd/internal/version"
	healthuc "github.com/kailas-cloud/intentd/internal/usecase/health"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve classification requests over TCP",
	Long: `Load the tag registry, word vectors and the trained model, then answer
{"sentence": "..."} requests on the TCP socket. The admin HTTP API
(/healthz, /metrics, /v1/classify) is started when http.port is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger

	logger.Info("Starting intentd",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.String("tcp_addr", a.cfg.TCP.Addr()),
		zap.Int("http_port", a.cfg.HTTP.Port),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	classifier, vectors, err := a.classifier(ctx)
	if err != nil {
		return err
	}

	tcpSrv := tcp.NewServer(classifier, logger).
		WithReadTimeout(time.Duration(a.cfg.TCP.ReadTimeoutSec) * time.Second)

	errCh := make(chan error, 2)
	go func() {
		if err := tcpSrv.ListenAndServe(ctx, a.cfg.TCP.Addr()); err != nil && !errors.Is(err, tcp.ErrServerClosed) {
			errCh <- fmt.Errorf("tcp server: %w", err)
		}
	}()

	var httpSrv *http.Server
	if a.cfg.HTTP.Port > 0 {
		healthSvc := healthuc.New(a.dbPinger(), wordVectorChecker(vectors))
		admin := chiTransport.NewServer(classifier, healthSvc, logger)

		httpSrv = &http.Server{
			Addr:         fmt.Sprintf(":%d", a.cfg.HTTP.Port),
			Handler:      admin.Router(a.cfg.HTTP.APIKeys),
			ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
		}
		go func() {
			logger.Info("Starting admin HTTP server", zap.String("addr", httpSrv.Addr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("admin http server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		logger.Error("Server failed", zap.Error(err))
		stop()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during admin HTTP shutdown", zap.Error(err))
		}
	}
	if err := tcpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during TCP shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// dbPinger returns an untyped nil when no store is configured.
// Go gotcha: a nil *Store wrapped in an interface is not nil.
func (a *app) dbPinger() healthuc.DBPinger {
	if a.store == nil {
		return nil
	}
	return a.store
}

func wordVectorChecker(src domain.WordVectorSource) healthuc.WordVectorChecker {
	if hc, ok := src.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}
