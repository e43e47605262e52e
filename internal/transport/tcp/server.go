package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/domain"
	logpkg "github.com/kailas-cloud/intentd/internal/logger"
	"github.com/kailas-cloud/intentd/internal/metrics"
	"github.com/kailas-cloud/intentd/internal/transport/protocol"
)

const (
	transportLabel = "tcp"
	maxAcceptDelay = time.Second
)

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("tcp: server closed")

var errPanic = errors.New("handler panic")

// Classifier answers one sentence.
type Classifier interface {
	Classify(ctx context.Context, sentence string) (domain.Prediction, error)
}

// Server accepts connections and handles each in its own goroutine.
type Server struct {
	classifier  Classifier
	logger      *zap.Logger
	readTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	closed   bool

	conns sync.WaitGroup
	seq   atomic.Uint64
}

// NewServer creates a TCP classification server.
func NewServer(classifier Classifier, logger *zap.Logger) *Server {
	return &Server{classifier: classifier, logger: logger}
}

// WithReadTimeout bounds how long a connection may take to deliver its
// request. Zero waits forever.
func (s *Server) WithReadTimeout(d time.Duration) *Server {
	s.readTimeout = d
	return s
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or Shutdown is called.
// It always returns a non-nil error; after shutdown it is ErrServerClosed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { s.closeListener() })
	defer stop()

	s.logger.Info("TCP server listening", zap.String("addr", ln.Addr().String()))

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			metrics.AcceptErrorsTotal.Inc()
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			s.logger.Warn("Accept failed, retrying", zap.Error(err), zap.Duration("retry_in", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.conns.Add(1)
		go s.handle(ctx, conn)
	}
}

// Shutdown stops accepting and waits for in-flight connections or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeListener()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for connections: %w", ctx.Err())
	}
}

func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	start := time.Now()
	requestID := fmt.Sprintf("tcp-%06d", s.seq.Add(1))
	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	ctx = logpkg.ContextWithRequestID(ctx, requestID)
	ctx = logpkg.ContextWithLogger(ctx, log)

	metrics.ActiveConnections.Inc()
	status := protocol.StatusError

	defer func() {
		if rvr := recover(); rvr != nil {
			log.Error("panic recovered", zap.Any("panic", rvr), zap.Stack("stacktrace"))
			s.write(log, conn, protocol.Failure(errPanic))
			status = "panic"
		}
		_ = conn.Close()
		metrics.ActiveConnections.Dec()
		metrics.RequestsTotal.WithLabelValues(transportLabel, status).Inc()
		metrics.RequestDuration.WithLabelValues(transportLabel).Observe(time.Since(start).Seconds())
		s.conns.Done()
	}()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	data, err := io.ReadAll(conn)
	if err != nil {
		log.Warn("Failed to read request", zap.Error(err))
		status = "read_error"
		return
	}

	var resp any
	resp, status = s.process(ctx, data)
	s.write(log, conn, resp)

	log.Info("tcp_request",
		zap.String("status", status),
		zap.Int("request_bytes", len(data)),
		zap.Duration("latency", time.Since(start)),
	)
}

// process turns a raw request into a response payload and its status label.
func (s *Server) process(ctx context.Context, data []byte) (any, string) {
	log := logpkg.FromContext(ctx)

	sentence, err := protocol.DecodeRequest(data)
	if err != nil {
		log.Info("Rejected request", zap.Error(err))
		return protocol.Failure(err), protocol.StatusError
	}

	pred, err := s.classifier.Classify(ctx, sentence)
	if err != nil {
		if protocol.MessageFor(err) == protocol.MsgInternal {
			log.Error("Classification failed", zap.String("sentence", sentence), zap.Error(err))
		} else {
			log.Info("Classification rejected", zap.String("sentence", sentence), zap.Error(err))
		}
		return protocol.Failure(err), protocol.StatusError
	}

	metrics.PredictionConfidence.Observe(pred.Confidence)
	return protocol.Success(sentence, pred), protocol.StatusOK
}

func (s *Server) write(log *zap.Logger, conn net.Conn, payload any) {
	if _, err := conn.Write(protocol.Marshal(payload)); err != nil {
		log.Warn("Failed to write response", zap.Error(err))
	}
}
