package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zhulik/pal"

	"feedkit/internal/config"
)

type HTTPServer struct {
	Logger *slog.Logger
	Config *config.Config

	server *http.Server
	pal    *pal.Pal
}

func (s *HTTPServer) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "metrics.HTTPServer")
	s.pal = pal.FromContext(ctx)

	addr := s.Config.MetricsAddr
	if addr == "" {
		addr = ":8090"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.pal.HealthCheck(r.Context()); err != nil {
			s.Logger.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}

	return nil
}

func (s *HTTPServer) Run(ctx context.Context) error {
	s.Logger.Info("starting metrics server", "addr", s.server.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
