// Package server exposes cell records and chart rendering over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cellplot/cellplot/internal/chart"
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/sink"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds chart request payloads.
const maxBodyBytes = 8 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the JSON API and the stored chart images.
type Server struct {
	manager   contract.StoreManager
	composer  *chart.Composer
	images    contract.ByteSink
	staticDir string
}

// New creates a server. Images are served from <staticDir>/graphs under /static/graphs/.
func New(manager contract.StoreManager, composer *chart.Composer, images contract.ByteSink, staticDir string) *Server {
	return &Server{manager: manager, composer: composer, images: images, staticDir: staticDir}
}

// Handler returns the routed handler wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/cells", s.handleCells)
	mux.HandleFunc("GET /api/cycle_summaries", s.handleCycleSummaries)
	mux.HandleFunc("GET /api/cycle_timeseries", s.handleCycleTimeseries)
	mux.HandleFunc("POST /api/generate_image_base64", s.handleSegmentImage)
	mux.HandleFunc("POST /api/generate_image_base64FREE", s.handleFreeImage)

	graphs := filepath.Join(s.staticDir, sink.GraphsDir)
	mux.Handle("GET /static/graphs/", http.StripPrefix("/static/graphs/", http.FileServer(http.Dir(graphs))))

	return logRequests(cors(mux))
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// records returns the configured record store or an error when none was initialized.
func (s *Server) records() (contract.RecordStore, error) {
	var rs contract.RecordStore
	if s.manager != nil {
		rs = s.manager.GetRecordStore()
	}
	if rs == nil {
		return nil, errors.New("record store is not initialized")
	}
	return rs, nil
}
