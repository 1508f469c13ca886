package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RaulQD/kontrak-backend-sub001/internal/config"
	"github.com/RaulQD/kontrak-backend-sub001/internal/fieldmap"
	"github.com/RaulQD/kontrak-backend-sub001/internal/pipeline"
	"github.com/RaulQD/kontrak-backend-sub001/internal/render"
)

// Server is the HTTP front of the generation pipeline. Each request builds
// its own pipeline instance; nothing batch-scoped is shared between requests.
type Server struct {
	httpServer *http.Server
	cfg        config.Config
	mapping    fieldmap.Table
	newPool    func() render.Pool
}

// New creates a server. The rendering pool is constructed per run through a
// factory so tests can substitute a fake browser.
func New(cfg config.Config) (*Server, error) {
	mapping := fieldmap.DefaultTable()
	if cfg.MappingPath != "" {
		loaded, err := fieldmap.LoadTable(cfg.MappingPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load mapping table: %w", err)
		}
		mapping = loaded
	}

	s := &Server{
		cfg:     cfg,
		mapping: mapping,
		newPool: func() render.Pool {
			return render.NewBrowserPool(time.Duration(cfg.RenderTimeout)*time.Second, cfg.Verbose)
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /employees/validate", s.handleValidate)
	mux.HandleFunc("POST /contracts/archive", s.handleArchive)
	mux.HandleFunc("POST /contracts/{dni}", s.handleSingleContract)
	mux.HandleFunc("POST /reports/sctr", s.handleSctrReport)
	mux.HandleFunc("POST /reports/fotocheck", s.handleFotocheckReport)
	mux.HandleFunc("POST /reports/vidaley", s.handleVidaLeyReport)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 600 * time.Second, // archive generation streams slowly
	}
	return s, nil
}

// newPipeline builds the per-request pipeline context.
func (s *Server) newPipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(s.newPool(), pipeline.Options{
		Concurrency: s.cfg.Concurrency,
		Signers:     s.cfg.Signers,
		Mapping:     s.mapping,
		Verbose:     s.cfg.Verbose,
	})
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[SERVER] received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[SERVER] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "message": message})
}
