package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cliptag/internal/clipstore"
	"cliptag/internal/config"
	"cliptag/internal/library"
	"cliptag/internal/logging"
	"cliptag/internal/services"
)

// Library is the subset of the clip library the API serves.
type Library interface {
	Ingest(ctx context.Context, upload library.Upload) (*clipstore.Clip, error)
	List(ctx context.Context, filter clipstore.Filter) ([]clipstore.Clip, error)
	Get(ctx context.Context, id string) (*clipstore.Clip, error)
	Update(ctx context.Context, id string, changes library.Changes) (*clipstore.Clip, error)
	Delete(ctx context.Context, id string) error
	UploadDir() string
	MaxUploadBytes() int64
}

// Server serves the clip API.
type Server struct {
	bind    string
	logger  *slog.Logger
	lib     Library
	started time.Time
	now     func() time.Time

	router   *mux.Router
	handler  http.Handler
	listener net.Listener
	server   *http.Server
}

// New builds the server and its routes. Nothing listens until Start.
func New(cfg *config.Config, lib Library, logger *slog.Logger) (*Server, error) {
	if cfg == nil || lib == nil {
		return nil, errors.New("http api requires config and library")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, services.Wrap(services.ErrConfiguration, "httpapi", "new", "api_bind not configured", nil)
	}

	s := &Server{
		bind:   bind,
		logger: logger,
		lib:    lib,
		now:    time.Now,
	}
	s.started = s.now()
	s.router = s.routes()
	s.handler = corsMiddleware(s.router)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware)

	// API routes live on the root router so a method mismatch reaches
	// MethodNotAllowedHandler; a subrouter reports it as not found.
	r.HandleFunc("/api/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/clips", s.handleListClips).Methods(http.MethodGet)
	r.HandleFunc("/api/clips/{id}", s.handleGetClip).Methods(http.MethodGet)
	r.HandleFunc("/api/clips/{id}", s.handleUpdateClip).Methods(http.MethodPut)
	r.HandleFunc("/api/clips/{id}", s.handleDeleteClip).Methods(http.MethodDelete)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.lib.UploadDir()))),
	).Methods(http.MethodGet, http.MethodHead)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr reports the listening address once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := s.now()
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
		s.log().Debug("request handled",
			logging.String(logging.FieldCorrelationID, id),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", s.now().Sub(start)),
		)
	})
}

// corsMiddleware allows any origin, matching a browser frontend served
// from a different port.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Warn("failed to encode api response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeFailure maps a marked error to its status and logs server-side faults.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := services.HTTPStatus(err)
	logger := logging.WithContext(r.Context(), s.log())
	if status >= http.StatusInternalServerError {
		logging.WarnWithContext(logger, "api request failed", "api_request_failed",
			logging.String("operation", op),
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
		)
	} else {
		logger.Debug("api request rejected",
			logging.String("operation", op),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return services.Wrap(services.ErrValidation, "httpapi", "decode body", "invalid JSON body", err)
	}
	return nil
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
