// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analysis service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/plagiarism-engine/internal/analysis"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

// AppName is reported by the root and health endpoints.
const AppName = "Plagiarism Engine"

const maxBodyBytes = 1 << 20

// Pinger reports whether the corpus database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server routes HTTP requests to the analysis service.
type Server struct {
	svc     *analysis.Service
	db      Pinger
	cfg     types.ServerConfig
	version string
	log     *slog.Logger
}

// New returns a Server.
func New(svc *analysis.Service, db Pinger, cfg types.ServerConfig, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, db: db, cfg: cfg, version: version, log: log}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors(s.cfg.CORSOrigins))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/external", s.handleAnalyzeExternal)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server starting", slog.String("addr", s.cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status            string `json:"status"`
	AppName           string `json:"app_name"`
	Version           string `json:"version"`
	DatabaseConnected bool   `json:"database_connected"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to " + AppName,
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "healthy", AppName: AppName, Version: s.version, DatabaseConnected: true}
	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn("database ping failed", slog.Any("error", err))
		resp.Status = "degraded"
		resp.DatabaseConnected = false
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.AnalyzeLocal(r.Context(), req)
	if err != nil {
		if isClientError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: clientMessage(err)})
			return
		}
		s.log.Error("local analysis failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleAnalyzeExternal(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.AnalyzeExternal(r.Context(), req)
	if err != nil {
		if isClientError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: clientMessage(err)})
			return
		}
		s.log.Error("external analysis failed", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "External service unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (analysis.Request, bool) {
	var req analysis.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid JSON body"})
		return req, false
	}
	return req, true
}

func isClientError(err error) bool {
	return errors.Is(err, analysis.ErrInvalidRequest) || errors.Is(err, analysis.ErrTextTooShort)
}

// clientMessage capitalises the validation error for display.
func clientMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// cors answers preflight requests and sets the allow-origin header for
// listed origins. "*" allows any origin.
func cors(origins []string) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || allowed[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
