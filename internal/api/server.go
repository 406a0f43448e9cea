// Package api exposes the asset record store over a read-only HTTP API.
// All writes go through the reconciliation engine; the API only serves
// snapshots of the current document.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/store"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/config"
	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/pkg/models"
)

// Server represents the HTTP API server
type Server struct {
	cfg        *config.Config
	logger     *logrus.Logger
	router     *mux.Router
	httpServer *http.Server

	store store.AssetStore
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, assetStore store.AssetStore, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  assetStore,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)

	if s.cfg.Server.CORSEnabled {
		s.router.Use(s.corsMiddleware)
	}

	apiV1 := s.router.PathPrefix("/api/v1").Subrouter()

	apiV1.HandleFunc("/health", s.handleHealth).Methods("GET")

	apiV1.HandleFunc("/assets", s.handleGetAssets).Methods("GET")
	apiV1.HandleFunc("/assets/{key}", s.handleGetAsset).Methods("GET")
	apiV1.HandleFunc("/assets/{key}/history", s.handleGetHistory).Methods("GET")
	apiV1.HandleFunc("/assets/{key}/intraday", s.handleGetIntraday).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.cfg.GetServerAddr()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.WithField("address", addr).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if strings.Contains(err.Error(), "address already in use") {
			return fmt.Errorf("port %d is already in use", s.cfg.Server.Port)
		}
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Middleware functions

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapped.statusCode,
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		}).Info("HTTP request")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.WithFields(logrus.Fields{
					"error": err,
					"path":  r.URL.Path,
				}).Error("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.cfg.Server.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(next)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Handler functions

// handleHealth checks the health status of the store backend
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storeOK := s.store.Health(r.Context()) == nil

	status := "healthy"
	code := http.StatusOK
	if !storeOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"services": map[string]bool{
			"store": storeOK,
		},
		"timestamp": time.Now().Unix(),
	})
}

// handleGetAssets returns all asset records, optionally filtered by type.
func (s *Server) handleGetAssets(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to load asset records")
		http.Error(w, "Failed to retrieve assets", http.StatusInternalServerError)
		return
	}

	typeFilter := r.URL.Query().Get("type")

	assets := make([]*models.AssetRecord, 0, len(records))
	for _, rec := range records {
		if typeFilter != "" && string(rec.Type) != typeFilter {
			continue
		}
		assets = append(assets, rec)
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Key < assets[j].Key })

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	})
}

// handleGetAsset returns a single asset record by key.
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// handleGetHistory returns the daily close series of an asset.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"key":     rec.Key,
		"history": rec.History,
		"count":   len(rec.History),
	})
}

// handleGetIntraday returns the hourly samples of the current day.
func (s *Server) handleGetIntraday(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"key":      rec.Key,
		"intraday": rec.Intraday,
		"count":    len(rec.Intraday),
	})
}

// lookup fetches the record named in the route, writing the error response
// itself when the record cannot be served.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*models.AssetRecord, bool) {
	key := mux.Vars(r)["key"]

	records, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to load asset records")
		http.Error(w, "Failed to retrieve asset", http.StatusInternalServerError)
		return nil, false
	}

	rec, ok := records[key]
	if !ok {
		http.Error(w, fmt.Sprintf("Asset not found: %s", key), http.StatusNotFound)
		return nil, false
	}
	return rec, true
}
