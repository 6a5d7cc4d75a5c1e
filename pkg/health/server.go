package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/connector-harness/connector-auth/pkg/errors"
	"github.com/connector-harness/connector-auth/pkg/logger"
)

// Server exposes liveness, readiness and metrics endpoints
type Server struct {
	addr         string
	server       *http.Server
	logger       logger.Logger
	serviceName  string
	checkTimeout time.Duration
	checks       map[string]Check
	mu           sync.RWMutex
	startTime    time.Time
}

// Check is a named readiness check. Checks run on every /readyz request.
type Check func(ctx context.Context) error

// Config holds server configuration
type Config struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration

	// CheckTimeout bounds one readiness evaluation
	CheckTimeout time.Duration

	// ServiceName is reported by the root endpoint
	ServiceName string

	// Gatherer backs /metrics (default: prometheus.DefaultGatherer)
	Gatherer prometheus.Gatherer

	// Logger for health server
	Logger logger.Logger
}

// DefaultConfig returns default health server configuration
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		CheckTimeout: 5 * time.Second,
		ServiceName:  "connector-auth",
	}
}

// NewServer creates a new health check server
func NewServer(config Config) *Server {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.CheckTimeout <= 0 {
		config.CheckTimeout = DefaultConfig().CheckTimeout
	}

	s := &Server{
		addr:         config.Address,
		logger:       config.Logger,
		serviceName:  config.ServiceName,
		checkTimeout: config.CheckTimeout,
		checks:       make(map[string]Check),
		startTime:    time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleLiveness)
	mux.HandleFunc("/livez", s.handleLiveness) // Alias for /healthz
	mux.HandleFunc("/readyz", s.handleReadiness)
	mux.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:         config.Address,
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// RegisterCheck adds a named readiness check
func (s *Server) RegisterCheck(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
	s.logger.Info("Registered health check",
		logger.String("name", name),
	)
}

// Start starts serving in the background
func (s *Server) Start() error {
	s.logger.Info("Starting health server",
		logger.String("address", s.addr),
	)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Health server error", logger.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping health server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   s.serviceName,
		"status":    "running",
		"uptime":    time.Since(s.startTime).String(),
		"checks":    names,
		"endpoints": []string{"/healthz", "/readyz", "/livez", "/metrics"},
	})
}

// handleLiveness answers as long as the process serves HTTP
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: map[string]string{
			"server": "running",
		},
	})
}

// handleReadiness runs every registered check
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.checkTimeout)
	defer cancel()

	s.mu.RLock()
	checks := make(map[string]Check, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	if len(checks) == 0 {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status: "ok",
			Checks: map[string]string{
				"server": "ready",
			},
		})
		return
	}

	results := make(map[string]string, len(checks))
	allHealthy := true

	for name, check := range checks {
		if err := check(ctx); err != nil {
			results[name] = "failed: " + describe(err)
			allHealthy = false
			s.logger.Warn("Health check failed",
				logger.String("check", name),
				logger.Error(err),
			)
		} else {
			results[name] = "ok"
		}
	}

	status := "ok"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: results,
	})
}

// describe renders a check failure for the response body. Application
// errors are redacted and reduced to their code and title so field values
// stay in logs.
func describe(err error) string {
	var appErr *errors.Error
	if errors.As(err, &appErr) {
		redacted := appErr.Redact()
		if connector, ok := redacted.Fields["connector"]; ok {
			return fmt.Sprintf("%s: %s (connector %v)", redacted.Code, redacted.Title, connector)
		}
		return fmt.Sprintf("%s: %s", redacted.Code, redacted.Title)
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
