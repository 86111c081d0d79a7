package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/adapters/database"
	redisAdapter "github.com/pulsefeed/trending/internal/adapters/redis"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/pkg/logger"
)

// Server provides liveness/readiness HTTP endpoints for K8s probes
type Server struct {
	server    *http.Server
	db        *database.DB
	redis     *redisAdapter.Client
	predictor *predictor.Predictor
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessStatus represents system readiness
type ReadinessStatus struct {
	Ready     bool              `json:"ready"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Model     ModelStatus       `json:"model"`
}

// ModelStatus reports the live prediction model
type ModelStatus struct {
	Accuracy    float64 `json:"accuracy"`
	LastTrained string  `json:"last_trained,omitempty"`
}

// NewServer creates new health check server
func NewServer(port string, db *database.DB, redis *redisAdapter.Client, pred *predictor.Predictor) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         ":" + port,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		db:        db,
		redis:     redis,
		predictor: pred,
		startTime: time.Now(),
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReadiness)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReadiness)

	return s
}

// Start starts the health server in background
func (s *Server) Start() {
	go func() {
		logger.Info("health server listening",
			zap.String("addr", s.server.Addr),
		)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", zap.Error(err))
		}
	}()
}

// Shutdown stops the health server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// SetReady marks the process as ready to serve
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready
}

func (s *Server) isReady() bool {
	s.readyMu.RLock()
	defer s.readyMu.RUnlock()
	return s.ready
}

// handleHealth is the liveness probe: process up and dependencies reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ok"

	if err := s.db.Health(); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	} else {
		checks["database"] = "ok"
	}

	if err := s.redis.Health(); err != nil {
		checks["redis"] = err.Error()
		status = "degraded"
	} else {
		checks["redis"] = "ok"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).String(),
		Checks:    checks,
	})
}

// handleReadiness is the readiness probe, also reporting the live model
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := s.isReady()

	if err := s.db.Health(); err != nil {
		checks["database"] = err.Error()
		ready = false
	} else {
		checks["database"] = "ok"
	}

	model := ModelStatus{}
	if m := s.predictor.Current(); m != nil {
		model.Accuracy = m.Accuracy
		if !m.LastTrained.IsZero() {
			model.LastTrained = m.LastTrained.UTC().Format(time.RFC3339)
		}
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, ReadinessStatus{
		Ready:     ready,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Model:     model,
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
