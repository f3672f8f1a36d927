// Package keepalive runs the small HTTP surface hosting platforms
// probe to keep the bot process alive, plus a periodic self-ping.
package keepalive

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

const selfPingSchedule = "@every 5m"

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	cron       *cron.Cron
	selfURL    string
	client     *http.Client
	started    time.Time
}

// New builds the keep-alive server. selfURL, when non-empty, is pinged
// every five minutes so free hosting tiers do not idle the process.
func New(addr, selfURL string) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		cron:    cron.New(),
		selfURL: selfURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		started: time.Now(),
	}

	s.router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		logger.Info("keep-alive server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("keep-alive server failed", "error", err)
		}
	}()

	if s.selfURL != "" {
		if _, err := s.cron.AddFunc(selfPingSchedule, s.selfPing); err != nil {
			logger.Error("failed to schedule self-ping", "error", err)
		} else {
			s.cron.Start()
		}
	}

	go func() {
		<-ctx.Done()
		s.cron.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("keep-alive server shutdown failed", "error", err)
		}
	}()
}

func (s *Server) selfPing() {
	resp, err := s.client.Get(s.selfURL + "/ping")
	if err != nil {
		logger.Error("self-ping failed", "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Error("self-ping returned unexpected status", "status", resp.StatusCode)
		return
	}
	logger.Debug("self-ping successful")
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":    "✅ Bot is running!",
		"message":   "Match Reminder Keep-Alive Server",
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"bot_status":     "running",
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"response":  "pong",
		"timestamp": time.Now().Unix(),
	})
}

func writeJSON(w http.ResponseWriter, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode keep-alive response", "error", err)
	}
}
