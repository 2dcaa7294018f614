package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"phishguard/internal/admin"
	"phishguard/internal/config"
	"phishguard/internal/domain"
)

// Store is the slice of the log store the API needs.
type Store interface {
	ListLogs(ctx context.Context) ([]*domain.LogEntry, error)
	RateLimit(ctx context.Context, ip string, action string, limit int, window time.Duration) (bool, error)
}

// ScanRunner triggers one bounded scan invocation.
type ScanRunner interface {
	Scan(ctx context.Context) []domain.ScanResult
}

type Handler struct {
	cfg     *config.Config
	store   Store
	scanner ScanRunner
	admin   *admin.Handler
}

func New(cfg *config.Config, store Store, scanner ScanRunner, adminHandler *admin.Handler) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   store,
		scanner: scanner,
		admin:   adminHandler,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		r.Get("/logs", h.listLogs)
		r.Post("/admin/login", h.admin.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.admin.AuthMiddleware)
			r.Post("/scan", h.triggerScan)
			r.Get("/admin/stats", h.admin.Stats)
		})
	})

	return r
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListLogs(r.Context())
	if err != nil {
		http.Error(w, "Failed to read scan log", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *Handler) triggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.checkRateLimit(w, r, "scan", h.cfg.RateLimitScanPerMin) {
		return
	}

	results := h.scanner.Scan(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

func (h *Handler) checkRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	allowed, err := h.store.RateLimit(r.Context(), clientIP(r), action, limit, time.Minute)
	if err != nil {
		// Fail open: a limiter outage should not block scan triggers.
		return true
	}
	if !allowed {
		http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		ip = xrip
	} else if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		ip = strings.TrimSpace(parts[0])
	}
	if strings.Contains(ip, ":") {
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	return ip
}
