package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"phishguard/internal/domain"
)

// LogSource is the read side of the log store the stats endpoint needs.
type LogSource interface {
	ListLogs(ctx context.Context) ([]*domain.LogEntry, error)
}

type Handler struct {
	logs LogSource
	auth *AuthService
}

func NewHandler(adminPassword, jwtSecret string, logs LogSource) (*Handler, error) {
	auth, err := NewAuthService(adminPassword, jwtSecret)
	if err != nil {
		return nil, err
	}

	return &Handler{
		logs: logs,
		auth: auth,
	}, nil
}

// AuthMiddleware rejects requests without a valid bearer token.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		if err := h.auth.ValidateToken(parts[1]); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Login exchanges the admin password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.auth.ValidatePassword(req.Password); err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.GenerateToken()
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"token": token,
	})
}

// Stats summarizes the scan log.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logs.ListLogs(r.Context())
	if err != nil {
		http.Error(w, "Failed to read scan log", http.StatusInternalServerError)
		return
	}

	phishing := 0
	for _, e := range entries {
		if e.Phishing {
			phishing++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"total_messages":    len(entries),
		"phishing_detected": phishing,
	})
}
