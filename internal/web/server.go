package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/llm"
)

// NewServer creates and configures the Memora HTTP API server.
func NewServer(db *sql.DB, cfg *config.Config, client llm.Client, version string) *http.Server {
	h := &Handlers{
		db:      db,
		cfg:     cfg,
		client:  client,
		version: version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /health", h.HandleHealth)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/memories", h.HandleCreateMemory)
	api.HandleFunc("GET /api/memories", h.HandleListMemories)
	api.HandleFunc("GET /api/memories/{id}", h.HandleGetMemory)
	api.HandleFunc("PUT /api/memories/{id}", h.HandleUpdateMemory)
	api.HandleFunc("DELETE /api/memories/{id}", h.HandleDeleteMemory)
	api.HandleFunc("POST /api/ai/generate-capsule", h.HandleGenerateCapsule)
	api.HandleFunc("GET /api/ai/capsule-info", h.HandleCapsuleInfo)

	mux.Handle("/api/", authenticate(cfg)(api))

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, cfg *config.Config) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Memora API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}
	if cfg.JWTSecret == "" {
		log.Printf("WARNING: No JWT secret configured; all requests run as user %q", cfg.DefaultUser)
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
