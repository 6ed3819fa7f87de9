package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"autofix/internal/logging"
)

// DefaultAddr is the listen address used by "autofix serve".
const DefaultAddr = "127.0.0.1:8000"

const shutdownTimeout = 5 * time.Second

// NewHandler returns a router serving root with a /healthz probe.
func NewHandler(root string, logger *slog.Logger) http.Handler {
	logger = logging.NewComponentLogger(logger, "preview")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "root": root})
	})

	files := http.FileServer(http.Dir(root))
	r.Handle("/*", hideDotFiles(files))
	return r
}

func hideDotFiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, part := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(part, ".") {
				http.NotFound(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request served",
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.Int("bytes", ww.BytesWritten()),
				logging.Duration("elapsed", time.Since(start)),
				logging.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Serve listens on addr and serves handler until ctx is cancelled. ready, if
// non-nil, receives the bound address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, ready func(net.Addr)) error {
	logger = logging.NewComponentLogger(logger, "preview")

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(listener.Addr())
	}
	logger.Info("preview server listening", logging.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown preview server: %w", err)
	}
	logger.Info("preview server stopped")
	return nil
}
