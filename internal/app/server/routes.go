package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"netcalc/internal/conversion"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	CORSOrigin string
	// StaticDir, when set, is served on / for the browser front end.
	StaticDir string
	// MaxBodyBytes caps request bodies; zero means no cap.
	MaxBodyBytes int64
	Defaults     Defaults
}

// Defaults fill in request fields the client left empty.
type Defaults struct {
	Family    string
	Separator string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter wires every route onto a fresh mux.
func NewRouter(svc *conversion.Service, opts Options) (http.Handler, error) {
	h := &handlers{svc: svc, opts: opts}

	graphQLHandler, err := newGraphQLHandler(svc)
	if err != nil {
		return nil, fmt.Errorf("build graphql handler: %w", err)
	}

	router := http.NewServeMux()
	router.HandleFunc("POST /convert", h.convert)
	router.HandleFunc("POST /validate", h.validate)
	router.HandleFunc("POST /summary", h.summary)
	router.HandleFunc("GET /version", getVersion)
	router.HandleFunc("GET /healthz", getHealth)
	router.Handle("POST /graphql", graphQLHandler)

	if opts.StaticDir != "" {
		router.Handle("/", staticHandler(opts.StaticDir))
		log.Debugf("Frontend assets served from %s on the same port", opts.StaticDir)
	}

	log.Debug("Routes opened")

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return enableCORS(origin, router), nil
}

func staticHandler(dir string) http.Handler {
	if abs, err := filepath.Abs(dir); err == nil {
		log.Debugf("Serving static from: %s", abs)
	} else {
		log.Warnf("couldn't resolve %q: %v", dir, err)
	}

	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}

// Serve runs the API on port until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting netcalc API on port :%d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down netcalc API")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
