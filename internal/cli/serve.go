package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/pipeline"
)

const (
	defaultServeAddr  = ":8080"
	serverReadTimeout = 30 * time.Second
	serverIdleTimeout = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxRequestBody    = 32 << 20 // 32 MiB of stack JSON
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP API for infill generation",
		Long: `Run an HTTP API for infill generation.

The server accepts sliced stacks as JSON and returns generated paths and
rendered artifacts. Generation results are cached with the same backend
as the CLI, so repeated requests for the same stack are served quickly.

Endpoints:
  GET  /healthz              liveness probe
  POST /api/v1/generate      run the pipeline on a posted stack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}
			return c.runServe(cmd.Context(), cfg, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg *Config, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:        addr,
		Handler:     newAPIHandler(runner, c.Logger),
		ReadTimeout: serverReadTimeout,
		IdleTimeout: serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newAPIHandler builds the chi router for the generation API.
func newAPIHandler(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(loggerMiddleware(logger))
	r.Use(hookMiddleware)

	r.Get("/healthz", handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", handleGenerate(runner))
	})

	return r
}

// loggerMiddleware attaches the server logger to every request context so
// handlers and the pipeline share structured logging.
func loggerMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), logger)))
		})
	}
}

// hookMiddleware reports requests through the observability HTTP hooks.
func hookMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path,
			ww.Status(), time.Since(start))
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateResponse is the JSON body returned by the generate endpoint.
// Artifact bytes are base64-encoded by encoding/json.
type generateResponse struct {
	RunID     string            `json:"run_id"`
	StackHash string            `json:"stack_hash"`
	Stats     generateStats     `json:"stats"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
}

type generateStats struct {
	LayerCount int    `json:"layer_count"`
	TreeCount  int    `json:"tree_count"`
	LineCount  int    `json:"line_count"`
	Duration   string `json:"duration"`
}

// handleGenerate runs the pipeline on a posted options payload.
func handleGenerate(runner *pipeline.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var opts pipeline.Options
		body := http.MaxBytesReader(w, req.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(&opts); err != nil {
			writeError(w, req, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid JSON body"))
			return
		}

		// The API never reads files from the server's disk.
		opts.Input = ""
		if len(opts.Formats) == 0 {
			opts.Formats = []string{pipeline.FormatJSON}
		}
		if err := pipeline.ValidateFormats(opts.Formats); err != nil {
			writeError(w, req, err)
			return
		}

		opts.Logger = loggerFromContext(req.Context())

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			RunID:     result.RunID,
			StackHash: result.StackHash,
			Stats: generateStats{
				LayerCount: result.Stats.LayerCount,
				TreeCount:  result.Stats.TreeCount,
				LineCount:  result.Stats.LineCount,
				Duration:   (result.Stats.LoadTime + result.Stats.GenerateTime + result.Stats.RenderTime).Round(time.Millisecond).String(),
			},
			Cached:    result.CacheInfo.GenerateHit,
			Artifacts: result.Artifacts,
		})
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an application error to an HTTP status and JSON body.
func writeError(w http.ResponseWriter, req *http.Request, err error) {
	observability.HTTP().OnError(req.Context(), req.Method, req.URL.Path, err)

	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidStack,
		apperrors.ErrCodeInvalidParams, apperrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeStackNotFound,
		apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, map[string]string{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}
