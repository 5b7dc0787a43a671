package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/frontier"
	"github.com/SeanTater/llm-pareto/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only catalog API for the chart frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := &apiServer{
			store: catalogStore(),
			cal:   calibrationFromConfig(cfg.Frontier.Calibration),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer serves the catalog read-only. Every request loads the shards
// fresh so a concurrent apply is visible without a restart; the dataset is
// small enough that this stays cheap.
type apiServer struct {
	store *catalog.Store
	cal   frontier.Calibration
}

func (s *apiServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.listModels)
		r.Get("/models/{id}", s.getModel)
		r.Get("/benchmarks", s.listBenchmarks)
		r.Get("/frontier", s.frontier)
	})
	return r
}

func (s *apiServer) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) load(w http.ResponseWriter) (*catalog.Catalog, bool) {
	cat, err := s.store.Load()
	if err != nil {
		zap.L().Error("catalog load failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "catalog unavailable"})
		return nil, false
	}
	return cat, true
}

func (s *apiServer) listModels(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.load(w)
	if !ok {
		return
	}

	provider := r.URL.Query().Get("provider")
	family := r.URL.Query().Get("family")

	models := make([]model.ModelRecord, 0)
	for _, e := range cat.Models() {
		if provider != "" && !strings.EqualFold(e.Record.Provider, provider) {
			continue
		}
		if family != "" && e.Record.Family != family {
			continue
		}
		models = append(models, *e.Record)
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

func (s *apiServer) getModel(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.load(w)
	if !ok {
		return
	}

	rec, shard, found := cat.FindModel(chi.URLParam(r, "id"))
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "model not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"model": rec, "shard": shard})
}

func (s *apiServer) listBenchmarks(w http.ResponseWriter, _ *http.Request) {
	cat, ok := s.load(w)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"benchmarks": cat.AllBenchmarks(),
		"categories": cat.Categories,
	})
}

func (s *apiServer) frontier(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	benchID := q.Get("bench")
	if benchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bench parameter is required"})
		return
	}
	axisName := q.Get("axis")
	if axisName == "" {
		axisName = string(frontier.AxisCost)
	}
	axis, err := frontier.ParseAxis(axisName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cat, ok := s.load(w)
	if !ok {
		return
	}

	points := frontier.BuildPoints(cat, axis, benchID, q.Get("family"), s.cal)
	front := frontier.ParetoFrontier(points)

	writeJSON(w, http.StatusOK, frontierResponse{
		Axis:      string(axis),
		Benchmark: benchID,
		Family:    q.Get("family"),
		Points:    points,
		Frontier:  front,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}
