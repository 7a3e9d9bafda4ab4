package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/odense-concerts/internal/calendar"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/config"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/pfrederiksen/odense-concerts/internal/metrics"
	"github.com/pfrederiksen/odense-concerts/internal/storage"
	"github.com/spf13/cobra"
)

var flagAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally for previewing",
		Long: `Serve the output directory (page and thumbnails) together with the
snapshot as JSON, a calendar feed built from it and a metrics endpoint.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Address to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	srv := &http.Server{
		Addr:              flagAddr,
		Handler:           newRouter(cfg, store, metrics.New()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Serving site", logger.Fields{"addr": flagAddr, "dir": cfg.OutputDir})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-cmd.Context().Done():
		logger.Info("Shutting down", nil)
		return srv.Close()
	}
}

// newRouter serves the output directory plus views of the snapshot
func newRouter(cfg *config.Config, store *storage.Store, rec *metrics.Recorder) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	h := &handler{cfg: cfg, store: store, rec: rec}

	r.Get("/concerts.json", h.listConcerts)
	r.Get("/concerts/{id}", h.getConcert)
	r.Get("/calendar.ics", h.calendarFeed)
	r.Handle("/metrics", rec.Handler())

	// Page and thumbnails
	r.Handle("/*", http.FileServer(http.Dir(cfg.OutputDir)))

	return r
}

// requestLogger logs each request with the package logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("Request", logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		})
	})
}

type handler struct {
	cfg   *config.Config
	store *storage.Store
	rec   *metrics.Recorder
}

func (h *handler) load(w http.ResponseWriter) ([]*concert.Concert, bool) {
	concerts, err := h.store.LoadConcerts(h.cfg.Snapshot)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "no snapshot yet, run `odense-concerts run` first")
		return nil, false
	}
	if err != nil {
		logger.Error("Loading snapshot failed", nil, err)
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
		return nil, false
	}
	h.rec.Concerts(len(concerts))
	return concerts, true
}

func (h *handler) listConcerts(w http.ResponseWriter, r *http.Request) {
	concerts, ok := h.load(w)
	if !ok {
		return
	}
	if venue := r.URL.Query().Get("venue"); venue != "" {
		concerts = selectConcerts(concerts, venue, true, time.Now())
	}
	respondJSON(w, http.StatusOK, concert.Dump(concerts))
}

func (h *handler) getConcert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, err := h.store.FindByID(h.cfg.Snapshot, id)
	switch {
	case errors.Is(err, storage.ErrConcertNotFound), errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "concert not found")
	case err != nil:
		logger.Error("Finding concert failed", logger.Fields{"id": id}, err)
		respondError(w, http.StatusInternalServerError, "failed to load snapshot")
	default:
		respondJSON(w, http.StatusOK, c.Record())
	}
}

func (h *handler) calendarFeed(w http.ResponseWriter, r *http.Request) {
	concerts, ok := h.load(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	fmt.Fprint(w, calendar.GenerateICS(concerts, calendar.DefaultName, time.Now()))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response failed", nil, err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
