package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marinescope/marinescope/pkg/browse"
	"github.com/marinescope/marinescope/pkg/logging"
	"github.com/marinescope/marinescope/pkg/species"
)

func newServeCommand(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline as a small JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}

			server := &http.Server{
				Addr:              app.cfg.Server.Bind,
				Handler:           newServeMux(app),
				ReadHeaderTimeout: 5 * time.Second,
			}

			logger := logging.NewLogger("serve")
			logger.Info().Str("bind", app.cfg.Server.Bind).Msg("Serving")

			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				return server.Close()
			}
		},
	}
	return cmd
}

func newServeMux(app *app) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/search", handleSearch(app))
	mux.HandleFunc("/api/browse", handleBrowse(app))
	mux.HandleFunc("/api/groups", handleGroups(app))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchResponse struct {
	Query   string            `json:"query,omitempty"`
	Count   int               `json:"count"`
	Results []*species.Record `json:"results"`
}

func handleSearch(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			respondError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		records := app.session.Search(r.Context(), query, nil)
		respondJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(records), Results: records})
	}
}

func handleBrowse(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, err := queryInt(r, "limit", 10)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if limit <= 0 || limit > 50 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}

		records := app.session.Browse(r.Context(), offset, limit, nil)
		respondJSON(w, http.StatusOK, searchResponse{Count: len(records), Results: records})
	}
}

func handleGroups(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, browse.HighLevelGroups(r.Context(), app.registry))
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
