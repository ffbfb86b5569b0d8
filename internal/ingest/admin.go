package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/parser"
	"github.com/nemflow/nemflow/internal/scrape"
)

// AdminRouter exposes the scraper's operational surface: liveness, a manual
// tick trigger, fetch/parse diagnostics and an on-demand validation run.
func (o *Orchestrator) AdminRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", o.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/trigger", o.handleTrigger).Methods(http.MethodPost)
	r.HandleFunc("/test", o.handleTest).Methods(http.MethodGet)
	r.HandleFunc("/validate", o.handleValidate).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (o *Orchestrator) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"last_tick": o.LastTick(),
	})
}

func (o *Orchestrator) handleTrigger(w http.ResponseWriter, r *http.Request) {
	report := o.Tick(r.Context())
	writeJSON(w, http.StatusOK, report)
}

func (o *Orchestrator) handleValidate(w http.ResponseWriter, r *http.Request) {
	if o.deps.Validator == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "validator not configured"})
		return
	}
	report, err := o.deps.Validator.Run(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// sourceDiagnostic is one source's dry-run result: what the index offered,
// how big the bundle was, and what the parser made of it. Nothing persists.
type sourceDiagnostic struct {
	Source      string      `json:"source"`
	IndexFiles  int         `json:"index_files"`
	Latest      string      `json:"latest,omitempty"`
	Bytes       int         `json:"bytes,omitempty"`
	RowsSeen    int         `json:"rows_seen,omitempty"`
	RowsSkipped int         `json:"rows_skipped,omitempty"`
	Records     int         `json:"records,omitempty"`
	Sample      interface{} `json:"sample,omitempty"`
	Error       string      `json:"error,omitempty"`
}

func (o *Orchestrator) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	out := []sourceDiagnostic{
		o.diagnose(ctx, srcDispatch),
		o.diagnose(ctx, srcScada),
		o.diagnose(ctx, srcP5Min),
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checked_at": o.now(),
		"sources":    out,
	})
}

func (o *Orchestrator) diagnose(ctx context.Context, src source) sourceDiagnostic {
	diag := sourceDiagnostic{Source: src.Name}

	files, err := o.deps.Scanner.List(ctx, o.deps.BaseURL+"/"+src.Path, src.Family)
	if err != nil {
		diag.Error = err.Error()
		return diag
	}
	diag.IndexFiles = len(files)
	diag.Latest = scrape.Latest(files)
	if diag.Latest == "" {
		return diag
	}

	data, err := o.deps.Fetcher.Fetch(ctx, o.deps.BaseURL+"/"+src.Path+"/"+diag.Latest)
	if err != nil {
		diag.Error = err.Error()
		return diag
	}
	diag.Bytes = len(data)

	body, err := scrape.ExtractTabular(data, src.Family)
	if err != nil {
		diag.Error = err.Error()
		return diag
	}
	res := o.deps.Registry.Parse(body)
	diag.RowsSeen = res.RowsSeen
	diag.RowsSkipped = res.RowsSkipped

	switch src.Name {
	case srcDispatch.Name:
		prices := parser.MergeDispatch(res)
		diag.Records = len(prices)
		if len(prices) > 0 {
			diag.Sample = prices[0]
		}
	case srcScada.Name:
		diag.Records = len(res.Scada)
		if len(res.Scada) > 0 {
			diag.Sample = res.Scada[0]
		}
	case srcP5Min.Name:
		diag.Records = len(res.P5Regions)
		if len(res.P5Regions) > 0 {
			diag.Sample = res.P5Regions[0]
		}
	}
	return diag
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode admin response")
	}
}
