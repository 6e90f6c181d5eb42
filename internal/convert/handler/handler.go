package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sosmate-service/internal/config"
	"sosmate-service/internal/convert/model"
	convSvc "sosmate-service/internal/convert/service"
	"sosmate-service/internal/fileio"
	"sosmate-service/internal/middleware"
)

// Handler carries the session state of one running instance: the
// current master catalog plus the scorer owning the lookup caches.
// Uploading a new master swaps the catalog and resets the caches under
// the write lock; conversions read the catalog under the read lock.
type Handler struct {
	cfg    config.Config
	logger zerolog.Logger
	scorer *convSvc.Scorer

	mu      sync.RWMutex
	catalog *convSvc.Catalog
}

func New(cfg config.Config, logger zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, logger: logger, scorer: convSvc.NewScorer()}
}

func (h *Handler) log(r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return h.logger.With().Str("req_id", rid).Logger()
	}
	return h.logger
}

func (h *Handler) current() *convSvc.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.catalog
}

func (h *Handler) swap(cat *convSvc.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scorer.Reset()
	h.catalog = cat
}

// threshold reads the per-request override, keeping the configured
// default when the value is absent or outside (0, 1].
func (h *Handler) threshold(s string) float64 {
	t := toFloat(s, h.cfg.FuzzyThreshold)
	if t <= 0 || t > 1 {
		return h.cfg.FuzzyThreshold
	}
	return t
}

// Master loads a master material file and replaces the session catalog.
func (h *Handler) Master() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log(r)
		defer r.Body.Close()

		file, header, err := formFile(r, "file", h.cfg.MaxUploadMB)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		table, err := fileio.ReadTable(file, header.Filename)
		if err != nil {
			http.Error(w, "failed to read master file: "+err.Error(), http.StatusBadRequest)
			return
		}
		records, missing := masterRecords(table)
		if len(missing) > 0 {
			http.Error(w,
				fmt.Sprintf("master file is missing columns %s; found: %s",
					strings.Join(missing, ", "), strings.Join(table.Headers, ", ")),
				http.StatusUnprocessableEntity)
			return
		}

		cat := convSvc.BuildCatalog(records, h.scorer)
		if cat.Len() == 0 {
			http.Error(w, "master material table is empty", http.StatusUnprocessableEntity)
			return
		}
		h.swap(cat)

		log.Info().Str("file", header.Filename).Int("materials", cat.Len()).Msg("master catalog loaded")
		writeJSON(w, map[string]any{"materials": cat.Len()})
	}
}

// Sheets lists the selectable sheets of an uploaded vendor workbook.
func (h *Handler) Sheets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		file, header, err := formFile(r, "file", h.cfg.MaxUploadMB)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		names, err := fileio.SheetNames(file, header.Filename)
		if err != nil {
			http.Error(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(names) == 0 {
			http.Error(w, "workbook has no visible sheets", http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, map[string]any{"sheets": names})
	}
}

// Convert runs one vendor RAB sheet through the conversion against the
// loaded master catalog.
func (h *Handler) Convert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := h.log(r)
		defer r.Body.Close()

		cat := h.current()
		if cat == nil {
			http.Error(w, "master catalog not loaded", http.StatusBadRequest)
			return
		}

		file, header, err := formFile(r, "file", h.cfg.MaxUploadMB)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		mapping, err := parseMapping(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		skip := atoi(r.FormValue("skip_rows"), h.cfg.DefaultSkipRows)
		if skip < 0 || skip > h.cfg.MaxSkipRows {
			http.Error(w, fmt.Sprintf("skip_rows must be between 0 and %d", h.cfg.MaxSkipRows), http.StatusBadRequest)
			return
		}

		grid, err := fileio.ReadGrid(file, header.Filename, r.FormValue("sheet"), skip)
		if err != nil {
			http.Error(w, "failed to read vendor file: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := convSvc.ValidateMapping(mapping, grid.Cols); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rows := convSvc.NewEngine(log).Transform(grid, cat, mapping, h.threshold(r.FormValue("threshold")))
		if rows == nil {
			rows = []model.ResultRow{}
		}
		res := model.Result{Rows: rows, Summary: convSvc.Summarize(rows)}

		log.Info().
			Str("file", header.Filename).
			Int("items", res.Summary.TotalItems).
			Int("matched", res.Summary.Matched).
			Dur("elapsed", time.Since(start)).
			Msg("convert done")
		writeJSON(w, res)
	}
}

type reconcileRequest struct {
	Rows      []model.ResultRow `json:"rows"`
	Threshold *float64          `json:"threshold,omitempty"`
}

type reconcileResponse struct {
	Rows    []model.ResultRow `json:"rows"`
	Changed bool              `json:"changed"`
	Summary model.Summary     `json:"summary"`
}

// Reconcile re-resolves Kode/Tipe for a result table whose names the
// user may have edited.
func (h *Handler) Reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log(r)
		defer r.Body.Close()

		cat := h.current()
		if cat == nil {
			http.Error(w, "master catalog not loaded", http.StatusBadRequest)
			return
		}

		var req reconcileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		threshold := h.cfg.FuzzyThreshold
		if req.Threshold != nil && *req.Threshold > 0 && *req.Threshold <= 1 {
			threshold = *req.Threshold
		}

		rows, changed := convSvc.NewEngine(log).Reconcile(req.Rows, cat, threshold)
		if rows == nil {
			rows = []model.ResultRow{}
		}
		writeJSON(w, reconcileResponse{
			Rows:    rows,
			Changed: changed,
			Summary: convSvc.Summarize(rows),
		})
	}
}

type exportRequest struct {
	Rows   []model.ResultRow `json:"rows"`
	Name   string            `json:"name,omitempty"`
	Format string            `json:"format,omitempty"`
}

// Export renders a result table as a downloadable SOSYS file.
func (h *Handler) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log(r)
		defer r.Body.Close()

		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		format := strings.ToLower(strings.TrimSpace(req.Format))
		if format == "" {
			format = "xlsx"
		}

		var (
			blob        []byte
			err         error
			contentType string
		)
		switch format {
		case "xlsx":
			blob, err = fileio.WriteResultXLSX(req.Rows, req.Name)
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "csv":
			blob, err = fileio.WriteResultCSV(req.Rows)
			contentType = "text/csv; charset=utf-8"
		default:
			http.Error(w, "format must be xlsx or csv", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.Error().Err(err).Str("format", format).Msg("export failed")
			http.Error(w, "export failed: "+err.Error(), http.StatusInternalServerError)
			return
		}

		filename := fileio.ExportFilename(req.Name, format, time.Now())
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write(blob)

		log.Info().Str("file", filename).Int("rows", len(req.Rows)).Msg("export done")
	}
}

// CacheInfo reports the lookup cache counters.
func (h *Handler) CacheInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, h.scorer.Stats())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
