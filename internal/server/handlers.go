package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"prismadash/internal"
	"prismadash/internal/pipeline"
	"prismadash/internal/source"
)

type dashboardKey struct{}

func (s *Server) routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/reload", s.handleReload)
		r.Post("/cache/clear", s.handleCacheClear)

		r.Group(func(r chi.Router) {
			r.Use(s.requireData)
			r.Get("/summary", s.handleSummary)
			r.Get("/labels/{category}", s.handleLabels)
			r.Get("/combinations", s.handleCombinations)
			r.Get("/cooccurrence/{category}", s.handleCooccurrence)
			r.Get("/pivot", s.handlePivot)
			r.Get("/sankey", s.handleSankey)
			r.Get("/years", s.handleYears)
			r.Get("/years/{category}", s.handleLabelYears)
			r.Get("/countries", s.handleCountries)
			r.Get("/map/{flag}", s.handleMap)
			r.Get("/points/{flag}", s.handlePoints)
			r.Get("/coverage/{column}", s.handleCoverage)
			r.Get("/records", s.handleRecords)
			r.Get("/export/{format}", s.handleExport)
		})
	})
}

// requireData answers 503 until a dataset is loaded and pins the current
// dashboard for the rest of the request.
func (s *Server) requireData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := s.Dashboard()
		if d == nil {
			writeError(w, http.StatusServiceUnavailable, source.ErrDataUnavailable.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), dashboardKey{}, d)))
	})
}

func dashboardFrom(r *http.Request) *pipeline.Dashboard {
	d, _ := r.Context().Value(dashboardKey{}).(*pipeline.Dashboard)
	return d
}

type statusResponse struct {
	Loaded      bool               `json:"loaded"`
	Degraded    bool               `json:"degraded"`
	Records     int                `json:"records"`
	FlagColumns []string           `json:"flagColumns"`
	Memo        pipeline.MemoStats `json:"memo"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{FlagColumns: []string{}}
	if d := s.Dashboard(); d != nil {
		resp.Loaded = true
		resp.Degraded = d.Tables.Degraded
		resp.Records = len(d.Tables.Aggregate.Records)
		resp.FlagColumns = d.FlagColumns
	}
	if s.memo != nil {
		resp.Memo = s.memo.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		writeError(w, http.StatusNotImplemented, "reload not configured")
		return
	}
	tables, err := s.reload(r.Context())
	if err != nil {
		s.logger.Error("reload failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, source.ErrDataUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}
	if s.memo != nil {
		s.memo.Clear()
	}
	s.SetTables(tables)
	writeJSON(w, http.StatusOK, map[string]any{
		"records":  len(tables.Aggregate.Records),
		"degraded": tables.Degraded,
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, _ *http.Request) {
	if s.memo == nil {
		writeJSON(w, http.StatusOK, map[string]any{"cleared": false})
		return
	}
	s.memo.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

type summaryResponse struct {
	internal.Summary
	Degraded bool `json:"degraded"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	d := dashboardFrom(r)
	writeJSON(w, http.StatusOK, summaryResponse{Summary: d.Summary(state), Degraded: d.Tables.Degraded})
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(w, r)
	if !ok {
		return
	}
	state, top, ok := viewStateWithTop(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Labels(state, category, top))
}

func (s *Server) handleCombinations(w http.ResponseWriter, r *http.Request) {
	state, top, ok := viewStateWithTop(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Combinations(state, top))
}

func (s *Server) handleCooccurrence(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(w, r)
	if !ok {
		return
	}
	state, top, ok := viewStateWithTop(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Cooccurrence(state, category, top))
}

func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Pivot(state))
}

func (s *Server) handleSankey(w http.ResponseWriter, r *http.Request) {
	state, top, ok := viewStateWithTop(w, r, 10)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Sankey(state, top))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Years(state))
}

func (s *Server) handleLabelYears(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(w, r)
	if !ok {
		return
	}
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).LabelYears(state, category))
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	state, top, ok := viewStateWithTop(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dashboardFrom(r).Countries(state, top))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	d := dashboardFrom(r)
	flag, ok := flagParam(w, r, d)
	if !ok {
		return
	}
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.MapCounts(state, flag))
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	d := dashboardFrom(r)
	flag, ok := flagParam(w, r, d)
	if !ok {
		return
	}
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Points(state, flag))
}

type coverageResponse struct {
	Overall   internal.Completeness      `json:"overall"`
	Countries []internal.CountryCoverage `json:"countries"`
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	d := dashboardFrom(r)
	column := chi.URLParam(r, "column")
	if !containsString(d.Columns(), column) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown column: %s", column))
		return
	}
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", 10)
	if !ok {
		return
	}
	overall, countries := d.Coverage(state, column, limit)
	writeJSON(w, http.StatusOK, coverageResponse{Overall: overall, Countries: countries})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	table := dashboardFrom(r).Table(state)
	w.Header().Set("Content-Type", pipeline.FormatJSON.ContentType())
	if err := pipeline.WriteJSON(w, table); err != nil {
		s.logger.Error("write records failed", zap.Error(err))
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := pipeline.ParseExportFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, ok := viewState(w, r)
	if !ok {
		return
	}
	table := dashboardFrom(r).Table(state)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="prisma_%s.%s"`, state.View, format))
	if err := pipeline.WriteTable(w, format, table); err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
	}
}

// viewState reads the filter query parameters. Malformed values answer 400.
func viewState(w http.ResponseWriter, r *http.Request) (pipeline.ViewState, bool) {
	q := r.URL.Query()
	state := pipeline.ViewState{
		Section:      q.Get("section"),
		Search:       q.Get("search"),
		SearchColumn: q.Get("search_column"),
	}

	view, err := pipeline.ParseViewKind(q.Get("view"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return state, false
	}
	state.View = view

	for _, p := range []struct {
		name string
		dst  **int
	}{{"year_min", &state.YearMin}, {"year_max", &state.YearMax}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", p.name, raw))
			return state, false
		}
		*p.dst = &year
	}

	for _, value := range q["country"] {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				state.Countries = append(state.Countries, name)
			}
		}
	}
	return state, true
}

func viewStateWithTop(w http.ResponseWriter, r *http.Request, defaultTop int) (pipeline.ViewState, int, bool) {
	state, ok := viewState(w, r)
	if !ok {
		return state, 0, false
	}
	top, ok := intParam(w, r, "top", defaultTop)
	return state, top, ok
}

func intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, raw))
		return 0, false
	}
	return n, true
}

func categoryParam(w http.ResponseWriter, r *http.Request) (internal.Category, bool) {
	raw := chi.URLParam(r, "category")
	category, ok := pipeline.ParseCategory(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category: %s", raw))
	}
	return category, ok
}

func flagParam(w http.ResponseWriter, r *http.Request, d *pipeline.Dashboard) (string, bool) {
	flag := chi.URLParam(r, "flag")
	if !d.HasFlag(flag) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown technology flag: %s", flag))
		return "", false
	}
	return flag, true
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
