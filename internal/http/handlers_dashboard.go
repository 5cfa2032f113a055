package http

import (
	"net/http"
	"time"

	"profesorhub/internal/core"
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	stats, err := s.dashboard.Stats(r.Context(), p.ID, time.Now())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleMonthSummary reconciles one period, cached per tenant and period.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	period, ok := queryPeriod(r, core.PeriodOf(time.Now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mes/anio")
		return
	}

	key := p.ID + ":resumen:" + period.Key()
	if summary, hit := s.summaryCache.Get(key); hit {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.dashboard.MonthSummary(r.Context(), p.ID, period)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

// handleSeries returns the trailing 12-month series anchored at now.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	now := time.Now()

	key := p.ID + ":series:" + core.PeriodOf(now).Key()
	if series, hit := s.seriesCache.Get(key); hit {
		writeJSON(w, http.StatusOK, series)
		return
	}

	series, err := s.dashboard.Series(r.Context(), p.ID, now)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.seriesCache.Set(key, series)
	writeJSON(w, http.StatusOK, series)
}

// handleProgress serves the Progreso view: one period's reconciliation
// plus the series. Not cached as a unit, its parts are.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, _ := profesorFrom(r.Context())
	period, ok := queryPeriod(r, core.PeriodOf(time.Now()))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mes/anio")
		return
	}

	report, err := s.dashboard.Progress(r.Context(), p.ID, period, time.Now())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
