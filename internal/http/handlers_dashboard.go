package http

import (
	"net/http"
	"strings"

	"moneymanagement/internal/aggregate"
	"moneymanagement/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	summary, err := s.dashboard.Summary(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, "dashboard summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleBreakdown returns the per-category totals for one transaction
// type. ?top=true limits the response to the leading categories.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	t, err := parseTypeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	topOnly := strings.EqualFold(r.URL.Query().Get("top"), "true")

	entries, err := s.dashboard.Breakdown(r.Context(), user.ID, t, topOnly)
	if err != nil {
		s.writeServiceError(w, r, "dashboard breakdown", err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleSeries returns chart buckets for ?period=daily|weekly|monthly,
// optionally filtered to ?year=.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	period := aggregate.Period(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period"))))
	if !period.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid period, want daily, weekly or monthly")
		return
	}

	year, err := parseYearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := s.dashboard.Series(r.Context(), user.ID, period, year)
	if err != nil {
		s.writeServiceError(w, r, "dashboard series", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeBuckets(buckets))
}

// handleMonthlySeries returns the cross-year month totals, one bucket per
// calendar month that has transactions.
func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	buckets, err := s.dashboard.MonthlySeries(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, "dashboard monthly series", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeBuckets(buckets))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	writeJSON(w, http.StatusOK, user)
}
