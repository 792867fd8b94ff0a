package http

import (
	"errors"
	"net/http"

	"moneymanagement/internal/core"
	applog "moneymanagement/internal/log"
	"moneymanagement/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	in, err := parseTransactionInput(r, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.transactions.CreateTransaction(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, serializeTransaction(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	items, err := s.dashboard.GroupedTransactions(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, "list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeListItems(items))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := parseTransactionInput(r, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.transactions.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, "update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeTransaction(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transactions.DeleteTransaction(r.Context(), user.ID, id); err != nil {
		s.writeServiceError(w, r, "delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service-layer failures onto HTTP statuses:
// missing rows to 404, validation failures to 400, everything else to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNoCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		structured := applog.NewStructuredLogger(applog.FromContext(r.Context()))
		structured.LogError(r.Context(), "Request failed", err,
			applog.ComponentHTTP, op, applog.NewFields())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
