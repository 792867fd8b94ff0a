package http

import (
	"net/http"

	"moneymanagement/internal/core"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	cat, err := parseCategoryInput(r, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.categories.CreateCategory(r.Context(), cat)
	if err != nil {
		s.writeServiceError(w, r, "create category", err)
		return
	}

	writeJSON(w, http.StatusCreated, serializeCategory(created))
}

// handleListCategories returns all of the user's categories, or only one
// type when ?type= is present.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	var (
		cats []core.Category
		err  error
	)

	if r.URL.Query().Get("type") != "" {
		var t core.TransactionType
		t, err = parseTypeParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cats, err = s.categories.ListCategoriesByType(r.Context(), user.ID, t)
	} else {
		cats, err = s.categories.ListCategories(r.Context(), user.ID)
	}
	if err != nil {
		s.writeServiceError(w, r, "list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeCategories(cats))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := parseCategoryInput(r, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat.ID = id

	if err := s.categories.UpdateCategory(r.Context(), cat); err != nil {
		s.writeServiceError(w, r, "update category", err)
		return
	}

	writeJSON(w, http.StatusOK, serializeCategory(cat))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, user core.UserProfile) {
	id, err := parsePathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.categories.DeleteCategory(r.Context(), user.ID, id); err != nil {
		s.writeServiceError(w, r, "delete category", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
