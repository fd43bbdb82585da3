package http

import (
	"net/http"

	"moco/internal/core"
)

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request) {
	year, month := yearMonth(r)
	view, err := s.svc.BudgetOverview(r.Context(), userID(r), year, month)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.ListCategories(r.Context(), userID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat core.Category
	if err := decodeJSON(w, r, &cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat.UserID = userID(r)
	created, err := s.svc.CreateCategory(r.Context(), cat)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var cat core.Category
	if err := decodeJSON(w, r, &cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat.ID = r.PathValue("id")
	cat.UserID = userID(r)
	updated, err := s.svc.UpdateCategory(r.Context(), cat)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteCategory(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubcategories(w http.ResponseWriter, r *http.Request) {
	subs, err := s.svc.ListSubcategories(r.Context(), userID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	if subs == nil {
		subs = []core.Subcategory{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleCreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sub core.Subcategory
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub.UserID = userID(r)
	created, err := s.svc.CreateSubcategory(r.Context(), sub)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	var sub core.Subcategory
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub.ID = r.PathValue("id")
	sub.UserID = userID(r)
	updated, err := s.svc.UpdateSubcategory(r.Context(), sub)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteSubcategory(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
