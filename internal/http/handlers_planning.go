package http

import (
	"net/http"

	"moco/internal/core"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.GoalsOverview(r.Context(), userID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal.UserID = userID(r)
	created, err := s.svc.CreateGoal(r.Context(), goal)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if err := decodeJSON(w, r, &goal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goal.ID = r.PathValue("id")
	goal.UserID = userID(r)
	updated, err := s.svc.UpdateGoal(r.Context(), goal)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGoal(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.DebtsOverview(r.Context(), userID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var debt core.Debt
	if err := decodeJSON(w, r, &debt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	debt.UserID = userID(r)
	created, err := s.svc.CreateDebt(r.Context(), debt)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.DebtDetail(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var debt core.Debt
	if err := decodeJSON(w, r, &debt); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	debt.ID = r.PathValue("id")
	debt.UserID = userID(r)
	updated, err := s.svc.UpdateDebt(r.Context(), debt)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteDebt(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.DebtDetail(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	payments := view.Payments
	if payments == nil {
		payments = []core.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Server) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	var payment core.Payment
	if err := decodeJSON(w, r, &payment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payment.DebtID = r.PathValue("id")
	payment.UserID = userID(r)
	created, err := s.svc.AddPayment(r.Context(), payment)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePayment(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
