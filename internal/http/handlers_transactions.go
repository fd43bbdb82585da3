package http

import (
	"net/http"

	"moco/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txs []core.Transaction
		err error
	)
	// Without year/month the full history is returned.
	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		year, month := yearMonth(r)
		txs, err = s.svc.ListTransactionsForMonth(r.Context(), userID(r), year, month)
	} else {
		txs, err = s.svc.ListTransactions(r.Context(), userID(r))
	}
	if err != nil {
		respondError(w, err)
		return
	}
	if kind := r.URL.Query().Get("type"); kind != "" {
		filtered := txs[:0]
		for _, t := range txs {
			if t.Type == core.TransactionType(kind) {
				filtered = append(filtered, t)
			}
		}
		txs = filtered
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.GetTransaction(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx.UserID = userID(r)
	created, err := s.svc.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(w, r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx.ID = r.PathValue("id")
	tx.UserID = userID(r)
	updated, err := s.svc.UpdateTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteTransaction(r.Context(), userID(r), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
