package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"picreveal-quiz-service/internal/app"
	"picreveal-quiz-service/internal/domain"
)

// BankHandler exposes question-bank CRUD over JSON. Edits are rejected while
// a running session references the bank.
type BankHandler struct {
	service *app.GameService
	banks   app.BankRepository
}

func NewBankHandler(service *app.GameService, banks app.BankRepository) *BankHandler {
	return &BankHandler{service: service, banks: banks}
}

// Register mounts the bank routes on the mux.
func (h *BankHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /banks/{id}", h.getBank)
	mux.HandleFunc("PUT /banks/{id}", h.saveBank)
	mux.HandleFunc("POST /banks/{id}/questions", h.addQuestion)
	mux.HandleFunc("DELETE /banks/{id}/questions/{qid}", h.removeQuestion)
	mux.HandleFunc("DELETE /banks/{id}/questions", h.clearBank)
}

func (h *BankHandler) getBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.banks.GetBank(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bank)
}

func (h *BankHandler) saveBank(w http.ResponseWriter, r *http.Request) {
	var bank domain.Bank
	if err := json.NewDecoder(r.Body).Decode(&bank); err != nil {
		http.Error(w, "invalid bank payload", http.StatusBadRequest)
		return
	}
	bank.ID = r.PathValue("id")
	if err := h.service.SaveBank(r.Context(), bank); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BankHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "invalid question payload", http.StatusBadRequest)
		return
	}
	if err := h.service.AddQuestion(r.Context(), r.PathValue("id"), q); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BankHandler) removeQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveQuestion(r.Context(), r.PathValue("id"), r.PathValue("qid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BankHandler) clearBank(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearBank(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBankNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBankInUse):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuestion):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
