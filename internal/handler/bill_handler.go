package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/service"
)

type BillHandler struct {
	service *service.BillService
}

func NewBillHandler(service *service.BillService) *BillHandler {
	return &BillHandler{service: service}
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	var payload model.CreateBillRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	bill, err := h.service.Create(r.Context(), principal, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bill)
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	bills, err := h.service.List(r.Context(), principal)
	if err != nil {
		writeError(w, err)
		return
	}

	if bills == nil {
		bills = []model.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	bill, err := h.service.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	var payload model.UpdateBillRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	bill, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request, principal model.Principal) {
	if err := h.service.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Bill deleted"})
}
