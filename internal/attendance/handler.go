package attendance

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
	"cup-admin/internal/web"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	records, total, err := h.service.List(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(records, total, page, size))
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}
	if err := h.service.Approve(uint(id)); err != nil {
		status := http.StatusBadRequest
		if err != ErrAlreadyApproved {
			status = http.StatusNotFound
		}
		web.WriteError(w, status, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid attendance id")
		return
	}
	if err := h.service.Delete(uint(id)); err != nil {
		web.WriteError(w, http.StatusNotFound, "attendance not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkAttendanceRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CreateBulk(&req)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, result)
}
