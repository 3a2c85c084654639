package auth

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
	"cup-admin/internal/security"
	"cup-admin/internal/web"
)

type Handler struct {
	service  *Service
	honeypot *security.Honeypot
}

func NewHandler(service *Service, honeypot *security.Honeypot) *Handler {
	return &Handler{service: service, honeypot: honeypot}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Login(req.Username, req.Password)
	if h.honeypot != nil {
		h.honeypot.CheckLogin(r, req.Username, err != nil)
	}
	if err != nil {
		logrus.WithField("username", req.Username).Info("login rejected")
		web.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		return
	}

	web.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	admins, total, err := h.service.ListAdmins(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(admins, total, page, size))
}

func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	admin, err := h.service.GetAdmin(id)
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "admin not found")
		return
	}
	web.WriteJSON(w, http.StatusOK, admin)
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var payload models.AdminPayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.service.CreateAdmin(&payload)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, admin)
}

func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var payload models.AdminPayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := h.service.UpdateAdmin(pathID(r), &payload)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, admin)
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAdmin(pathID(r)); err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListSchoolYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.ListSchoolYears()
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, years)
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id)
}
