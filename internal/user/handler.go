package user

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
	"cup-admin/internal/web"
)

const maxImageUpload = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	users, total, err := h.service.List(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(users, total, page, size))
}

func (h *Handler) ListByCoins(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	users, total, err := h.service.ListByCoins(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(users, total, page, size))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	user, err := h.service.Get(username)
	if err != nil {
		web.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}

// Register handles the guest signup form.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.Register(&req)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.service.Create(req.Username, req.Password)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, user)
}

// CreateBulk returns username -> generated password for the credential
// export.
func (h *Handler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkUsersRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	credentials, err := h.service.CreateBulk(req.Users)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, credentials)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(mux.Vars(r)["username"]); err != nil {
		web.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddCoins(w http.ResponseWriter, r *http.Request) {
	var req models.CoinsRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	balance, err := h.service.AddCoins(mux.Vars(r)["username"], req.Coins)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, balance)
}

func (h *Handler) RemoveCoins(w http.ResponseWriter, r *http.Request) {
	var req models.CoinsRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	balance, err := h.service.RemoveCoins(mux.Vars(r)["username"], req.Coins)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, balance)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordRequest
	if err := web.DecodeValid(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ChangePassword(mux.Vars(r)["username"], req.Password); err != nil {
		web.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Confirm(mux.Vars(r)["username"]); err != nil {
		web.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ShowInLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.setLeaderboard(w, r, true)
}

func (h *Handler) HideFromLeaderboard(w http.ResponseWriter, r *http.Request) {
	h.setLeaderboard(w, r, false)
}

func (h *Handler) setLeaderboard(w http.ResponseWriter, r *http.Request, visible bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.service.SetLeaderboard(uint(id), visible); err != nil {
		web.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ChangeImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	user, err := h.service.ChangeImage(mux.Vars(r)["username"], file, header)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ListSchoolYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.ListSchoolYears()
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, years)
}
