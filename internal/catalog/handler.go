package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

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

func (h *Handler) ListIcons(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	icons, total, err := h.service.ListIcons(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to list icons")
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(icons, total, page, size))
}

func (h *Handler) CreateIcon(w http.ResponseWriter, r *http.Request) {
	form, err := parseIconForm(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	icon, err := h.service.CreateIcon(form)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, icon)
}

func (h *Handler) UpdateIcon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid icon id")
		return
	}
	form, err := parseIconForm(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	icon, err := h.service.UpdateIcon(id, form)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "icon not found")
			return
		}
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, icon)
}

func (h *Handler) DeleteIcon(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid icon id")
		return
	}
	if err := h.service.DeleteIcon(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "icon not found")
			return
		}
		web.WriteError(w, http.StatusInternalServerError, "failed to delete icon")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "icon deleted"})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	page, size, search := pagination.Parse(r)
	players, total, err := h.service.ListPlayers(page, size, search)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.New(players, total, page, size))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	form, err := parsePlayerForm(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	player, err := h.service.CreatePlayer(form)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, player)
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	form, err := parsePlayerForm(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	player, err := h.service.UpdatePlayer(id, form)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "player not found")
			return
		}
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, player)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	if err := h.service.DeletePlayer(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "player not found")
			return
		}
		web.WriteError(w, http.StatusInternalServerError, "failed to delete player")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "player deleted"})
}

func (h *Handler) ListPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.service.ListPrices()
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to list prices")
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.WrapAll(prices))
}

func (h *Handler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var payload models.PricePayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := h.service.CreatePrice(payload)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "liturgy name is already priced")
		return
	}
	web.WriteJSON(w, http.StatusCreated, price)
}

func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid price id")
		return
	}
	var payload models.PricePayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := h.service.UpdatePrice(id, payload)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "price not found")
			return
		}
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, price)
}

func (h *Handler) DeletePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid price id")
		return
	}
	if err := h.service.DeletePrice(id); err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to delete price")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "price deleted"})
}

func (h *Handler) ListControls(w http.ResponseWriter, r *http.Request) {
	controls, err := h.service.ListControls()
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to list controls")
		return
	}
	web.WriteJSON(w, http.StatusOK, controls)
}

// SetControl toggles one visibility flag; the path carries 0 or 1.
func (h *Handler) SetControl(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	visible := vars["visible"] == "1"
	control, err := h.service.SetControlVisible(vars["name"], visible)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "control not found")
			return
		}
		web.WriteError(w, http.StatusInternalServerError, "failed to update control")
		return
	}
	web.WriteJSON(w, http.StatusOK, control)
}

func parseIconForm(r *http.Request) (IconForm, error) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		return IconForm{}, errors.New("invalid multipart form")
	}
	form := IconForm{
		Name:        r.FormValue("name"),
		Price:       formInt(r, "price"),
		Available:   r.FormValue("available") == "true",
		ImageAction: r.FormValue("image"),
	}
	if form.Name == "" {
		return IconForm{}, errors.New("name is required")
	}
	if file, header, err := r.FormFile("image"); err == nil {
		form.Image = file
		form.ImageHeader = header
	}
	return form, nil
}

func parsePlayerForm(r *http.Request) (PlayerForm, error) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		return PlayerForm{}, errors.New("invalid multipart form")
	}
	form := PlayerForm{
		Name:        r.FormValue("name"),
		Position:    r.FormValue("position"),
		Rating:      formInt(r, "rating"),
		Price:       formInt(r, "price"),
		Available:   r.FormValue("available") == "true",
		ImageAction: r.FormValue("image"),
	}
	if form.Name == "" {
		return PlayerForm{}, errors.New("name is required")
	}
	if file, header, err := r.FormFile("image"); err == nil {
		form.Image = file
		form.ImageHeader = header
	}
	return form, nil
}

func formInt(r *http.Request, field string) int {
	n, _ := strconv.Atoi(r.FormValue(field))
	return n
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}
