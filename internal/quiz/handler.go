package quiz

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
	"cup-admin/internal/storage"
	"cup-admin/internal/web"
)

const maxImageUpload = 10 << 20

type Handler struct {
	service *Service
	images  *storage.ImageStore
}

func NewHandler(service *Service, images *storage.ImageStore) *Handler {
	return &Handler{service: service, images: images}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.List()
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "failed to list quizzes")
		return
	}
	web.WriteJSON(w, http.StatusOK, pagination.WrapAll(quizzes))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	withResponses := r.URL.Query().Get("withResponses") == "1"
	quiz, err := h.service.Get(slug, withResponses)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "quiz not found")
			return
		}
		web.WriteError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}
	web.WriteJSON(w, http.StatusOK, quiz.ToDTO(withResponses))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.QuizPayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	quiz, err := h.service.Create(&payload)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, quiz.ToDTO(false))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	var payload models.QuizPayload
	if err := web.DecodeValid(r, &payload); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	quiz, err := h.service.Update(id, &payload)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "quiz not found")
			return
		}
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusOK, quiz.ToDTO(false))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}
	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			web.WriteError(w, http.StatusNotFound, "quiz not found")
			return
		}
		web.WriteError(w, http.StatusInternalServerError, "failed to delete quiz")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}

func (h *Handler) CorrectAnswer(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["answerId"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid answer id")
		return
	}
	answer, err := h.service.MarkAnswerCorrect(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			web.WriteError(w, http.StatusNotFound, "answer not found")
		case errors.Is(err, ErrNotWritten), errors.Is(err, ErrAlreadyCorrect):
			web.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			web.WriteError(w, http.StatusInternalServerError, "failed to correct answer")
		}
		return
	}
	web.WriteJSON(w, http.StatusOK, answer)
}

// UploadURL tells the form where question and option pictures go.
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	web.WriteJSON(w, http.StatusOK, map[string]string{"url": "/ostaz/quizzes/upload"})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		web.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()
	key, url, err := h.images.Save(file, header)
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	web.WriteJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": url,
	})
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}
