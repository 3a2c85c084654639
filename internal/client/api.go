package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

var (
	ErrNoUsersSelected = errors.New("select at least one user before submitting")
	ErrNoUsernames     = errors.New("provide at least one username")
	ErrNoDate          = errors.New("attendance date is required")
	ErrNoLiturgyName   = errors.New("liturgy name is required")
)

// API is a typed client for the dashboard endpoints. It injects the
// session token into every request.
type API struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewAPI(baseURL string, session *Session) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
}

// Login exchanges credentials for a token and fills the session in place.
func (a *API) Login(username, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := a.doJSON(http.MethodPost, "/admin/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	a.session.Token = out.JWTToken
	a.session.Username = out.Username
	a.session.UserID = out.UserID
	a.session.Role = out.Role
	return &out, nil
}

func (a *API) Users(req pagination.Request) (pagination.Page[models.User], error) {
	var page pagination.Page[models.User]
	err := a.doJSON(http.MethodGet, "/ostaz/users"+req.QueryString(), nil, &page)
	return page, err
}

func (a *API) UsersByCoins(req pagination.Request) (pagination.Page[models.User], error) {
	var page pagination.Page[models.User]
	err := a.doJSON(http.MethodGet, "/ostaz/users/coins"+req.QueryString(), nil, &page)
	return page, err
}

func (a *API) User(username string) (*models.User, error) {
	var user models.User
	err := a.doJSON(http.MethodGet, "/ostaz/users/"+username, nil, &user)
	return &user, err
}

// CreateBulkUsers registers usernames in one call and returns the
// generated passwords keyed by username. Empty and duplicate names are
// rejected before any network traffic.
func (a *API) CreateBulkUsers(usernames []string) (map[string]string, error) {
	cleaned := make([]string, 0, len(usernames))
	seen := map[string]bool{}
	for _, name := range usernames {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return nil, ErrNoUsernames
	}
	var out map[string]string
	err := a.doJSON(http.MethodPost, "/ostaz/users/bulk", models.BulkUsersRequest{Users: cleaned}, &out)
	return out, err
}

func (a *API) Attendances(req pagination.Request) (pagination.Page[models.Attendance], error) {
	var page pagination.Page[models.Attendance]
	err := a.doJSON(http.MethodGet, "/ostaz/attendances"+req.QueryString(), nil, &page)
	return page, err
}

// BulkAttendance submits one liturgy for many users. An incomplete form,
// missing date, liturgy name or selection, never reaches the server.
func (a *API) BulkAttendance(req models.BulkAttendanceRequest) (*models.BulkAttendanceResult, error) {
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrNoDate
	}
	if strings.TrimSpace(req.LiturgyName) == "" {
		return nil, ErrNoLiturgyName
	}
	if len(req.UserIDs) == 0 {
		return nil, ErrNoUsersSelected
	}
	var out models.BulkAttendanceResult
	err := a.doJSON(http.MethodPost, "/ostaz/attendances/bulk", req, &out)
	return &out, err
}

func (a *API) Quizzes() (pagination.Page[models.Quiz], error) {
	var page pagination.Page[models.Quiz]
	err := a.doJSON(http.MethodGet, "/ostaz/quizzes", nil, &page)
	return page, err
}

func (a *API) Quiz(slug string, withResponses bool) (*models.QuizDTO, error) {
	path := "/ostaz/quizzes/" + slug
	if withResponses {
		path += "?withResponses=1"
	}
	var quiz models.QuizDTO
	err := a.doJSON(http.MethodGet, path, nil, &quiz)
	return &quiz, err
}

func (a *API) CreateQuiz(payload models.QuizPayload) (*models.QuizDTO, error) {
	var quiz models.QuizDTO
	err := a.doJSON(http.MethodPost, "/ostaz/quizzes", payload, &quiz)
	return &quiz, err
}

func (a *API) UpdateQuiz(id uint, payload models.QuizPayload) (*models.QuizDTO, error) {
	var quiz models.QuizDTO
	err := a.doJSON(http.MethodPatch, fmt.Sprintf("/ostaz/quizzes/%d", id), payload, &quiz)
	return &quiz, err
}

func (a *API) CorrectAnswer(answerID uint) (*models.Answer, error) {
	var answer models.Answer
	err := a.doJSON(http.MethodPatch, fmt.Sprintf("/ostaz/responses/%d/correct", answerID), nil, &answer)
	return &answer, err
}

func (a *API) Controls() ([]models.Control, error) {
	var controls []models.Control
	err := a.doJSON(http.MethodGet, "/ostaz/buttons-visibility", nil, &controls)
	return controls, err
}

func (a *API) SetControl(name string, visible bool) (*models.Control, error) {
	flag := "0"
	if visible {
		flag = "1"
	}
	var control models.Control
	err := a.doJSON(http.MethodPut, "/ostaz/buttons-visibility/"+name+"/"+flag, nil, &control)
	return &control, err
}

// UploadImage pushes a local file to the upload endpoint and returns the
// stored key and public URL.
func (a *API) UploadImage(path string) (key, url string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", "", err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, a.baseURL+"/ostaz/quizzes/upload", body)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := a.send(req, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}

func (a *API) doJSON(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func (a *API) send(req *http.Request, out interface{}) error {
	if a.session.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+a.session.Token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError surfaces the server's message body when there is one and a
// generic line when there is not.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return errors.New(body.Message)
	}
	return fmt.Errorf("unknown error (status %d)", resp.StatusCode)
}
