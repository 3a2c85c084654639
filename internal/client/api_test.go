package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cup-admin/internal/models"
	"cup-admin/internal/pagination"
)

func TestUsersSendsTokenAndPageQuery(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(pagination.Page[models.User]{
			TotalElements: 1,
			Data:          []models.User{{ID: 7, Username: "mina"}},
		})
	}))
	defer server.Close()

	api := NewAPI(server.URL, &Session{Token: "tok-123"})
	page, err := api.Users(pagination.Request{Page: 3, Size: 10, Search: "abou mina"})
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotQuery != "page=2&size=10&search=abou+mina" {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(page.Data) != 1 || page.Data[0].Username != "mina" {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestLoginFillsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{
			JWTToken: "tok-456",
			Username: "ostaz",
			UserID:   2,
			Role:     models.RoleOstaz,
		})
	}))
	defer server.Close()

	session := &Session{}
	api := NewAPI(server.URL, session)
	if _, err := api.Login("ostaz", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.Token != "tok-456" || session.Username != "ostaz" || session.UserID != 2 {
		t.Errorf("session not filled: %+v", session)
	}
	if !session.LoggedIn() {
		t.Error("expected logged-in session")
	}
}

func TestErrorBodyMessageIsSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer server.Close()

	api := NewAPI(server.URL, &Session{})
	_, err := api.Login("x", "y")
	if err == nil || err.Error() != "invalid credentials" {
		t.Errorf("expected server message, got %v", err)
	}
}

func TestUnknownErrorFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	api := NewAPI(server.URL, &Session{Token: "t"})
	_, err := api.Quizzes()
	if err == nil || err.Error() != "unknown error (status 502)" {
		t.Errorf("expected fallback message, got %v", err)
	}
}

func TestBulkAttendanceRejectsIncompleteFormLocally(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()
	api := NewAPI(server.URL, &Session{Token: "t"})

	cases := []struct {
		name string
		req  models.BulkAttendanceRequest
		want error
	}{
		{
			"no selection",
			models.BulkAttendanceRequest{Date: "2026-03-01", LiturgyName: "Vespers"},
			ErrNoUsersSelected,
		},
		{
			"no date",
			models.BulkAttendanceRequest{LiturgyName: "Vespers", UserIDs: []uint{1}},
			ErrNoDate,
		},
		{
			"blank liturgy",
			models.BulkAttendanceRequest{Date: "2026-03-01", LiturgyName: "  ", UserIDs: []uint{1}},
			ErrNoLiturgyName,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := api.BulkAttendance(tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if called {
				t.Error("an incomplete form must not hit the server")
			}
		})
	}
}

func TestCreateBulkUsersCleansInput(t *testing.T) {
	var got models.BulkUsersRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"mina": "pw1", "kyrillos": "pw2"})
	}))
	defer server.Close()

	api := NewAPI(server.URL, &Session{Token: "t"})
	creds, err := api.CreateBulkUsers([]string{" mina ", "", "kyrillos", "mina"})
	if err != nil {
		t.Fatalf("CreateBulkUsers failed: %v", err)
	}
	if len(got.Users) != 2 || got.Users[0] != "mina" || got.Users[1] != "kyrillos" {
		t.Errorf("unexpected cleaned usernames: %v", got.Users)
	}
	if len(creds) != 2 {
		t.Errorf("unexpected credentials: %v", creds)
	}
}

func TestCreateBulkUsersRejectsEmptyList(t *testing.T) {
	api := NewAPI("http://localhost:0", &Session{Token: "t"})
	if _, err := api.CreateBulkUsers([]string{" ", ""}); !errors.Is(err, ErrNoUsernames) {
		t.Fatalf("expected ErrNoUsernames, got %v", err)
	}
}

func TestWriteCredentialsCSVIsSorted(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCredentialsCSV(&buf, map[string]string{
		"veronia": "pw3",
		"abanoub": "pw1",
		"mina":    "pw2",
	})
	if err != nil {
		t.Fatalf("WriteCredentialsCSV failed: %v", err)
	}
	want := strings.Join([]string{
		"Username,Password",
		"abanoub,pw1",
		"mina,pw2",
		"veronia,pw3",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}
}
