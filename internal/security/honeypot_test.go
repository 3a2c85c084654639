package security

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeTracker struct {
	mu        sync.Mutex
	attempts  map[string]int64
	failures  map[string]int64
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{attempts: map[string]int64{}, failures: map[string]int64{}}
}

func (f *fakeTracker) TrackSuspiciousAttempt(addr string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[addr]++
	return f.attempts[addr], nil
}

func (f *fakeTracker) TrackFailedLogin(addr string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[addr]++
	return f.failures[addr], nil
}

type fakeMailer struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakeMailer) SendAlert(subject, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subjects)
}

func TestIsSuspiciousPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/ostaz/users", false},
		{"/admin/icons/3/edit", false},
		{"/wp-admin/setup.php", true},
		{"/index.php", true},
		{"/.env", true},
		{"/files/../../etc/passwd", true},
		{"/search?q=%3Cscript%3E", false}, // query is not part of the path
		{"/index.php?step=1", true},      // but a probe path stays a probe
		{"/users/union select", true},
		{"/phpmyadmin", true},
	}
	for _, tc := range cases {
		if got, _ := IsSuspiciousPath(tc.path); got != tc.want {
			t.Errorf("IsSuspiciousPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIsSuspiciousUsername(t *testing.T) {
	cases := []struct {
		username string
		want     bool
	}{
		{"mina", false},
		{"abou_fam2", false},
		{"admin' OR 1=1 --", true},
		{"<script>alert(1)</script>", true},
		{"x; drop table users", true},
	}
	for _, tc := range cases {
		if got, _ := IsSuspiciousUsername(tc.username); got != tc.want {
			t.Errorf("IsSuspiciousUsername(%q) = %v, want %v", tc.username, got, tc.want)
		}
	}
}

func TestMiddlewareInterceptsProbes(t *testing.T) {
	mail := &fakeMailer{}
	hp := NewHoneypot(newFakeTracker(), mail)

	called := false
	handler := hp.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/wp-login.php", nil))
	if called {
		t.Fatal("handler should not run for a probe")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if mail.count() != 1 {
		t.Fatalf("expected one alert, got %d", mail.count())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/ostaz/quizzes", nil))
	if !called {
		t.Fatal("legitimate request should pass through")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCheckLoginAlertsAtThreshold(t *testing.T) {
	mail := &fakeMailer{}
	hp := NewHoneypot(newFakeTracker(), mail)

	r := httptest.NewRequest("POST", "/admin/login", nil)
	r.RemoteAddr = "10.1.2.3:50000"
	for i := 0; i < failedLoginThreshold; i++ {
		hp.CheckLogin(r, "mina", true)
	}
	if mail.count() != 1 {
		t.Fatalf("expected exactly one alert at the threshold, got %d", mail.count())
	}

	// Successful attempts never count.
	hp.CheckLogin(r, "mina", false)
	if mail.count() != 1 {
		t.Fatalf("success should not alert, got %d", mail.count())
	}
}

func TestCheckLoginFlagsInjectionUsername(t *testing.T) {
	mail := &fakeMailer{}
	hp := NewHoneypot(newFakeTracker(), mail)

	r := httptest.NewRequest("POST", "/admin/login", nil)
	hp.CheckLogin(r, "admin' OR 1=1 --", false)
	if mail.count() != 1 {
		t.Fatalf("expected alert for injection username, got %d", mail.count())
	}
}
