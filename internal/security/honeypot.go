package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cup-admin/internal/mailer"
	"cup-admin/internal/web"
)

const (
	trackWindow          = 24 * time.Hour
	failedLoginThreshold = 5
)

// Tracker counts probe and failed-login hits per address. The redis cache
// satisfies it.
type Tracker interface {
	TrackSuspiciousAttempt(addr string, window time.Duration) (int64, error)
	TrackFailedLogin(addr string, window time.Duration) (int64, error)
}

var suspiciousPathFragments = []string{
	".php",
	"wp-admin",
	"wp-login",
	"wp-content",
	"phpmyadmin",
	".env",
	".git",
	"../",
	"..%2f",
	"etc/passwd",
	"<script",
	"%3cscript",
	"union select",
	"union%20select",
	"cgi-bin",
	".asp",
	"config.json",
	"id_rsa",
}

var suspiciousUsernameFragments = []string{
	"'",
	"\"",
	";",
	"--",
	"1=1",
	"<script",
	"union select",
	"drop table",
	"${",
	"../",
}

// IsSuspiciousPath reports whether a request path looks like a scanner or
// injection probe, and which fragment matched. Only the path component is
// inspected; a query string is stripped before matching.
func IsSuspiciousPath(path string) (bool, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	lower := strings.ToLower(path)
	for _, fragment := range suspiciousPathFragments {
		if strings.Contains(lower, fragment) {
			return true, fragment
		}
	}
	return false, ""
}

// IsSuspiciousUsername flags login usernames carrying injection fragments.
func IsSuspiciousUsername(username string) (bool, string) {
	lower := strings.ToLower(username)
	for _, fragment := range suspiciousUsernameFragments {
		if strings.Contains(lower, fragment) {
			return true, fragment
		}
	}
	return false, ""
}

// Honeypot watches request paths and login attempts. It never blocks a
// legitimate request and its alerting is fire-and-forget.
type Honeypot struct {
	tracker Tracker
	mailer  mailer.Mailer
}

func NewHoneypot(tracker Tracker, m mailer.Mailer) *Honeypot {
	return &Honeypot{tracker: tracker, mailer: m}
}

// Middleware intercepts suspicious paths with a warning payload before
// they reach the router.
func (h *Honeypot) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if suspicious, reason := IsSuspiciousPath(r.URL.Path); suspicious {
			h.report(clientAddr(r), r.URL.Path, "path matched "+reason)
			web.WriteJSON(w, http.StatusForbidden, map[string]string{
				"message": "Unauthorized access detected",
				"path":    r.URL.Path,
				"status":  "LOGGED & REPORTED",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CheckLogin is called by the auth handler with every attempt. It reports
// injection-style usernames and repeated failures but never rejects the
// attempt itself.
func (h *Honeypot) CheckLogin(r *http.Request, username string, failed bool) {
	addr := clientAddr(r)
	if suspicious, reason := IsSuspiciousUsername(username); suspicious {
		h.report(addr, "/admin/login", fmt.Sprintf("login username matched %s", reason))
		return
	}
	if !failed || h.tracker == nil {
		return
	}
	count, err := h.tracker.TrackFailedLogin(addr, trackWindow)
	if err != nil {
		logrus.WithError(err).Debug("failed-login tracking unavailable")
		return
	}
	if count == failedLoginThreshold {
		h.alert(addr, "/admin/login", fmt.Sprintf("%d failed logins", count))
	}
}

func (h *Honeypot) report(addr, path, reason string) {
	repeats := int64(1)
	if h.tracker != nil {
		if count, err := h.tracker.TrackSuspiciousAttempt(addr, trackWindow); err == nil {
			repeats = count
		}
	}
	logrus.WithFields(logrus.Fields{
		"addr":    addr,
		"path":    path,
		"reason":  reason,
		"repeats": repeats,
	}).Warn("suspicious request")
	if repeats > 1 {
		reason = fmt.Sprintf("%s (attempt %d)", reason, repeats)
	}
	h.alert(addr, path, reason)
}

func (h *Honeypot) alert(addr, path, reason string) {
	if h.mailer == nil {
		return
	}
	h.mailer.SendAlert(
		"Security alert",
		fmt.Sprintf("Address: %s\nPath: %s\nReason: %s\nTime: %s",
			addr, path, reason, time.Now().Format(time.RFC3339)),
	)
}

func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
