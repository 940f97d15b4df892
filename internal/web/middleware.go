package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"
)

const sessionCookie = "drivevids_session"

// APIKeyMiddleware requires the key in X-API-Key, an Authorization bearer
// token, the api_key query parameter or the session cookie. A request
// authenticated by query parameter gets the session cookie, so a browser
// that opened /?api_key=... keeps working through the page's forms.
// /health stays public.
func APIKeyMiddleware(apiKey string, logger *log.Logger, next http.Handler) http.Handler {
	session := sessionToken(apiKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		fromQuery := false
		providedKey := r.Header.Get("X-API-Key")
		if providedKey == "" {
			if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				providedKey = token
			}
		}
		if providedKey == "" {
			providedKey = r.URL.Query().Get("api_key")
			fromQuery = providedKey != ""
		}

		switch {
		case providedKey != "":
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				logger.Printf("unauthorized request from %s", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if fromQuery {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    session,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
				})
			}
		default:
			c, err := r.Cookie(sessionCookie)
			if err != nil || subtle.ConstantTimeCompare([]byte(c.Value), []byte(session)) != 1 {
				logger.Printf("unauthorized request from %s", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// sessionToken derives the cookie value from the key so the key itself is
// never stored in the browser.
func sessionToken(apiKey string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte("drivevids web session"))
	return hex.EncodeToString(mac.Sum(nil))
}

// SecurityHeaders adds security headers to all responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs method, path, status and latency of every request.
func RequestLogger(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming transports working behind the logger.
func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
