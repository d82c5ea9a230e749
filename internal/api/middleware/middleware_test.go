package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

type staticAuth map[string]string

func (s staticAuth) Authenticate(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", model.NewUnauthorizedError("Token is not valid")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(auth.UserID(r.Context())))
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(staticAuth{"good": "u1"})(http.HandlerFunc(echoUser))

	cases := []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, ""},
		{"Token good", http.StatusUnauthorized, ""},
		{"Bearer bad", http.StatusUnauthorized, ""},
		{"Bearer good", http.StatusOK, "u1"},
		{"bearer good", http.StatusOK, "u1"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, c.status, rr.Code, "header %q", c.header)
		if c.body != "" {
			assert.Equal(t, c.body, rr.Body.String())
		}
		if c.status == http.StatusUnauthorized {
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body["code"])
		}
	}
}

func TestOptionalAuth(t *testing.T) {
	h := OptionalAuth(staticAuth{"good": "u1"})(http.HandlerFunc(echoUser))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "u1", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRateLimiter_PerUserBuckets(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zerolog.Nop())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req = req.WithContext(auth.WithUserID(req.Context(), user))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, do("u1"))
	assert.Equal(t, http.StatusOK, do("u1"))
	assert.Equal(t, http.StatusTooManyRequests, do("u1"))
	assert.Equal(t, http.StatusOK, do("u2"), "other users keep their own bucket")
}

func TestRateLimiter_AnonymousKeyedByIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zerolog.Nop())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))
}

func TestRateLimiter_CleanupDropsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1, zerolog.Nop())
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.getLimiter("old")
	now = now.Add(rl.idle + time.Minute)
	rl.getLimiter("fresh")

	rl.Cleanup()
	assert.Equal(t, 1, rl.size())
}

func TestMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := mux.NewRouter()
	r.Use(Metrics)
	r.HandleFunc("/api/moods/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}).Methods(http.MethodGet)
	h := Logging(log)(r)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/moods/u1", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "/api/moods/u1", line["path"])
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
