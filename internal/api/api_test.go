package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AFARIMINTAH/Safehaven/internal/api/middleware"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/chat"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/persona"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
	"github.com/AFARIMINTAH/Safehaven/internal/store/sqlite"
)

type scriptedCompleter struct {
	mu  sync.Mutex
	err error
}

func (s *scriptedCompleter) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *scriptedCompleter) Complete(_ context.Context, msgs []model.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	last := msgs[len(msgs)-1].Content
	switch {
	case strings.Contains(last, "suggest the best match"):
		return "Name: Ms. Abena Boateng, Email: abena.boateng@example.com, Phone: 024-456-7890", nil
	case strings.Contains(last, "summary of the conversation"):
		return "Talked through exam worries", nil
	}
	return "I hear you: " + last, nil
}

type fixedHealth struct{}

func (fixedHealth) IsHealthy() bool { return true }
func (fixedHealth) Components() map[string]bool {
	return map[string]bool{"store": true, "completion": false}
}

type testEnv struct {
	srv       *httptest.Server
	completer *scriptedCompleter
}

func newTestEnv(t *testing.T, legacyOpen bool, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	p, err := persona.Default()
	require.NoError(t, err)

	c := &scriptedCompleter{}
	mgr := chat.NewManager(p, c, chat.Options{MaxMessages: 30, Capacity: 100, TTL: time.Hour}, zerolog.Nop())

	h := NewRouter(Deps{
		Auth:            services.NewAuthService(st, auth.NewPasswordHasher(4), auth.NewTokenIssuer("test-secret", 5*time.Hour)),
		Moods:           services.NewMoodService(st, p),
		Journal:         services.NewJournalService(st, mgr),
		Referrals:       services.NewReferralService(p, mgr),
		Chat:            mgr,
		Health:          fixedHealth{},
		Limiter:         limiter,
		LegacyOpenMoods: legacyOpen,
		CORSOrigins:     []string{"*"},
		Log:             zerolog.Nop(),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, completer: c}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/user/register", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out["token"])
	return out["token"]
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	assert.Equal(t, e["error"], e["msg"])
	code, _ := e["code"].(string)
	return code
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, true, nil)
	env.register(t, "a@x.com")

	resp, body := env.do(t, http.MethodPost, "/user/register", "", map[string]string{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "conflict", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/user/login", "", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "token")

	resp, body = env.do(t, http.MethodPost, "/user/login", "", map[string]string{"email": "a@x.com", "password": "wrong12"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/user/register", "", map[string]string{"email": "bad", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errorCode(t, body))

	resp, _ = env.do(t, http.MethodPost, "/user/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_PasswordTooLongForBcrypt(t *testing.T) {
	env := newTestEnv(t, true, nil)

	resp, body := env.do(t, http.MethodPost, "/user/register", "", map[string]string{"email": "long@x.com", "password": strings.Repeat("a", 80)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Equal(t, "validation_error", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/user/login", "", map[string]string{"email": "long@x.com", "password": strings.Repeat("a", 80)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Equal(t, "validation_error", errorCode(t, body))
}

func TestChat(t *testing.T) {
	env := newTestEnv(t, true, nil)
	token := env.register(t, "a@x.com")

	resp, _ := env.do(t, http.MethodPost, "/chat", "", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/chat", token, map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "I hear you: hi", out["response"])

	resp, body = env.do(t, http.MethodPost, "/chat", token, map[string]interface{}{"message": 42})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), chat.MsgInvalidMessage)

	resp, _ = env.do(t, http.MethodPost, "/chat", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/chat", token, map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, true, nil)
	token := env.register(t, "a@x.com")
	env.completer.fail(&model.UpstreamError{Message: "Error processing your message", Details: `{"error":"quota"}`})

	resp, body := env.do(t, http.MethodPost, "/chat", token, map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "upstream_error", errorCode(t, body))
	assert.Contains(t, string(body), "quota")
}

func TestChat_RateLimited(t *testing.T) {
	env := newTestEnv(t, true, middleware.NewRateLimiter(0.001, 1, zerolog.Nop()))
	token := env.register(t, "a@x.com")

	resp, _ := env.do(t, http.MethodPost, "/chat", token, map[string]string{"message": "one"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := env.do(t, http.MethodPost, "/chat", token, map[string]string{"message": "two"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate_limited", errorCode(t, body))
}

func TestMoods_AuthenticatedFlow(t *testing.T) {
	env := newTestEnv(t, false, nil)
	token := env.register(t, "a@x.com")

	resp, body := env.do(t, http.MethodPost, "/api/moods/add", token, map[string]string{"mood": "Happy", "date": "2024-01-01", "note": "ok"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created struct {
		Message string          `json:"message"`
		Mood    model.MoodEntry `json:"mood"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Mood saved successfully", created.Message)
	assert.Equal(t, "happy", created.Mood.Mood)

	resp, body = env.do(t, http.MethodPost, "/api/moods", token, map[string]string{"mood": "sad", "date": "2024-02-01"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/moods/"+created.Mood.UserID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list []model.MoodEntry
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "sad", list[0].Mood)

	resp, _ = env.do(t, http.MethodGet, "/api/moods/someone-else", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/moods/"+created.Mood.UserID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "anonymous access is off")

	resp, body = env.do(t, http.MethodPost, "/api/moods/add", token, map[string]string{"mood": "elated"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errorCode(t, body))
}

func TestMoods_LegacyOpenRoutes(t *testing.T) {
	env := newTestEnv(t, true, nil)

	resp, body := env.do(t, http.MethodPost, "/api/moods", "", map[string]string{"userId": "legacy-1", "mood": "neutral"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "Mood recorded successfully")

	resp, body = env.do(t, http.MethodGet, "/api/moods/legacy-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.MoodEntry
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, body = env.do(t, http.MethodGet, "/api/moods/nobody", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	resp, _ = env.do(t, http.MethodPost, "/api/moods", "", map[string]string{"mood": "neutral"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "userId required when anonymous")

	resp, _ = env.do(t, http.MethodPost, "/api/moods/add", "", map[string]string{"mood": "neutral"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJournal(t *testing.T) {
	env := newTestEnv(t, true, nil)
	token := env.register(t, "a@x.com")

	resp, body := env.do(t, http.MethodPost, "/api/journal", token, map[string]string{"summary": "A calm day"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodPost, "/api/journal", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var generated model.JournalEntry
	require.NoError(t, json.Unmarshal(body, &generated))
	assert.Equal(t, "Talked through exam worries", generated.Summary)

	resp, body = env.do(t, http.MethodGet, "/api/journal", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []model.JournalEntry
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)

	resp, _ = env.do(t, http.MethodGet, "/api/journal", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCounselorsAndReferrals(t *testing.T) {
	env := newTestEnv(t, true, nil)
	token := env.register(t, "a@x.com")

	resp, body := env.do(t, http.MethodGet, "/api/counselors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var counselors []model.Counselor
	require.NoError(t, json.Unmarshal(body, &counselors))
	assert.Len(t, counselors, 3)

	resp, body = env.do(t, http.MethodPost, "/api/referrals", token, map[string]string{"name": "Ama", "email": "ama@x.com", "reason": "feeling lonely"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var ref model.Referral
	require.NoError(t, json.Unmarshal(body, &ref))
	assert.True(t, ref.Matched)
	assert.Equal(t, "Ms. Abena Boateng", ref.Counselor.Name)

	resp, _ = env.do(t, http.MethodPost, "/api/referrals", token, map[string]string{"name": "Ama"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, true, nil)

	resp, body := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
		Timestamp  string            `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "unhealthy", h.Components["completion"])
	assert.NotEmpty(t, h.Timestamp)

	resp, body = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "safehaven_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, true, nil)
	req, err := http.NewRequest(http.MethodOptions, env.srv.URL+"/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
