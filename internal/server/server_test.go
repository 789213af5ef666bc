package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-assistant/internal/chat/history"
	"crm-assistant/internal/common/config"
	"crm-assistant/internal/common/logger"
)

type fakeChat struct {
	reply       string
	shouldPanic bool
	last        string
}

func (f *fakeChat) Handle(ctx context.Context, message string) string {
	if f.shouldPanic {
		panic("dispatch exploded")
	}
	f.last = message
	return f.reply
}

type fakeHistory struct {
	sessions []string
	entries  []history.Entry
	err      error
}

func (f *fakeHistory) Append(ctx context.Context, session string, entry history.Entry) error {
	f.sessions = append(f.sessions, session)
	f.entries = append(f.entries, entry)
	return f.err
}

func testConfig(secret string) *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    secret,
			AllowedRoles: []string{"admin", "superadmin"},
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, chat ChatHandler, hist HistoryAppender) *httptest.Server {
	t.Helper()
	srv := New(cfg, chat, hist, logger.NewTestLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postChat(t *testing.T, ts *httptest.Server, body string, headers map[string]string) (*http.Response, map[string]string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/chat", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestChat_Success(t *testing.T) {
	chat := &fakeChat{reply: "Tiket terbuka hari ini:\n1) open — A"}
	ts := newTestServer(t, testConfig(""), chat, nil)

	resp, body := postChat(t, ts, `{"message":"tiket hari ini"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tiket terbuka hari ini:\n1) open — A", body["reply"])
	assert.Equal(t, "tiket hari ini", chat.last)
}

func TestChat_MissingMessageReturns400(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "x"}, nil)

	resp, body := postChat(t, ts, `{}`, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestChat_EmptyMessageReturns400(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "x"}, nil)

	resp, _ := postChat(t, ts, `{"message":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_InvalidJSONReturns400(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "x"}, nil)

	resp, _ := postChat(t, ts, `{"message":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_UnknownFieldReturns400(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "x"}, nil)

	resp, _ := postChat(t, ts, `{"message":"hi","mesage":"typo"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChat_PanicReturns500WithMessage(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{shouldPanic: true}, nil)

	resp, body := postChat(t, ts, `{"message":"boom"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body["error"], "dispatch exploded")
}

func TestChat_HistoryRecorded(t *testing.T) {
	hist := &fakeHistory{}
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "ok"}, hist)

	resp, _ := postChat(t, ts, `{"message":"halo","session":"sess-1"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, hist.entries, 1)
	assert.Equal(t, []string{"sess-1"}, hist.sessions)
	assert.Equal(t, "halo", hist.entries[0].Message)
	assert.Equal(t, "ok", hist.entries[0].Reply)
}

func TestChat_HistoryFailureDoesNotFailRequest(t *testing.T) {
	hist := &fakeHistory{err: assert.AnError}
	ts := newTestServer(t, testConfig(""), &fakeChat{reply: "ok"}, hist)

	resp, body := postChat(t, ts, `{"message":"halo"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["reply"])
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{}, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, testConfig(""), &fakeChat{}, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// --- auth ---

func signToken(t *testing.T, secret, role, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestChat_AuthRequiredWhenSecretSet(t *testing.T) {
	ts := newTestServer(t, testConfig("topsecret"), &fakeChat{reply: "ok"}, nil)

	resp, _ := postChat(t, ts, `{"message":"halo"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChat_InvalidTokenRejected(t *testing.T) {
	ts := newTestServer(t, testConfig("topsecret"), &fakeChat{reply: "ok"}, nil)

	resp, _ := postChat(t, ts, `{"message":"halo"}`, map[string]string{
		"Authorization": "Bearer " + signToken(t, "wrong-secret", "admin", "u1"),
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChat_DisallowedRoleRejected(t *testing.T) {
	ts := newTestServer(t, testConfig("topsecret"), &fakeChat{reply: "ok"}, nil)

	resp, _ := postChat(t, ts, `{"message":"halo"}`, map[string]string{
		"Authorization": "Bearer " + signToken(t, "topsecret", "client", "u1"),
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestChat_AdminTokenAccepted(t *testing.T) {
	hist := &fakeHistory{}
	ts := newTestServer(t, testConfig("topsecret"), &fakeChat{reply: "ok"}, hist)

	resp, body := postChat(t, ts, `{"message":"halo"}`, map[string]string{
		"Authorization": "Bearer " + signToken(t, "topsecret", "admin", "user-42"),
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["reply"])
	// History falls back to the token subject when no session is sent.
	assert.Equal(t, []string{"user-42"}, hist.sessions)
}
