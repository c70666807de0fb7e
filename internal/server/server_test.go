package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iburimskiy/particle-portfolio/internal/chat"
	"github.com/iburimskiy/particle-portfolio/internal/profile"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type stubRelay struct {
	locale  string
	history []chat.Message
	text    string
}

func (r *stubRelay) Reply(_ context.Context, locale string, history []chat.Message, text string) chat.Message {
	r.locale, r.history, r.text = locale, history, text
	return chat.Message{ID: "r1", Role: chat.RoleAssistant, Content: "reply to " + text}
}

func newTestServer(t *testing.T, relay chat.Responder) *Server {
	t.Helper()
	store, err := profile.NewStore("", nil)
	require.NoError(t, err)
	return New(store, nil, relay, nil)
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newTestServer(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLocales(t *testing.T) {
	rec, body := do(t, newTestServer(t, nil), http.MethodGet, "/api/locales", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", body["default"])

	locales := body["locales"].([]any)
	require.Len(t, locales, 4)
	ar := locales[2].(map[string]any)
	assert.Equal(t, "ar", ar["code"])
	assert.Equal(t, "rtl", ar["dir"])
}

func TestProfileLocalized(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodGet, "/api/profile?lang=ar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "مصطفى كنعان", body["name"])
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	assert.NotContains(t, body, "I18n")

	_, body = do(t, s, http.MethodGet, "/api/profile?lang=xx", "")
	assert.Equal(t, "Mustafa Kanaan", body["name"])

	rec, body = do(t, s, http.MethodGet, "/api/profile", "", "Accept-Language", "fr-CH, ar;q=0.8")
	assert.Equal(t, "ar", rec.Header().Get("Content-Language"))
	assert.Equal(t, "مصطفى كنعان", body["name"])
}

func TestTranslations(t *testing.T) {
	s := newTestServer(t, nil)

	rec, body := do(t, s, http.MethodGet, "/api/i18n/tr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	strs := body["strings"].(map[string]any)
	assert.Equal(t, "Hakkımda", strs["nav.about"])
	assert.Equal(t, "Send", strs["chat.send"], "missing keys fall back to English")
	assert.Len(t, strs["chat.quickPrompts"], 4, "lists are included")

	_, body = do(t, s, http.MethodGet, "/api/i18n/de", "")
	prompts := body["strings"].(map[string]any)["chat.quickPrompts"].([]any)
	require.Len(t, prompts, 4)
	assert.Contains(t, prompts[0], "Wer ist Mustafa")

	rec, _ = do(t, s, http.MethodGet, "/api/i18n/xx", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = do(t, s, http.MethodGet, "/api/i18n/de/nav.contact", "")
	assert.Equal(t, "Kontakt", body["value"])

	_, body = do(t, s, http.MethodGet, "/api/i18n/de/chat.quickPrompts", "")
	assert.Len(t, body["value"], 4)

	_, body = do(t, s, http.MethodGet, "/api/i18n/de/no.such.key", "")
	assert.Equal(t, "no.such.key", body["value"])
}

func TestChat(t *testing.T) {
	relay := &stubRelay{}
	s := newTestServer(t, relay)

	rec, body := do(t, s, http.MethodPost, "/api/chat",
		`{"lang":"xx","history":[{"role":"assistant","content":"hi"}],"message":"  who?  "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	reply := body["reply"].(map[string]any)
	assert.Equal(t, "reply to who?", reply["content"])
	assert.Equal(t, "assistant", reply["role"])
	assert.Equal(t, "en", relay.locale)
	assert.Equal(t, "who?", relay.text)
	require.Len(t, relay.history, 1)
	assert.Equal(t, "hi", relay.history[0].Content)
}

func TestChatRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, &stubRelay{})

	rec, _ := do(t, s, http.MethodPost, "/api/chat", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/chat", `{"lang":"de"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, newTestServer(t, nil), http.MethodPost, "/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
