package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	repo "github.com/oshokin/thermo-slots/internal/repository/session"
	"github.com/oshokin/thermo-slots/internal/service/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer starts the renderer over a real session service.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := session.NewService(repo.NewMemoryRepository())
	store := NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

	server := httptest.NewServer(NewServer(context.Background(), svc, store).Handler())
	t.Cleanup(server.Close)

	return server
}

// newBrowser returns a client that keeps cookies and follows redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// readBody reads and closes a response body.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

// get fetches path and returns the status and body.
func get(t *testing.T, browser *http.Client, base, path string) (int, string) {
	t.Helper()

	resp, err := browser.Get(base + path)
	require.NoError(t, err)

	return resp.StatusCode, readBody(t, resp)
}

// post submits a form and returns the status and body after redirects.
func post(t *testing.T, browser *http.Client, base, path string, form url.Values) (int, string) {
	t.Helper()

	resp, err := browser.PostForm(base+path, form)
	require.NoError(t, err)

	return resp.StatusCode, readBody(t, resp)
}

// TestPanel_Scenario plays the save/adjust/recall scenario through the HTML forms.
func TestPanel_Scenario(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	browser := newBrowser(t)

	code, page := get(t, browser, server.URL, "/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, page, "Current temperature: <strong>0°C</strong>")
	require.Contains(t, page, "A (no value saved)")

	post(t, browser, server.URL, "/actions/increment", nil)
	_, page = post(t, browser, server.URL, "/actions/increment", nil)
	require.Contains(t, page, "<strong>2°C</strong>")

	_, page = post(t, browser, server.URL, "/actions/activate_save", nil)
	require.Contains(t, page, "save to A")
	require.Contains(t, page, "choose a slot")

	// The notice is shown on one render only.
	_, page = get(t, browser, server.URL, "/")
	require.NotContains(t, page, "choose a slot")
	require.Contains(t, page, "save to A")

	_, page = post(t, browser, server.URL, "/actions/press_slot", url.Values{"slot": {"A"}})
	require.Contains(t, page, "recall A (2°C)")
	require.Contains(t, page, "saved to A")

	_, page = post(t, browser, server.URL, "/actions/decrement", nil)
	require.Contains(t, page, "<strong>1°C</strong>")

	_, page = post(t, browser, server.URL, "/actions/press_slot", url.Values{"slot": {"A"}})
	require.Contains(t, page, "<strong>2°C</strong>")

	_, page = post(t, browser, server.URL, "/actions/press_slot", url.Values{"slot": {"B"}})
	require.Contains(t, page, "no value saved in slot B")
	require.Contains(t, page, "<strong>2°C</strong>")
}

// TestPanel_RejectsBadInput answers 400 for unknown actions and slots.
func TestPanel_RejectsBadInput(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	browser := newBrowser(t)

	code, _ := post(t, browser, server.URL, "/actions/press_slot", url.Values{"slot": {"Z"}})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = post(t, browser, server.URL, "/actions/evaporate", nil)
	require.Equal(t, http.StatusBadRequest, code)
}

// TestPanel_BrowsersAreIsolated gives each cookie jar its own session.
func TestPanel_BrowsersAreIsolated(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	first := newBrowser(t)
	second := newBrowser(t)

	post(t, first, server.URL, "/actions/increment", nil)

	_, page := get(t, second, server.URL, "/")
	require.Contains(t, page, "<strong>0°C</strong>")

	_, page = get(t, first, server.URL, "/")
	require.Contains(t, page, "<strong>1°C</strong>")
}

// TestAPI_SnapshotAndActions exercises the JSON endpoints.
func TestAPI_SnapshotAndActions(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	browser := newBrowser(t)

	code, body := get(t, browser, server.URL, "/api/snapshot")
	require.Equal(t, http.StatusOK, code)

	var snapshot snapshotResponse
	require.NoError(t, json.Unmarshal([]byte(body), &snapshot))
	require.NotEmpty(t, snapshot.SessionID)
	require.Equal(t, "idle", snapshot.Mode)
	require.Nil(t, snapshot.Slots["C"])
	require.Equal(t, "C (no value saved)", snapshot.Labels["C"])

	send := func(action, body string) (int, actionResponse) {
		resp, err := browser.Post(server.URL+"/api/actions/"+action, "application/json", strings.NewReader(body))
		require.NoError(t, err)

		var reply actionResponse

		raw := readBody(t, resp)
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.Unmarshal([]byte(raw), &reply))
		}

		return resp.StatusCode, reply
	}

	code, reply := send("recall_slot", `{"slot":"C"}`)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, reply.Notice)
	require.Equal(t, "warning", reply.Notice.Kind)

	code, reply = send("increment", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, reply.Snapshot.Current)
	require.Nil(t, reply.Notice)
	require.Equal(t, snapshot.SessionID, reply.Snapshot.SessionID)

	code, reply = send("activate_save", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, reply.Snapshot.SavingMode)

	code, reply = send("press_slot", `{"slot":"c"}`)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, reply.Snapshot.Slots["C"])
	require.Equal(t, 1, *reply.Snapshot.Slots["C"])
	require.False(t, reply.Snapshot.SavingMode)

	code, _ = send("save_slot", `{"slot":"Q"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = send("increment", `{"slot":`)
	require.Equal(t, http.StatusBadRequest, code)
}

// TestHealthAndMetrics checks the operational endpoints.
func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	browser := newBrowser(t)

	code, body := get(t, browser, server.URL, "/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body)

	post(t, browser, server.URL, "/actions/increment", nil)

	code, body = get(t, browser, server.URL, "/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "thermo_slots_session_actions_total")
}
