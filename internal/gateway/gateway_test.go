package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/timestamp"
)

type forwarded struct {
	Method string
	Path   string
	Query  string
	User   string
	Body   string
}

type backend struct {
	mu       sync.Mutex
	received []forwarded
	server   *httptest.Server
}

func newBackend(t *testing.T) *backend {
	b := &backend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.received = append(b.received, forwarded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			User:   r.Header.Get("X-Sharer-User-Id"),
			Body:   string(raw),
		})
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"relayed":true}`))
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) calls() []forwarded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]forwarded(nil), b.received...)
}

// setupGateway serves the gateway over a real listener; the reverse proxy needs a
// ResponseWriter that supports close notification.
func setupGateway(t *testing.T, serverURL string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g, err := New(serverURL, zap.NewNop())
	require.NoError(t, err)
	r := gin.New()
	g.RegisterRoutes(&r.RouterGroup)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type reply struct {
	Code int
	Body string
}

func send(t *testing.T, srv *httptest.Server, method, path, user string, body interface{}) reply {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return sendRaw(t, srv, method, path, user, payload)
}

func sendRaw(t *testing.T, srv *httptest.Server, method, path, user string, payload []byte) reply {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Sharer-User-Id", user)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return reply{Code: resp.StatusCode, Body: string(raw)}
}

func TestGateway_ForwardsValidRequestsVerbatim(t *testing.T) {
	b := newBackend(t)
	r := setupGateway(t, b.server.URL)

	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	body := map[string]interface{}{"itemId": 7, "start": start, "end": start.Add(time.Hour)}
	w := send(t, r, http.MethodPost, "/bookings", "1", body)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"relayed":true}`, w.Body)

	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bookings", calls[0].Path)
	assert.Equal(t, "1", calls[0].User)
	expected, _ := json.Marshal(body)
	assert.JSONEq(t, string(expected), calls[0].Body)

	w = send(t, r, http.MethodGet, "/bookings/owner?state=waiting&from=0&size=10", "2", nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
	calls = b.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "state=waiting&from=0&size=10", calls[1].Query)
}

func TestGateway_ForwardsZonelessBookingBody(t *testing.T) {
	b := newBackend(t)
	r := setupGateway(t, b.server.URL)

	start := time.Now().Add(24 * time.Hour).UTC()
	raw := fmt.Sprintf(`{"itemId":1,"start":%q,"end":%q}`,
		start.Format(timestamp.LocalLayout), start.Add(47*time.Hour).Format(timestamp.LocalLayout))

	w := sendRaw(t, r, http.MethodPost, "/bookings", "1", []byte(raw))
	assert.Equal(t, http.StatusTeapot, w.Code, w.Body)
	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, raw, calls[0].Body)

	past := time.Now().Add(-24 * time.Hour).UTC().Format(timestamp.LocalLayout)
	w = sendRaw(t, r, http.MethodPost, "/bookings", "1", []byte(fmt.Sprintf(`{"itemId":1,"start":%q,"end":%q}`, past, past)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRaw(t, r, http.MethodPost, "/bookings", "1", []byte(`{"itemId":1,"end":"2099-01-01T00:00:00"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code, "start is required")
	assert.Len(t, b.calls(), 1)
}

func TestGateway_RejectsBeforeForwarding(t *testing.T) {
	b := newBackend(t)
	r := setupGateway(t, b.server.URL)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
	}{
		{"missing user header", http.MethodGet, "/bookings", "", nil},
		{"size zero", http.MethodGet, "/bookings?size=0", "1", nil},
		{"size too large", http.MethodGet, "/bookings?size=101", "1", nil},
		{"negative from", http.MethodGet, "/bookings/owner?from=-1", "1", nil},
		{"unknown state", http.MethodGet, "/bookings?state=BOGUS", "1", nil},
		{"start in the past", http.MethodPost, "/bookings", "1", map[string]interface{}{"itemId": 1, "start": past, "end": future}},
		{"end in the past", http.MethodPost, "/bookings", "1", map[string]interface{}{"itemId": 1, "start": future, "end": past}},
		{"missing item", http.MethodPost, "/bookings", "1", map[string]interface{}{"start": future, "end": future.Add(time.Hour)}},
		{"approved not boolean", http.MethodPatch, "/bookings/5?approved=maybe", "1", nil},
		{"bad booking id", http.MethodGet, "/bookings/abc", "1", nil},
		{"invalid email", http.MethodPost, "/users", "", map[string]interface{}{"name": "A", "email": "nope"}},
		{"item without availability", http.MethodPost, "/items", "1", map[string]interface{}{"name": "Drill", "description": "Cordless"}},
		{"blank comment", http.MethodPost, "/items/3/comment", "1", map[string]interface{}{"text": "   "}},
		{"blank request", http.MethodPost, "/requests", "1", map[string]interface{}{"description": ""}},
		{"request page size zero", http.MethodGet, "/requests/all?size=0", "1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(t, r, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body)
		})
	}
	assert.Empty(t, b.calls())
}

func TestGateway_UnknownStateMessage(t *testing.T) {
	b := newBackend(t)
	r := setupGateway(t, b.server.URL)

	w := send(t, r, http.MethodGet, "/bookings?state=BOGUS", "1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unknown state: BOGUS"}`, w.Body)
}

func TestGateway_ServerDown(t *testing.T) {
	b := newBackend(t)
	r := setupGateway(t, b.server.URL)
	b.server.Close()

	w := send(t, r, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not a url", zap.NewNop())
	assert.Error(t, err)
}
