package http

import (
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"tmichat/internal/app/adapters/chat"
	"tmichat/internal/app/domain/irc"
	"tmichat/internal/app/infrastructure/config"
	"tmichat/internal/app/ports"
	"tmichat/pkg/logger"
)

type fakeSource struct {
	status chat.Status
	rooms  map[string]ports.RoomState
}

func (f *fakeSource) Status() chat.Status { return f.status }

func (f *fakeSource) RoomState(channel string) (ports.RoomState, bool) {
	rs, ok := f.rooms[channel]
	return rs, ok
}

func newTestRouter(token string) *Router {
	gin.SetMode(gin.TestMode)

	src := &fakeSource{
		status: chat.Status{
			State:    "connected",
			User:     "bot",
			Channels: map[string]string{"forsen": "joined"},
			Rooms:    []string{"forsen"},
		},
		rooms: map[string]ports.RoomState{
			"forsen": {Channel: "forsen", Room: irc.Tags{"subsOnly": true}},
		},
	}
	return NewRouter(logger.NewDiscard(), config.HTTP{AuthToken: token}, src)
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)
	return w
}

func TestRouter_Status(t *testing.T) {
	r := newTestRouter("")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got chat.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "connected", got.State)
	assert.Equal(t, "bot", got.User)
	assert.Equal(t, "joined", got.Channels["forsen"])
	assert.Equal(t, []string{"forsen"}, got.Rooms)
}

func TestRouter_RoomState(t *testing.T) {
	r := newTestRouter("")

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{name: "known channel", path: "/channels/forsen/roomstate", wantCode: http.StatusOK},
		{name: "unknown channel", path: "/channels/xqc/roomstate", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/channels/forsen/roomstate", nil))
	var got ports.RoomState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "forsen", got.Channel)
	assert.Equal(t, true, got.Room["subsOnly"])
}

func TestRouter_Auth(t *testing.T) {
	r := newTestRouter("secret")

	tests := []struct {
		name     string
		path     string
		prepare  func(req *http.Request)
		wantCode int
	}{
		{name: "status without token", path: "/status", wantCode: http.StatusUnauthorized},
		{
			name:     "status with wrong token",
			path:     "/status",
			prepare:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "status with token",
			path:     "/status",
			prepare:  func(req *http.Request) { req.Header.Set("Authorization", "Bearer secret") },
			wantCode: http.StatusOK,
		},
		{name: "metrics without credentials", path: "/metrics", wantCode: http.StatusUnauthorized},
		{
			name:     "metrics with basic auth",
			path:     "/metrics",
			prepare:  func(req *http.Request) { req.SetBasicAuth("admin", "secret") },
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			assert.Equal(t, tt.wantCode, serve(r, req).Code)
		})
	}
}

func TestRouter_MetricsOpenWithoutToken(t *testing.T) {
	r := newTestRouter("")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tmichat_connected")
}
