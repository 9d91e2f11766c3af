package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	sessionService "github.com/zhouzirui/tractor-swipe/backend/internal/service/session"
	"github.com/zhouzirui/tractor-swipe/backend/internal/storage/kv"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type neverMatch struct{}

func (neverMatch) IntN(int) int { return 0 }

func (neverMatch) Float64() float64 { return 0.99 }

type received struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	svc := sessionService.NewService(sessionService.Options{
		Profiles: profile.NewMemoryStore(profile.Seed()),
		Storage:  kv.NewMemoryStore(),
		Random:   func() sessionService.Random { return neverMatch{} },
	})
	entry, err := svc.Create(context.Background(), "device-ws")
	require.NoError(t, err)

	r := chi.NewRouter()
	NewWebSocketHandler(svc, nil).RegisterRoutes(r)
	return httptest.NewServer(r), entry.Swipe.ID()
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketSwipeFlow(t *testing.T) {
	srv, sessionID := setup(t)
	defer srv.Close()
	conn := dial(t, srv, sessionID)
	defer conn.Close()

	hello := read(t, conn)
	assert.Equal(t, "result", hello.Type)
	assert.Equal(t, "connected", hello.Data["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "swipe", "data": map[string]string{"direction": "next"}}))
	notice := read(t, conn)
	assert.Equal(t, "notification", notice.Type)
	assert.Equal(t, "error", notice.Data["kind"])
	assert.Equal(t, "Not your type of tractor!", notice.Data["message"])

	result := read(t, conn)
	assert.Equal(t, "turn", result.Data["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "swipe", "data": map[string]string{"button": "accept"}}))
	notice = read(t, conn)
	assert.Equal(t, "info", notice.Data["kind"])
	result = read(t, conn)
	assert.EqualValues(t, 0, result.Data["matchCount"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "slide", "data": map[string]int{"index": 4}}))
	result = read(t, conn)
	state, ok := result.Data["state"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4, state["currentIndex"])
}

func TestWebSocketRejectsBadInput(t *testing.T) {
	srv, sessionID := setup(t)
	defer srv.Close()
	conn := dial(t, srv, sessionID)
	defer conn.Close()
	read(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "teleport"}))
	assert.Equal(t, "error", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "swipe", "data": map[string]string{"direction": "up"}}))
	assert.Equal(t, "error", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "swipe", "sessionId": "someone-else"}))
	assert.Equal(t, "error", read(t, conn).Type)
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestWebSocketButtonPress(t *testing.T) {
	srv, sessionID := setup(t)
	defer srv.Close()
	conn := dial(t, srv, sessionID)
	defer conn.Close()
	read(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "button", "data": map[string]string{"button": "reject"}}))
	notice := read(t, conn)
	assert.Equal(t, "notification", notice.Type)
	assert.Equal(t, "Not your type of tractor!", notice.Data["message"])

	result := read(t, conn)
	assert.Equal(t, "turn", result.Data["type"])
	turn, ok := result.Data["turn"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "reject", turn["decision"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "button", "data": map[string]string{"button": "maybe"}}))
	assert.Equal(t, "error", read(t, conn).Type)
}

func TestWebSocketLatestConnectionKeepsNotifications(t *testing.T) {
	srv, sessionID := setup(t)
	defer srv.Close()

	first := dial(t, srv, sessionID)
	read(t, first)
	second := dial(t, srv, sessionID)
	defer second.Close()
	read(t, second)

	require.NoError(t, first.Close())

	require.NoError(t, second.WriteJSON(map[string]any{"type": "button", "data": map[string]string{"button": "reject"}}))
	notice := read(t, second)
	assert.Equal(t, "notification", notice.Type)
	assert.Equal(t, "turn", read(t, second).Data["type"])
}
