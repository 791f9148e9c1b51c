package handlers

import (
	"coinbit-sync/internal/application/dto"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://app.coinbit.local"

func dialStream(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) dto.StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg dto.StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStreamHandler_ListFlow(t *testing.T) {
	env := newTestEnv(t, true)
	conn := dialStream(t, env)

	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "list"}))

	first := readMessage(t, conn)
	assert.Equal(t, "list", first.Action)
	assert.Equal(t, "loading", first.Kind)

	second := readMessage(t, conn)
	assert.Equal(t, "success", second.Kind)
	assert.Equal(t, "network", second.Origin)
	assert.NotNil(t, second.Data)
}

func TestStreamHandler_RejectsInvalidRequests(t *testing.T) {
	env := newTestEnv(t, true)
	conn := dialStream(t, env)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := readMessage(t, conn)
	assert.Equal(t, "error", msg.Kind)
	assert.Equal(t, "Malformed request", msg.Message)

	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "detail"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "error", msg.Kind)
	assert.Equal(t, dto.ErrMissingCoinID.Error(), msg.Message)

	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "explode"}))
	msg = readMessage(t, conn)
	assert.Contains(t, msg.Message, "unknown action")
}

func TestStreamHandler_LiveFavoritesView(t *testing.T) {
	env := newTestEnv(t, true)
	conn := dialStream(t, env)

	// poblar el cache primero
	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "list"}))
	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "favorites"}))
	initial := readMessage(t, conn)
	assert.Equal(t, dto.KindUpdate, initial.Kind)

	require.NoError(t, conn.WriteJSON(dto.StreamRequest{Action: "toggle_favorite", CoinID: "solana"}))

	// el toggle responde y la vista viva re-emite (una o dos veces); el orden no esta fijado
	var sawToggle, sawUpdate bool
	for i := 0; i < 5 && !(sawToggle && sawUpdate); i++ {
		msg := readMessage(t, conn)
		switch msg.Action {
		case "toggle_favorite":
			sawToggle = msg.Kind == "success"
		case "favorites":
			data, ok := msg.Data.(map[string]interface{})
			require.True(t, ok)
			if data["count"] == float64(1) {
				sawUpdate = true
			}
		}
	}
	assert.True(t, sawToggle)
	assert.True(t, sawUpdate)
}

func TestStreamHandler_OriginCheck(t *testing.T) {
	env := newTestEnv(t, true)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream"

	tests := []struct {
		name   string
		origin string
		ok     bool
	}{
		{name: "origen permitido", origin: testOrigin, ok: true},
		{name: "origen permitido distinto case", origin: "HTTP://App.Coinbit.Local", ok: true},
		{name: "sin header Origin", origin: "", ok: true},
		{name: "otro sitio", origin: "http://evil.example", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.ok {
				require.NoError(t, err)
				_ = conn.Close()
				return
			}
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}

func TestOriginChecker(t *testing.T) {
	withOrigin := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/stream", nil)
		r.Header.Set("Origin", origin)
		return r
	}

	assert.Nil(t, originChecker(nil), "lista vacia usa el chequeo de gorilla")
	assert.True(t, originChecker([]string{"*"})(withOrigin("http://anything.example")))

	check := originChecker([]string{" https://coinbit.app/ "})
	assert.True(t, check(withOrigin("https://coinbit.app")))
	assert.False(t, check(withOrigin("https://coinbit.app.evil.example")))
}
