package chat

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/serenity/backend/internal/testutil"
)

func dialChat(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrames(t *testing.T, conn *websocket.Conn) []outgoingFrame {
	t.Helper()
	var frames []outgoingFrame
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var f outgoingFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type == FrameDone || f.Type == FrameError {
			return frames
		}
	}
}

func TestWebSocketStreamsFrames(t *testing.T) {
	primary := &testutil.FakeProvider{ProviderName: "groq", Chunks: []string{"one ", "two"}}
	srv := httptest.NewServer(setupRouter(primary, nil))
	defer srv.Close()

	conn := dialChat(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}))

	frames := readFrames(t, conn)
	require.Len(t, frames, 4)
	assert.Equal(t, FrameStart, frames[0].Type)
	assert.Equal(t, outgoingFrame{Type: FrameDelta, Content: "one "}, frames[1])
	assert.Equal(t, outgoingFrame{Type: FrameDelta, Content: "two"}, frames[2])
	assert.Equal(t, FrameDone, frames[3].Type)

	// 同一连接可以继续下一轮对话
	require.NoError(t, conn.WriteJSON(map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "again"}},
	}))
	frames = readFrames(t, conn)
	assert.Equal(t, FrameDone, frames[len(frames)-1].Type)
	assert.Equal(t, 2, primary.Calls())
}

func TestWebSocketErrorKeepsConnectionOpen(t *testing.T) {
	primary := &testutil.FakeProvider{ProviderName: "groq", OpenErr: errors.New("groq down")}
	srv := httptest.NewServer(setupRouter(primary, nil))
	defer srv.Close()

	conn := dialChat(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{bad")))
	frames := readFrames(t, conn)
	require.Len(t, frames, 1)
	assert.Equal(t, outgoingFrame{Type: FrameError, Error: "invalid request body"}, frames[0])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}))
	frames = readFrames(t, conn)
	require.Len(t, frames, 1)
	assert.Equal(t, FrameError, frames[0].Type)
	assert.Contains(t, frames[0].Error, "groq down")
}

func TestWebSocketMidStreamError(t *testing.T) {
	primary := &testutil.FakeProvider{ProviderName: "groq", Chunks: []string{"half"}, MidErr: errors.New("reset")}
	srv := httptest.NewServer(setupRouter(primary, nil))
	defer srv.Close()

	conn := dialChat(t, srv)
	require.NoError(t, conn.WriteJSON(map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	}))

	frames := readFrames(t, conn)
	require.Len(t, frames, 3)
	assert.Equal(t, FrameStart, frames[0].Type)
	assert.Equal(t, "half", frames[1].Content)
	assert.Equal(t, outgoingFrame{Type: FrameError, Error: "reset"}, frames[2])
}
