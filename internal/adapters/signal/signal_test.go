package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/roomchat/internal/app"
	"github.com/dkeye/roomchat/internal/app/orch"
	"github.com/dkeye/roomchat/internal/core"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	o := orch.New(app.DropPolicy{}, nil)
	ctl := NewSignalWSController(o, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("secret"))))
	r.GET("/ws", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if name != "" {
		u += "?userName=" + url.QueryEscape(name)
	}
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	expectEvent(t, ws, app.EventConnected)
	return ws
}

func send(t *testing.T, ws *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(app.Envelope{Event: event, Data: raw}))
}

func expectEvent(t *testing.T, ws *websocket.Conn, event string) app.Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env app.Envelope
	require.NoError(t, ws.ReadJSON(&env))
	require.Equal(t, event, env.Event, "payload %s", env.Data)
	return env
}

func textOf(t *testing.T, env app.Envelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestSignal_RoomLifecycleOverWebsocket(t *testing.T) {
	req := require.New(t)
	srv, o := newTestServer(t)
	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")

	send(t, alice, "add_room", map[string]string{"roomName": "general"})
	expectEvent(t, alice, app.EventRoomCreated)
	expectEvent(t, alice, app.EventRoster)

	send(t, bob, "join_room", map[string]string{"roomName": "general"})
	expectEvent(t, bob, app.EventRoomJoined)
	expectEvent(t, bob, app.EventRoster)
	notice := expectEvent(t, alice, app.EventSystemMessage)
	var msg domain.Message
	req.NoError(json.Unmarshal(notice.Data, &msg))
	req.Equal("user bob has joined", msg.Text())
	expectEvent(t, alice, app.EventRoster)

	send(t, bob, "new_message", map[string]string{"messageText": "hi", "messageRoomName": "general"})
	for _, ws := range []*websocket.Conn{alice, bob} {
		env := expectEvent(t, ws, app.EventNewMessage)
		req.NoError(json.Unmarshal(env.Data, &msg))
		req.Equal("hi", msg.Text())
		sender, _ := msg.Sender()
		req.Equal("bob", sender)
	}

	req.NoError(bob.Close())
	left := expectEvent(t, alice, app.EventSystemMessage)
	req.NoError(json.Unmarshal(left.Data, &msg))
	req.Equal("user bob has disconnected", msg.Text())
	rosterEnv := expectEvent(t, alice, app.EventRoster)
	var roster domain.Roster
	req.NoError(json.Unmarshal(rosterEnv.Data, &roster))
	req.Len(roster.ChatUsers, 1)
	req.Equal("alice", roster.ChatUsers[0].Username)
	req.Eventually(func() bool { return o.Registry.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSignal_RejectsMalformedFrames(t *testing.T) {
	srv, _ := newTestServer(t)
	ws := dial(t, srv, "alice")

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.Equal(t, "bad_json", textOf(t, expectEvent(t, ws, app.EventError)))

	send(t, ws, "teleport", nil)
	require.Equal(t, "unknown_event", textOf(t, expectEvent(t, ws, app.EventError)))

	send(t, ws, "join_room", map[string]string{"roomName": ""})
	require.Equal(t, domain.ErrEmptyRoomName.Error(), textOf(t, expectEvent(t, ws, app.EventError)))

	send(t, ws, "join_room", "general")
	require.Equal(t, "bad_payload", textOf(t, expectEvent(t, ws, app.EventError)))

	send(t, ws, "join_room", map[string]string{"roomName": "ghost"})
	expectEvent(t, ws, app.EventRoomNotExist)
}

func TestSignal_PingAndWhoAmI(t *testing.T) {
	req := require.New(t)
	srv, _ := newTestServer(t)
	ws := dial(t, srv, "")

	send(t, ws, "ping", nil)
	expectEvent(t, ws, app.EventPong)

	send(t, ws, "whoami", nil)
	env := expectEvent(t, ws, app.EventWhoAmI)
	var who app.WhoAmIPayload
	req.NoError(json.Unmarshal(env.Data, &who))
	req.Equal(domain.DefaultUsername, who.UserName)
	req.NotEmpty(who.UserID)
	req.Empty(who.Rooms)
}

func TestWsSignalConn_TrySendAfterClose(t *testing.T) {
	srv, _ := newTestServer(t)
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)

	conn := newWsSignalConn(ws, 1)
	require.NoError(t, conn.TrySend([]byte("a")))
	require.ErrorIs(t, conn.TrySend([]byte("b")), core.ErrBackpressure)
	conn.Close()
	conn.Close()
	require.ErrorIs(t, conn.TrySend([]byte("c")), core.ErrConnectionClosed)
}
