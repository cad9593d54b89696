package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const wsWait = 5 * time.Second

func newGameServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, ClassicBoard())
	go hub.Run()
	server := httptest.NewServer(SetupRoutes(hub, t.TempDir()))
	t.Cleanup(server.Close)
	t.Cleanup(hub.rooms.StopAll)
	return hub, server
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialWS(t *testing.T, server *httptest.Server) *wsClient {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(msgType string, data interface{}) {
	c.t.Helper()
	if err := c.conn.WriteJSON(Envelope{T: msgType, Data: data}); err != nil {
		c.t.Fatalf("send %s: %v", msgType, err)
	}
}

// expectJSON reads frames until a text envelope of the wanted type arrives,
// skipping binary state frames and unrelated messages.
func (c *wsClient) expectJSON(msgType string) json.RawMessage {
	c.t.Helper()
	deadline := time.Now().Add(wsWait)
	for time.Now().Before(deadline) {
		c.conn.SetReadDeadline(time.Now().Add(wsWait))
		mt, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("waiting for %s: %v", msgType, err)
		}
		if mt != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.t.Fatalf("bad envelope %q: %v", raw, err)
		}
		if env.T == msgType {
			return env.D
		}
	}
	c.t.Fatalf("timed out waiting for %s", msgType)
	return nil
}

// expectState reads frames until a binary game state frame arrives.
func (c *wsClient) expectState() GameState {
	c.t.Helper()
	deadline := time.Now().Add(wsWait)
	for time.Now().Before(deadline) {
		c.conn.SetReadDeadline(time.Now().Add(wsWait))
		mt, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("waiting for state frame: %v", err)
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		var state GameState
		if err := msgpack.Unmarshal(raw, &state); err != nil {
			c.t.Fatalf("decode state frame: %v", err)
		}
		return state
	}
	c.t.Fatalf("timed out waiting for a state frame")
	return GameState{}
}

func TestCreateJoinStartFlow(t *testing.T) {
	_, server := newGameServer(t)

	host := dialWS(t, server)
	host.send(MsgCreateRoom, CreateRoomMsg{DisplayName: "Alice"})

	var created RoomCodeMsg
	if err := json.Unmarshal(host.expectJSON(MsgRoomCreated), &created); err != nil {
		t.Fatal(err)
	}
	if created.Code == "" {
		t.Fatal("empty room code")
	}

	guest := dialWS(t, server)
	guest.send(MsgJoinRoom, JoinRoomMsg{Code: created.Code, DisplayName: "Bob"})

	var joined RoomCodeMsg
	if err := json.Unmarshal(guest.expectJSON(MsgRoomJoined), &joined); err != nil {
		t.Fatal(err)
	}
	if joined.Code != created.Code {
		t.Fatalf("joined %s, want %s", joined.Code, created.Code)
	}

	// The join is broadcast to everyone already in the lobby
	var lobby LobbyStateMsg
	if err := json.Unmarshal(host.expectJSON(MsgLobbyUpdate), &lobby); err != nil {
		t.Fatal(err)
	}
	for len(lobby.Players) < 2 {
		if err := json.Unmarshal(host.expectJSON(MsgLobbyUpdate), &lobby); err != nil {
			t.Fatal(err)
		}
	}

	host.send(MsgStartGame, nil)
	host.expectJSON(MsgGameStarted)
	guest.expectJSON(MsgGameStarted)

	state := host.expectState()
	if len(state.Tanks) != 2 {
		t.Fatalf("snapshot has %d tanks, want 2", len(state.Tanks))
	}
	for _, team := range Teams {
		flag, ok := state.Flags[team]
		if !ok || !flag.AtBase {
			t.Errorf("%s flag not at base in first snapshot: %+v", team, flag)
		}
	}

	later := host.expectState()
	if later.Tick <= state.Tick {
		t.Errorf("tick did not advance: %d then %d", state.Tick, later.Tick)
	}
}

func TestPlayerInputMovesTank(t *testing.T) {
	_, server := newGameServer(t)

	host := dialWS(t, server)
	host.send(MsgCreateRoom, CreateRoomMsg{DisplayName: "Alice"})
	host.expectJSON(MsgRoomCreated)

	var assigned PlayerAssignmentMsg
	host.send(MsgStartGame, nil)
	if err := json.Unmarshal(host.expectJSON(MsgPlayerAssignment), &assigned); err != nil {
		t.Fatal(err)
	}

	before := host.expectState()
	start := before.Tanks[assigned.PlayerID]

	// Forward input is held; every tick moves the tank further
	host.send(MsgPlayerInput, PlayerInput{Up: true})

	deadline := time.Now().Add(wsWait)
	for {
		state := host.expectState()
		tank := state.Tanks[assigned.PlayerID]
		if Distance(tank.X, tank.Y, start.X, start.Y) > 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("tank never moved from (%g, %g)", start.X, start.Y)
		}
	}
}

func TestJoinUnknownRoomOverWire(t *testing.T) {
	_, server := newGameServer(t)

	client := dialWS(t, server)
	client.send(MsgJoinRoom, JoinRoomMsg{Code: "ZZZZ", DisplayName: "Bob"})

	var errMsg ErrorMsg
	if err := json.Unmarshal(client.expectJSON(MsgRoomError), &errMsg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errMsg.Message, "not found") {
		t.Errorf("error = %q", errMsg.Message)
	}
}

func TestDisconnectTearsDownRoom(t *testing.T) {
	hub, server := newGameServer(t)

	host := dialWS(t, server)
	host.send(MsgCreateRoom, CreateRoomMsg{DisplayName: "Alice"})

	var created RoomCodeMsg
	if err := json.Unmarshal(host.expectJSON(MsgRoomCreated), &created); err != nil {
		t.Fatal(err)
	}
	if hub.TotalConns() != 1 {
		t.Errorf("TotalConns = %d, want 1", hub.TotalConns())
	}

	host.conn.Close()

	deadline := time.Now().Add(wsWait)
	for hub.rooms.RoomCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("room not torn down, %d rooms left", hub.rooms.RoomCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	for hub.TotalConns() != 0 || hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection tracking not drained: total=%d clients=%d", hub.TotalConns(), hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The freed code behaves like any unknown room
	late := dialWS(t, server)
	late.send(MsgJoinRoom, JoinRoomMsg{Code: created.Code, DisplayName: "Bob"})
	late.expectJSON(MsgRoomError)
}

func TestAccountsDisabledWithoutDatabase(t *testing.T) {
	_, server := newGameServer(t)

	client := dialWS(t, server)
	client.send(MsgRegister, RegisterMsg{Username: "alice", Password: "hunter2"})

	var errMsg ErrorMsg
	if err := json.Unmarshal(client.expectJSON(MsgRoomError), &errMsg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errMsg.Message, "not enabled") {
		t.Errorf("error = %q", errMsg.Message)
	}
}

func TestQRCodeEndpoint(t *testing.T) {
	_, server := newGameServer(t)

	resp, err := http.Get(server.URL + "/qr/ABCD")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}

	bad, err := http.Get(server.URL + "/qr/bad1")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("bad code status = %d, want 400", bad.StatusCode)
	}
}
