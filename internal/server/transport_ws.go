package server

import (
	"encoding/json"
	"net/http"

	"cosmossdk.io/log"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSTransport serves the lobby over a single WebSocket endpoint. Each
// connection's first frame must be either a join message naming the
// player or a new_game message seating a whole fresh table; every
// frame after that is dispatched through Dispatch against the seat
// the handshake assigned.
type WSTransport struct {
	lobby *Lobby
	bc    *Broadcaster
	log   log.Logger
}

// NewWSTransport wires a WSTransport to the shared lobby and broadcaster.
func NewWSTransport(lobby *Lobby, bc *Broadcaster, logger log.Logger) *WSTransport {
	return &WSTransport{lobby: lobby, bc: bc, log: logger}
}

func (t *WSTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.Error("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}
	msg, err := ParseClientMsg(raw)
	if err != nil || (msg.Type != ClientJoin && msg.Type != ClientNewGame) || (msg.Type == ClientJoin && msg.Name == "") {
		_ = conn.WriteJSON(ServerMsg{Type: ServerError, Error: "first message must be a join with a name or a new_game"})
		return
	}
	var seat int
	if msg.Type == ClientNewGame {
		if err := t.lobby.NewGame(msg.Players); err != nil {
			_ = conn.WriteJSON(ServerMsg{Type: ServerError, Error: err.Error()})
			return
		}
		seat = 0
	} else {
		seat, err = t.lobby.Join(msg.Name)
		if err != nil {
			_ = conn.WriteJSON(ServerMsg{Type: ServerError, Error: err.Error()})
			return
		}
	}
	if err := conn.WriteJSON(ServerMsg{Type: ServerWelcome, Seat: seat}); err != nil {
		return
	}

	sub := t.bc.Subscribe()
	defer t.bc.Unsubscribe(sub)

	state := t.lobby.Snapshot()
	_ = conn.WriteJSON(ServerMsg{Type: ServerState, State: &state})

	done := make(chan struct{})
	go t.writer(conn, sub, done)
	t.reader(conn, seat)
	close(done)
}

func (t *WSTransport) reader(conn *websocket.Conn, seat int) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := ParseClientMsg(raw)
		if err != nil {
			_ = conn.WriteJSON(ServerMsg{Type: ServerError, Error: err.Error()})
			continue
		}
		reply, err := Dispatch(t.lobby, t.bc, seat, msg)
		if err != nil {
			_ = conn.WriteJSON(ServerMsg{Type: ServerError, Error: err.Error()})
			continue
		}
		if reply != nil {
			_ = conn.WriteJSON(*reply)
		}
	}
}

func (t *WSTransport) writer(conn *websocket.Conn, sub chan ServerMsg, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, mustJSON(msg)); err != nil {
				return
			}
		}
	}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"type":"error","error":"internal encode failure"}`)
	}
	return b
}
