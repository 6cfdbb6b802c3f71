package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"cosmossdk.io/log"
)

// HTTPTransport exposes the lobby over plain request/response HTTP for
// clients that can't hold a persistent socket: POST /api/join, POST
// /api/message dispatches one action, and GET /api/state long-polls
// for the next broadcast (or returns the current snapshot immediately
// once the wait elapses).
type HTTPTransport struct {
	lobby   *Lobby
	bc      *Broadcaster
	log     log.Logger
	waitMax time.Duration
}

// NewHTTPTransport wires an HTTPTransport to the shared lobby and
// broadcaster.
func NewHTTPTransport(lobby *Lobby, bc *Broadcaster, logger log.Logger) *HTTPTransport {
	return &HTTPTransport{lobby: lobby, bc: bc, log: logger, waitMax: 25 * time.Second}
}

// Routes registers the transport's handlers on mux.
func (t *HTTPTransport) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/join", t.handleJoin)
	mux.HandleFunc("/api/message", t.handleMessage)
	mux.HandleFunc("/api/state", t.handleState)
}

func (t *HTTPTransport) handleJoin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "join requires a name", http.StatusBadRequest)
		return
	}
	seat, err := t.lobby.Join(body.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, ServerMsg{Type: ServerWelcome, Seat: seat})
}

func (t *HTTPTransport) handleMessage(w http.ResponseWriter, r *http.Request) {
	// Messages that don't act on behalf of a particular seat (starting
	// or resetting the game, polling, pinging) can omit the query
	// parameter entirely.
	seat := -1
	if raw := r.URL.Query().Get("seat"); raw != "" {
		s, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid seat query parameter", http.StatusBadRequest)
			return
		}
		seat = s
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}
	msg, err := ParseClientMsg(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reply, err := Dispatch(t.lobby, t.bc, seat, msg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if reply != nil {
		writeJSON(w, *reply)
		return
	}
	state := t.lobby.Snapshot()
	writeJSON(w, ServerMsg{Type: ServerState, State: &state})
}

// handleState long-polls: it subscribes to the broadcaster and either
// returns the first update it sees or, once waitMax passes, the
// lobby's current snapshot.
func (t *HTTPTransport) handleState(w http.ResponseWriter, r *http.Request) {
	sub := t.bc.Subscribe()
	defer t.bc.Unsubscribe(sub)

	select {
	case msg, ok := <-sub:
		if !ok {
			break
		}
		writeJSON(w, msg)
		return
	case <-time.After(t.waitMax):
	case <-r.Context().Done():
		return
	}
	state := t.lobby.Snapshot()
	writeJSON(w, ServerMsg{Type: ServerState, State: &state})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
