// Package server hosts the shared lobby state and the three transports
// (WebSocket, HTTP long-poll, and TLS/ALPN peer-to-peer) that all
// drive it.
package server

import (
	"encoding/json"
	"fmt"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

// PlayerConfig names one seat to fill when starting a fresh game via a
// NewGame message.
type PlayerConfig struct {
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot,omitempty"`
}

// ClientMsg is the externally-tagged envelope every transport decodes
// incoming client traffic into: {"type": "...", ...fields}. It covers
// every variant dispatch understands: Action, Subscribe, RequestState,
// Ping, NextHand, NewGame, and ResetGame, plus the Join handshake used
// by the socket-based transports to seat a connection in the first
// place.
type ClientMsg struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	Seat     int             `json:"seat,omitempty"`
	Action   string          `json:"action,omitempty"`
	Amount   uint64          `json:"amount,omitempty"`
	Players  []PlayerConfig  `json:"players,omitempty"`
	Bots     int             `json:"bots,omitempty"`
	BotsAuto bool            `json:"bots_auto,omitempty"`
	Raw      json.RawMessage `json:"-"`
}

const (
	ClientJoin         = "join"
	ClientAction       = "action"
	ClientSubscribe    = "subscribe"
	ClientRequestState = "request_state"
	ClientPing         = "ping"
	ClientNextHand     = "next_hand"
	ClientNewGame      = "new_game"
	ClientResetGame    = "reset_game"
	ClientReset        = "reset"
)

// ServerMsg is the externally-tagged envelope broadcast to clients.
type ServerMsg struct {
	Type  string            `json:"type"`
	State *game.PublicState `json:"state,omitempty"`
	Error string            `json:"error,omitempty"`
	Seat  int               `json:"seat,omitempty"`
}

const (
	ServerState   = "state"
	ServerError   = "error"
	ServerWelcome = "welcome"
	ServerPong    = "pong"
)

// ParseClientMsg decodes one message of client traffic for the
// WebSocket and HTTP transports; the P2P transport decodes the same
// ClientMsg type directly off its stream, so the wire format stays
// identical across all three.
func ParseClientMsg(raw []byte) (ClientMsg, error) {
	var m ClientMsg
	if err := json.Unmarshal(raw, &m); err != nil {
		return ClientMsg{}, fmt.Errorf("server: invalid client message: %w", err)
	}
	m.Raw = raw
	return m, nil
}

func actionKindFromString(s string) (game.ActionKind, bool) {
	switch s {
	case "fold":
		return game.Fold, true
	case "check_call":
		return game.CheckCall, true
	case "bet_raise":
		return game.BetRaise, true
	default:
		return 0, false
	}
}
