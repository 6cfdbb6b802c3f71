package server

import (
	"fmt"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

// Dispatch applies one ClientMsg against the lobby and publishes the
// resulting state to every subscriber. It is transport-agnostic: every
// adapter (WebSocket, HTTP, P2P) funnels decoded client traffic
// through this single function so dispatch semantics never drift
// between them.
//
// The returned ServerMsg, when non-nil, is a direct reply meant for
// the requester alone (RequestState's snapshot, Ping's Pong, Join's
// Welcome) rather than something every subscriber should also see;
// callers send it back over whatever connection the message arrived
// on instead of relying on the broadcast.
func Dispatch(lobby *Lobby, bc *Broadcaster, seat int, msg ClientMsg) (*ServerMsg, error) {
	switch msg.Type {
	case ClientJoin:
		s, err := lobby.Join(msg.Name)
		if err != nil {
			return nil, err
		}
		return &ServerMsg{Type: ServerWelcome, Seat: s}, nil
	case ClientAction:
		kind, ok := actionKindFromString(msg.Action)
		if !ok {
			return nil, fmt.Errorf("server: unknown action %q", msg.Action)
		}
		if err := lobby.Act(seat, game.Action{Kind: kind, Amount: msg.Amount}); err != nil {
			return nil, err
		}
	case ClientNextHand:
		if err := lobby.StartNextHand(); err != nil {
			return nil, err
		}
	case ClientNewGame:
		if err := lobby.NewGame(msg.Players); err != nil {
			return nil, err
		}
	case ClientResetGame:
		if err := lobby.ResetGame(msg.Bots, msg.BotsAuto); err != nil {
			return nil, err
		}
	case ClientReset:
		lobby.Reset()
	case ClientSubscribe:
		// No state mutation; the subscriber just wants to be caught up,
		// which the broadcast below does.
	case ClientRequestState:
		state := lobby.Snapshot()
		return &ServerMsg{Type: ServerState, State: &state}, nil
	case ClientPing:
		return &ServerMsg{Type: ServerPong}, nil
	default:
		return nil, fmt.Errorf("server: unknown message type %q", msg.Type)
	}

	lobby.MaybeAutoAdvance()
	state := lobby.Snapshot()
	bc.Publish(ServerMsg{Type: ServerState, State: &state})
	return nil, nil
}
