package server

import (
	"os"
	"sync"
	"testing"

	"cosmossdk.io/log"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

func testLogger() log.Logger {
	return log.NewLogger(os.Stderr)
}

func TestLobbyJoinAssignsDistinctSeats(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	a, err := l.Join("alice")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	b, err := l.Join("bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seats, both got %d", a)
	}
}

func TestLobbyConcurrentJoinsStayDistinct(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	const n = 9
	var wg sync.WaitGroup
	seats := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seats[i], errs[i] = l.Join("p")
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
		if seen[seats[i]] {
			t.Fatalf("seat %d assigned twice", seats[i])
		}
		seen[seats[i]] = true
	}
}

func TestLobbyStartNextHandRequiresTwoSeats(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	if _, err := l.Join("solo"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := l.StartNextHand(); err == nil {
		t.Fatalf("expected error starting a hand with one seat")
	}
}

func TestDispatchNewGameSeatsPlayersAndDealsAHand(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	bc := NewBroadcaster()
	sub := bc.Subscribe()
	defer bc.Unsubscribe(sub)

	msg := ClientMsg{Type: ClientNewGame, Players: []PlayerConfig{{Name: "alice"}, {Name: "bob", IsBot: true}}}
	if _, err := Dispatch(l, bc, 0, msg); err != nil {
		t.Fatalf("Dispatch new_game: %v", err)
	}
	if !l.HandInProgress() {
		t.Fatalf("expected a hand to be dealt after new_game")
	}
	if !l.IsBot(1) {
		t.Fatalf("seat 1 should be marked as a bot")
	}
	select {
	case m := <-sub:
		if m.Type != ServerState {
			t.Fatalf("broadcast type = %q, want %q", m.Type, ServerState)
		}
	default:
		t.Fatalf("expected a broadcast state after new_game")
	}
}

func TestDispatchRequestStateRepliesWithoutBroadcasting(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	bc := NewBroadcaster()
	sub := bc.Subscribe()
	defer bc.Unsubscribe(sub)

	reply, err := Dispatch(l, bc, 0, ClientMsg{Type: ClientRequestState})
	if err != nil {
		t.Fatalf("Dispatch request_state: %v", err)
	}
	if reply == nil || reply.Type != ServerState {
		t.Fatalf("expected a direct state reply, got %+v", reply)
	}
	select {
	case m := <-sub:
		t.Fatalf("request_state must not also broadcast, got %+v", m)
	default:
	}
}

func TestDispatchPingRepliesPong(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	bc := NewBroadcaster()
	reply, err := Dispatch(l, bc, 0, ClientMsg{Type: ClientPing})
	if err != nil {
		t.Fatalf("Dispatch ping: %v", err)
	}
	if reply == nil || reply.Type != ServerPong {
		t.Fatalf("expected a pong reply, got %+v", reply)
	}
}

func TestDispatchResetGameSeatsBotsAndStashesAutoPreference(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	bc := NewBroadcaster()
	if _, err := Dispatch(l, bc, 0, ClientMsg{Type: ClientResetGame, Bots: 2, BotsAuto: true}); err != nil {
		t.Fatalf("Dispatch reset_game: %v", err)
	}
	if !l.IsBot(1) || !l.IsBot(2) {
		t.Fatalf("expected seats 1 and 2 to be bots")
	}
	if !l.HandInProgress() {
		t.Fatalf("expected a hand to start with one human and two bots seated")
	}
	if !l.botsAuto {
		t.Fatalf("expected botsAuto to be stashed from the reset_game message")
	}
}

func TestAmountToCallReflectsOutstandingBlind(t *testing.T) {
	l := NewLobby(testLogger(), game.Params{SmallBlind: 1, BigBlind: 2})
	if _, err := l.Join("alice"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := l.Join("bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := l.StartNextHand(); err != nil {
		t.Fatalf("StartNextHand: %v", err)
	}
	toAct := l.ToAct()
	if l.AmountToCall(toAct) == 0 {
		t.Fatalf("expected the player facing the opening blind to owe a call")
	}
	if l.BigBlind() != 2 {
		t.Fatalf("BigBlind() = %d, want 2", l.BigBlind())
	}
}

func TestBroadcasterDropsForSlowSubscriber(t *testing.T) {
	bc := NewBroadcaster()
	sub := bc.Subscribe()
	defer bc.Unsubscribe(sub)

	for i := 0; i < broadcastBufferSize+5; i++ {
		bc.Publish(ServerMsg{Type: ServerState})
	}
	// Publish must never block regardless of how far the subscriber
	// lags; draining whatever made it through is all we can assert.
	drained := 0
	for {
		select {
		case <-sub:
			drained++
			continue
		default:
		}
		break
	}
	if drained > broadcastBufferSize {
		t.Fatalf("drained %d messages, buffer is only %d deep", drained, broadcastBufferSize)
	}
}
