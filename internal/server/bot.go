package server

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"

	"cosmossdk.io/log"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

// BotDelayRange is the [min,max) wait before a bot seat acts, keeping
// a table watchable instead of resolving a whole hand in one tick.
type BotDelayRange struct {
	MinMillis int
	MaxMillis int
}

// RunBotDriver walks whichever seats are marked as bots: whenever one
// of them is next to act, it waits a random delay inside delay and
// then picks the trivial action for its situation — opening the big
// blind if nothing is owed, calling otherwise. It never folds or
// raises; a bot seat exists to keep a table moving, not to play well.
// It returns when ctx is canceled.
func RunBotDriver(ctx context.Context, lobby *Lobby, bc *Broadcaster, delay BotDelayRange, logger log.Logger) {
	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !lobby.HandInProgress() {
			continue
		}
		seat := lobby.ToAct()
		if seat < 0 || !lobby.IsBot(seat) {
			continue
		}

		wait, err := randDuration(delay)
		if err != nil {
			logger.Error("bot delay roll failed", "err", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if !lobby.HandInProgress() || lobby.ToAct() != seat {
			continue // state moved on while we waited
		}
		action := game.Action{Kind: game.CheckCall}
		if lobby.AmountToCall(seat) == 0 {
			action = game.Action{Kind: game.BetRaise, Amount: lobby.BigBlind()}
		}
		if err := lobby.ActAsBot(seat, action); err != nil {
			logger.Error("bot action failed", "seat", seat, "err", err)
			continue
		}
		state := lobby.Snapshot()
		bc.Publish(ServerMsg{Type: ServerState, State: &state})
	}
}

func randDuration(r BotDelayRange) (time.Duration, error) {
	span := r.MaxMillis - r.MinMillis
	if span <= 0 {
		return time.Duration(r.MinMillis) * time.Millisecond, nil
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	n := int(binary.LittleEndian.Uint64(buf[:]) % uint64(span))
	return time.Duration(r.MinMillis+n) * time.Millisecond, nil
}
