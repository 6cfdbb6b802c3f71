package server

import (
	"fmt"
	"sync"

	"cosmossdk.io/log"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

// Lobby is the single authoritative table shared by every transport
// and every connected client. All mutation goes through its exported
// methods, which take the write lock; readers (transports rendering a
// broadcast) take the read lock and never hold it across I/O.
type Lobby struct {
	mu       sync.RWMutex
	log      log.Logger
	table    *game.Table
	seatName [game.MaxSeats]string
	isBot    [game.MaxSeats]bool
	driving  bool // true while the bot driver holds an action in flight

	// lastPrintedLogLen is how far into the current hand's action log
	// this lobby has already surfaced to its own server-side logger;
	// it advances every time printNewActions runs so repeated calls
	// only ever print what's new.
	lastPrintedLogLen int

	// botsAuto is the preference stashed by the last ResetGame message:
	// when set, MaybeAutoAdvance deals the next hand itself once one
	// finishes, instead of waiting for a NextHand message.
	botsAuto bool
}

// NewLobby creates a Lobby around a freshly built table.
func NewLobby(logger log.Logger, params game.Params) *Lobby {
	return &Lobby{log: logger, table: game.NewTable(params)}
}

// Join seats name at the first open seat and returns its index. It
// does not start a hand; call StartNextHand once enough seats are
// filled.
func (l *Lobby) Join(name string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := 0; i < game.MaxSeats; i++ {
		if l.table.Seats[i] == nil {
			l.table.Seats[i] = &game.Seat{Player: name, Stack: startingStack}
			l.seatName[i] = name
			l.log.Info("player joined", "seat", i, "name", name)
			return i, nil
		}
	}
	return -1, fmt.Errorf("server: lobby is full")
}

// JoinBot seats a bot-driven player, same as Join but marking the seat
// so RunBotDriver will act for it.
func (l *Lobby) JoinBot(name string) (int, error) {
	seat, err := l.Join(name)
	if err != nil {
		return -1, err
	}
	l.mu.Lock()
	l.isBot[seat] = true
	l.mu.Unlock()
	return seat, nil
}

// IsBot reports whether seat is bot-driven: seated via JoinBot, or
// marked as a bot by NewGame or ResetGame.
func (l *Lobby) IsBot(seat int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if seat < 0 || seat >= game.MaxSeats {
		return false
	}
	return l.isBot[seat]
}

const startingStack = 500

// StartNextHand deals a new hand and advances the button, returning
// an error if a hand is already in progress.
func (l *Lobby) StartNextHand() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table.Hand != nil && l.table.Hand.Stage != game.Complete && l.table.Hand.Stage != game.Showdown {
		return fmt.Errorf("server: a hand is already in progress")
	}
	l.table.ButtonSeat = nextButton(l.table)
	if err := l.table.StartHand(); err != nil {
		return err
	}
	l.lastPrintedLogLen = 0
	l.log.Info("hand started", "button", l.table.ButtonSeat)
	return nil
}

// printNewActions logs every action-log entry this lobby hasn't
// surfaced yet, advancing lastPrintedLogLen so repeated calls only
// print what's new. Callers must already hold the write lock.
func (l *Lobby) printNewActions() {
	h := l.table.Hand
	if h == nil {
		return
	}
	if l.lastPrintedLogLen > len(h.RecentActions) {
		l.lastPrintedLogLen = 0
	}
	for _, ev := range h.RecentActions[l.lastPrintedLogLen:] {
		l.log.Info("action", "seat", ev.Seat, "kind", ev.Kind, "amount", ev.Amount, "to", ev.To, "stage", ev.Stage)
	}
	l.lastPrintedLogLen = len(h.RecentActions)
}

func nextButton(t *game.Table) int {
	for step := 1; step <= game.MaxSeats; step++ {
		i := (t.ButtonSeat + step) % game.MaxSeats
		if t.Seats[i] != nil && t.Seats[i].Stack > 0 {
			return i
		}
	}
	return t.ButtonSeat
}

// Act applies a seat's action to the in-progress hand on behalf of a
// client.
func (l *Lobby) Act(seat int, action game.Action) error {
	return l.act(seat, action, false)
}

// ActAsBot is Act taken on behalf of a bot-driven seat. It sets the
// driving flag only while it holds the write lock; the flag is
// cleared before it returns and is not part of Snapshot.
func (l *Lobby) ActAsBot(seat int, action game.Action) error {
	return l.act(seat, action, true)
}

func (l *Lobby) act(seat int, action game.Action, asBot bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table.Hand == nil {
		return fmt.Errorf("server: no hand in progress")
	}
	l.driving = asBot
	defer func() { l.driving = false }()
	if err := l.table.ApplyAction(seat, action); err != nil {
		return err
	}
	l.printNewActions()
	return nil
}

// Reset clears every seat, returning the lobby to an empty table with
// the same blind structure.
func (l *Lobby) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	params := l.table.Params
	l.table = game.NewTable(params)
	l.seatName = [game.MaxSeats]string{}
	l.isBot = [game.MaxSeats]bool{}
	l.lastPrintedLogLen = 0
	l.log.Info("lobby reset")
}

// NewGame replaces the current table with a fresh one seated from
// players in order, clears the bot-id list and builds it anew from
// each PlayerConfig's IsBot flag, and deals the first hand.
func (l *Lobby) NewGame(players []PlayerConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(players) < 2 {
		return fmt.Errorf("server: new game requires at least two players")
	}
	params := l.table.Params
	l.table = game.NewTable(params)
	l.seatName = [game.MaxSeats]string{}
	l.isBot = [game.MaxSeats]bool{}
	l.lastPrintedLogLen = 0

	for i, p := range players {
		if i >= game.MaxSeats {
			break
		}
		l.table.Seats[i] = &game.Seat{Player: p.Name, Stack: startingStack}
		l.seatName[i] = p.Name
		l.isBot[i] = p.IsBot
	}
	l.table.ButtonSeat = 0
	if err := l.table.StartHand(); err != nil {
		return err
	}
	l.log.Info("new game started", "players", len(players))
	return nil
}

// ResetGame rebuilds the table seating one human plus bots bot-driven
// opponents, and remembers botsAuto so MaybeAutoAdvance knows whether
// to deal the next hand on its own once one ends.
func (l *Lobby) ResetGame(bots int, botsAuto bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	params := l.table.Params
	l.table = game.NewTable(params)
	l.seatName = [game.MaxSeats]string{}
	l.isBot = [game.MaxSeats]bool{}
	l.lastPrintedLogLen = 0
	l.botsAuto = botsAuto

	l.table.Seats[0] = &game.Seat{Player: "you", Stack: startingStack}
	l.seatName[0] = "you"
	seated := 1
	for i := 1; i < game.MaxSeats && seated-1 < bots; i++ {
		name := fmt.Sprintf("bot-%d", i)
		l.table.Seats[i] = &game.Seat{Player: name, Stack: startingStack}
		l.seatName[i] = name
		l.isBot[i] = true
		seated++
	}
	l.table.ButtonSeat = 0
	if seated >= 2 {
		if err := l.table.StartHand(); err != nil {
			return err
		}
	}
	l.log.Info("game reset", "bots", bots, "bots_auto", botsAuto)
	return nil
}

// MaybeAutoAdvance deals the next hand itself when the last one just
// finished and the lobby's botsAuto preference is set, so a table full
// of bots (plus one human who keeps folding, say) keeps moving without
// an explicit NextHand message.
func (l *Lobby) MaybeAutoAdvance() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.botsAuto {
		return
	}
	h := l.table.Hand
	if h == nil || (h.Stage != game.Complete && h.Stage != game.Showdown) {
		return
	}
	l.table.ButtonSeat = nextButton(l.table)
	if err := l.table.StartHand(); err != nil {
		return
	}
	l.lastPrintedLogLen = 0
	l.log.Info("hand auto-started", "button", l.table.ButtonSeat)
}

// Snapshot returns the table's current public state.
func (l *Lobby) Snapshot() game.PublicState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table.Snapshot()
}

// HandInProgress reports whether a hand is currently between Preflop
// and River (used by the bot driver to decide whether to act).
func (l *Lobby) HandInProgress() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h := l.table.Hand
	return h != nil && h.Stage != game.Complete && h.Stage != game.Showdown
}

// ToAct returns the seat currently owed an action, or -1 if none.
func (l *Lobby) ToAct() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h := l.table.Hand
	if h == nil || len(h.PendingToAct) == 0 {
		return -1
	}
	return h.PendingToAct[0]
}

// AmountToCall returns how much more seat would need to commit this
// street to stay in the hand.
func (l *Lobby) AmountToCall(seat int) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table.AmountToCall(seat)
}

// BigBlind returns the table's configured big blind.
func (l *Lobby) BigBlind() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table.Params.BigBlind
}
