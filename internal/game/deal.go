package game

import (
	"fmt"
	"sort"

	"github.com/mentalcardgames/mcg-sub000/internal/cards"
)

func occupiedSeatsWithStack(t *Table) []int {
	out := make([]int, 0, MaxSeats)
	for i := 0; i < MaxSeats; i++ {
		if t.Seats[i] != nil && t.Seats[i].Stack > 0 {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// nextOccupiedSeat returns the next funded seat clockwise from from.
func nextOccupiedSeat(t *Table, from int) int {
	for step := 1; step <= MaxSeats; step++ {
		i := (from + step) % MaxSeats
		if t.Seats[i] != nil && t.Seats[i].Stack > 0 {
			return i
		}
	}
	return from
}

func blindSeats(t *Table) (sb, bb int) {
	active := occupiedSeatsWithStack(t)
	if len(active) < 2 {
		return -1, -1
	}
	if len(active) == 2 {
		// Heads-up: the button posts the small blind.
		sb = t.ButtonSeat
		bb = nextOccupiedSeat(t, sb)
		return sb, bb
	}
	sb = nextOccupiedSeat(t, t.ButtonSeat)
	bb = nextOccupiedSeat(t, sb)
	return sb, bb
}

func postBlindCommit(h *Hand, t *Table, seat int, amount uint64) error {
	s := t.Seats[seat]
	if s == nil || !h.InHand[seat] {
		return fmt.Errorf("game: invalid blind seat %d", seat)
	}
	put := amount
	if put > s.Stack {
		put = s.Stack
	}
	s.Stack -= put
	h.StreetCommit[seat] += put
	h.TotalCommit[seat] += put
	if s.Stack == 0 {
		h.AllIn[seat] = true
	}
	return nil
}

// StartHand deals a fresh hand: it resets per-hand state for every
// funded seat, posts blinds, shuffles and deals hole cards, and builds
// the preflop pending-to-act queue starting after the big blind.
func (t *Table) StartHand() error {
	active := occupiedSeatsWithStack(t)
	if len(active) < 2 {
		return fmt.Errorf("game: need at least 2 funded seats to start a hand")
	}

	deck := cards.NewDeck()
	if err := cards.Shuffle(deck); err != nil {
		return err
	}

	h := &Hand{Deck: deck, Stage: Preflop}
	for _, seat := range active {
		h.InHand[seat] = true
	}

	sb, bb := blindSeats(t)
	if sb == -1 {
		return fmt.Errorf("game: could not determine blind seats")
	}
	h.SmallBlindSeat = sb
	h.BigBlindSeat = bb
	if err := postBlindCommit(h, t, sb, t.Params.SmallBlind); err != nil {
		return err
	}
	if err := postBlindCommit(h, t, bb, t.Params.BigBlind); err != nil {
		return err
	}
	h.BetTo = h.StreetCommit[bb]
	h.MinRaiseSize = t.Params.BigBlind

	t.Hand = h
	dealHoleCards(t)
	h.PendingToAct = buildPendingToAct(h, bb)
	return nil
}

// dealHoleCards deals two cards to every seat in the hand, starting
// at the small blind seat and dealing one card per seat per pass.
func dealHoleCards(t *Table) {
	h := t.Hand
	order := seatsInHandFrom(h, h.SmallBlindSeat)
	for c := 0; c < 2; c++ {
		for _, seat := range order {
			if h.DeckCursor >= len(h.Deck) {
				return
			}
			h.Hole[seat][c] = h.Deck[h.DeckCursor]
			h.DeckCursor++
		}
	}
}

// seatsInHandFrom lists every seat still in the hand, in clockwise
// order starting at (and including) from.
func seatsInHandFrom(h *Hand, from int) []int {
	var order []int
	cur := from
	for {
		if h.InHand[cur] {
			order = append(order, cur)
		}
		cur = (cur + 1) % MaxSeats
		if cur == from {
			break
		}
	}
	return order
}

// dealCommunity burns no card (no-limit home-game style) and deals n
// cards face up onto the board.
func dealCommunity(h *Hand, n int) {
	for i := 0; i < n && h.DeckCursor < len(h.Deck); i++ {
		h.Board = append(h.Board, h.Deck[h.DeckCursor])
		h.DeckCursor++
	}
}
