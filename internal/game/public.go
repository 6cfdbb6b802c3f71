package game

import "github.com/mentalcardgames/mcg-sub000/internal/cards"

// PublicSeat is one seat's externally visible state.
type PublicSeat struct {
	Player   string       `json:"player"`
	Stack    uint64       `json:"stack"`
	Hole     [2]cards.Card `json:"hole"`
	HasHole  bool          `json:"has_hole"`
	Folded   bool          `json:"folded"`
	AllIn    bool          `json:"all_in"`
	Committed uint64       `json:"committed"`
}

// PublicState is a point-in-time snapshot of a table, suitable for
// broadcasting to every connected viewer.
//
// Every occupied seat's hole cards are included verbatim, visible to
// every viewer regardless of whether they're seated in the hand: this
// table never did per-viewer redaction, and that stays true here too.
// A client that wants privacy has to build it client-side.
type PublicState struct {
	Stage      string        `json:"stage"`
	Board      []cards.Card  `json:"board"`
	Pot        uint64        `json:"pot"`
	BetTo      uint64        `json:"bet_to"`
	SmallBlind uint64        `json:"sb"`
	BigBlind   uint64        `json:"bb"`
	ButtonSeat int           `json:"button_seat"`
	ToAct      int           `json:"to_act"`
	Seats      [MaxSeats]*PublicSeat `json:"seats"`
	Winners    []int         `json:"winners,omitempty"`
	ActionLog  []ActionEvent `json:"action_log,omitempty"`
}

// Snapshot renders the table's current state for broadcast.
func (t *Table) Snapshot() PublicState {
	ps := PublicState{ButtonSeat: t.ButtonSeat, ToAct: -1, SmallBlind: t.Params.SmallBlind, BigBlind: t.Params.BigBlind}
	h := t.Hand
	if h != nil {
		ps.Stage = h.Stage.String()
		ps.Board = append([]cards.Card(nil), h.Board...)
		ps.Pot = PotTotal(h)
		ps.BetTo = h.BetTo
		ps.Winners = h.Winners
		ps.ActionLog = h.RecentActions
		if len(h.PendingToAct) > 0 {
			ps.ToAct = h.PendingToAct[0]
		}
	} else {
		ps.Stage = "waiting"
	}

	for i := 0; i < MaxSeats; i++ {
		s := t.Seats[i]
		if s == nil {
			continue
		}
		pub := &PublicSeat{Player: s.Player, Stack: s.Stack}
		if h != nil && h.InHand[i] {
			pub.Hole = h.Hole[i]
			pub.HasHole = true
			pub.Folded = h.Folded[i]
			pub.AllIn = h.AllIn[i]
			pub.Committed = h.TotalCommit[i]
		}
		ps.Seats[i] = pub
	}
	return ps
}
