package game

import "github.com/mentalcardgames/mcg-sub000/internal/cards"

// ActionEvent is one entry in a hand's action log: who did what, with
// only the fields relevant to that Kind populated. Unlike the
// teacher's string-keyed ABCI event attributes, these are plain typed
// fields, since there's no event-bus encoding boundary to cross here.
type ActionEvent struct {
	Seat   int    `json:"seat"`
	Kind   string `json:"kind"`
	Amount uint64 `json:"amount,omitempty"`
	To     uint64 `json:"to,omitempty"`

	// Cards is populated by a deal_community event with the newly
	// revealed board cards.
	Cards []cards.Card `json:"cards,omitempty"`
	// Stage is populated by a stage_changed event with the stage just
	// entered.
	Stage string `json:"stage,omitempty"`
	// Winners is populated by showdown and pot_awarded events. Seat is
	// left at its zero value for these; check Winners instead.
	Winners []int `json:"winners,omitempty"`
}

const maxRecentActions = 50

// appendActionEvent records ev, dropping the oldest entry once the log
// would exceed maxRecentActions.
func appendActionEvent(h *Hand, ev ActionEvent) {
	h.RecentActions = append(h.RecentActions, ev)
	if len(h.RecentActions) > maxRecentActions {
		h.RecentActions = h.RecentActions[len(h.RecentActions)-maxRecentActions:]
	}
}
