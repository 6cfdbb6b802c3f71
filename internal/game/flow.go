package game

// advanceStage moves the hand to its next stage once a betting round
// has closed: it deals the next street's community cards, resets the
// per-street commitments, and rebuilds the pending-to-act queue from
// the button. If fewer than two seats can still voluntarily act (the
// rest are all-in or folded), it runs the board out with no further
// betting and goes straight to showdown.
func (t *Table) advanceStage() {
	h := t.Hand
	if h == nil {
		return
	}

	switch h.Stage {
	case Preflop:
		before := len(h.Board)
		dealCommunity(h, 3)
		h.Stage = Flop
		appendActionEvent(h, ActionEvent{Kind: "deal_community", Cards: h.Board[before:]})
	case Flop:
		before := len(h.Board)
		dealCommunity(h, 1)
		h.Stage = Turn
		appendActionEvent(h, ActionEvent{Kind: "deal_community", Cards: h.Board[before:]})
	case Turn:
		before := len(h.Board)
		dealCommunity(h, 1)
		h.Stage = River
		appendActionEvent(h, ActionEvent{Kind: "deal_community", Cards: h.Board[before:]})
	case River:
		t.runShowdown()
		return
	default:
		return
	}
	appendActionEvent(h, ActionEvent{Kind: "stage_changed", Stage: h.Stage.String()})

	for i := range h.StreetCommit {
		h.StreetCommit[i] = 0
	}
	h.BetTo = 0
	h.MinRaiseSize = t.Params.BigBlind

	if countEligibleToAct(h) < 2 {
		// Everyone left is all-in or there's nobody left to bet
		// against; run the board out uninterrupted.
		h.PendingToAct = nil
		t.advanceStage()
		return
	}
	h.PendingToAct = buildPendingToAct(h, t.ButtonSeat)
}

func countEligibleToAct(h *Hand) int {
	n := 0
	for i := 0; i < MaxSeats; i++ {
		if eligibleToAct(h, i) {
			n++
		}
	}
	return n
}

// awardUncontested ends the hand immediately when every seat but one
// has folded: the remaining seat takes the whole pot without a
// showdown.
func (t *Table) awardUncontested() {
	h := t.Hand
	winner := -1
	for i := 0; i < MaxSeats; i++ {
		if h.InHand[i] && !h.Folded[i] {
			winner = i
			break
		}
	}
	if winner == -1 {
		h.Stage = Complete
		return
	}
	pot := PotTotal(h)
	if s := t.Seats[winner]; s != nil {
		s.Stack += pot
	}
	h.Winners = []int{winner}
	h.Stage = Complete
	appendActionEvent(h, ActionEvent{Kind: "pot_awarded", Winners: h.Winners, Amount: pot})
}

// PotTotal sums every seat's total commitment across the whole hand.
func PotTotal(h *Hand) uint64 {
	var total uint64
	for _, c := range h.TotalCommit {
		total += c
	}
	return total
}
