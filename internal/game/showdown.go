package game

import "github.com/mentalcardgames/mcg-sub000/internal/cards"

// runShowdown evaluates every remaining hand against the final board
// and splits the pot among the winners. There are no side pots: every
// chip committed during the hand goes into one shared pot regardless
// of stack size, so an all-in short stack can win chips beyond what
// it was able to match. Remainder chips from an uneven split go one
// at a time to winners in seat order starting after the button.
func (t *Table) runShowdown() {
	h := t.Hand
	h.Stage = Showdown

	var board [5]cards.Card
	copy(board[:], h.Board)

	holeBySeat := make(map[int][2]cards.Card)
	for i := 0; i < MaxSeats; i++ {
		if h.InHand[i] && !h.Folded[i] {
			holeBySeat[i] = h.Hole[i]
		}
	}

	winners, err := cards.Winners(board[:], holeBySeat)
	if err != nil || len(winners) == 0 {
		h.Stage = Complete
		return
	}
	h.Winners = winners
	appendActionEvent(h, ActionEvent{Kind: "showdown", Winners: winners})

	pot := PotTotal(h)
	share := pot / uint64(len(winners))
	remainder := pot % uint64(len(winners))

	winnerSet := make(map[int]bool, len(winners))
	for _, w := range winners {
		winnerSet[w] = true
		if s := t.Seats[w]; s != nil {
			s.Stack += share
		}
	}

	if remainder > 0 {
		cur := t.ButtonSeat
		for remainder > 0 {
			cur = (cur + 1) % MaxSeats
			if winnerSet[cur] {
				if s := t.Seats[cur]; s != nil {
					s.Stack++
				}
				remainder--
			}
		}
	}

	h.Stage = Complete
	appendActionEvent(h, ActionEvent{Kind: "pot_awarded", Winners: winners, Amount: pot})
}
