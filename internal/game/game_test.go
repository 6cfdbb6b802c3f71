package game

import "testing"

func threeHandedTable() *Table {
	t := NewTable(Params{SmallBlind: 1, BigBlind: 2})
	t.Seats[0] = &Seat{Player: "a", Stack: 200}
	t.Seats[1] = &Seat{Player: "b", Stack: 200}
	t.Seats[2] = &Seat{Player: "c", Stack: 200}
	t.ButtonSeat = 0
	return t
}

// With 3+ players, blinds are posted left of the button and the big
// blind keeps the option.
func TestStartHandPostsBlindsThreeHanded(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	h := tb.Hand
	if h.SmallBlindSeat != 1 || h.BigBlindSeat != 2 {
		t.Fatalf("blinds = (%d,%d), want (1,2)", h.SmallBlindSeat, h.BigBlindSeat)
	}
	if tb.Seats[1].Stack != 199 || tb.Seats[2].Stack != 198 {
		t.Fatalf("stacks after blinds = (%d,%d), want (199,198)", tb.Seats[1].Stack, tb.Seats[2].Stack)
	}
	if h.BetTo != 2 {
		t.Fatalf("BetTo = %d, want 2", h.BetTo)
	}
	// UTG (seat 0) acts first preflop, BB (seat 2) acts last.
	if len(h.PendingToAct) != 3 || h.PendingToAct[0] != 0 || h.PendingToAct[len(h.PendingToAct)-1] != 2 {
		t.Fatalf("pending_to_act = %v, want [0 1 2]", h.PendingToAct)
	}
}

// With exactly 2 players, the button itself posts the small blind.
func TestHeadsUpButtonPostsSmallBlind(t *testing.T) {
	tb := NewTable(Params{SmallBlind: 1, BigBlind: 2})
	tb.Seats[0] = &Seat{Player: "a", Stack: 200}
	tb.Seats[1] = &Seat{Player: "b", Stack: 200}
	tb.ButtonSeat = 0
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if tb.Hand.SmallBlindSeat != 0 || tb.Hand.BigBlindSeat != 1 {
		t.Fatalf("heads-up blinds = (%d,%d), want (0,1)", tb.Hand.SmallBlindSeat, tb.Hand.BigBlindSeat)
	}
}

// Everyone calling the big blind, ending with the big blind checking,
// closes the preflop round and deals the flop.
func TestCallThenCheckClosesRound(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if err := tb.ApplyAction(0, Action{Kind: CheckCall}); err != nil {
		t.Fatalf("seat 0 call: %v", err)
	}
	if err := tb.ApplyAction(1, Action{Kind: CheckCall}); err != nil {
		t.Fatalf("seat 1 call: %v", err)
	}
	if err := tb.ApplyAction(2, Action{Kind: CheckCall}); err != nil {
		t.Fatalf("seat 2 check: %v", err)
	}
	if tb.Hand.Stage != Flop {
		t.Fatalf("stage = %v, want Flop", tb.Hand.Stage)
	}
	if len(tb.Hand.Board) != 3 {
		t.Fatalf("board has %d cards, want 3", len(tb.Hand.Board))
	}
	if len(tb.Hand.PendingToAct) != 3 || tb.Hand.PendingToAct[0] != 1 {
		t.Fatalf("postflop pending_to_act = %v, want to start at seat 1 (left of button)", tb.Hand.PendingToAct)
	}
}

// A raise rebuilds the pending-to-act queue so seats who already
// acted must act again.
func TestRaiseReopensRoundForEveryone(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if err := tb.ApplyAction(0, Action{Kind: CheckCall}); err != nil {
		t.Fatalf("seat 0 call: %v", err)
	}
	if err := tb.ApplyAction(1, Action{Kind: BetRaise, Amount: 6}); err != nil {
		t.Fatalf("seat 1 raise: %v", err)
	}
	if len(tb.Hand.PendingToAct) == 0 || tb.Hand.PendingToAct[0] != 2 {
		t.Fatalf("pending_to_act after raise = %v, want seat 2 first", tb.Hand.PendingToAct)
	}
	found0 := false
	for _, s := range tb.Hand.PendingToAct {
		if s == 0 {
			found0 = true
		}
	}
	if !found0 {
		t.Fatalf("seat 0 (already called) must be re-added to pending_to_act after the raise, got %v", tb.Hand.PendingToAct)
	}
}

func TestRejectsOutOfTurnAction(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if err := tb.ApplyAction(1, Action{Kind: CheckCall}); err == nil {
		t.Fatalf("expected error acting out of turn")
	}
}

// A raise that doesn't clear the current bet by at least the minimum
// raise degrades to a plain call instead of being rejected: seat 0
// asking for 3 (min raise would require at least 4) ends up only
// matching the big blind of 2.
func TestRaiseBelowMinimumDegradesToCall(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if err := tb.ApplyAction(0, Action{Kind: BetRaise, Amount: 3}); err != nil {
		t.Fatalf("degrade to call should not error: %v", err)
	}
	if tb.Hand.StreetCommit[0] != 2 {
		t.Fatalf("seat 0 street commit = %d, want 2 (matched the big blind, not raised to 3)", tb.Hand.StreetCommit[0])
	}
	if tb.Hand.BetTo != 2 {
		t.Fatalf("BetTo = %d, want unchanged at 2 (no raise took effect)", tb.Hand.BetTo)
	}
	if len(tb.Hand.PendingToAct) != 2 || tb.Hand.PendingToAct[0] != 1 {
		t.Fatalf("pending_to_act = %v, want [1 2] (seat 0 just advances, round not reopened)", tb.Hand.PendingToAct)
	}
}

// An opening bet below the big blind is normalized up to it rather
// than rejected.
func TestOpeningBetBelowBigBlindClampsUp(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	for _, seat := range []int{0, 1, 2} {
		if err := tb.ApplyAction(seat, Action{Kind: CheckCall}); err != nil {
			t.Fatalf("seat %d call: %v", seat, err)
		}
	}
	if tb.Hand.Stage != Flop {
		t.Fatalf("stage = %v, want Flop", tb.Hand.Stage)
	}
	first := tb.Hand.PendingToAct[0]
	if err := tb.ApplyAction(first, Action{Kind: BetRaise, Amount: 1}); err != nil {
		t.Fatalf("clamped-up open bet should not error: %v", err)
	}
	if tb.Hand.BetTo != tb.Params.BigBlind {
		t.Fatalf("BetTo = %d, want %d (clamped up to the big blind)", tb.Hand.BetTo, tb.Params.BigBlind)
	}
}

func TestFoldToOnePlayerAwardsPotUncontested(t *testing.T) {
	tb := threeHandedTable()
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	if err := tb.ApplyAction(0, Action{Kind: Fold}); err != nil {
		t.Fatalf("seat 0 fold: %v", err)
	}
	if err := tb.ApplyAction(1, Action{Kind: Fold}); err != nil {
		t.Fatalf("seat 1 fold: %v", err)
	}
	if tb.Hand.Stage != Complete {
		t.Fatalf("stage = %v, want Complete", tb.Hand.Stage)
	}
	if len(tb.Hand.Winners) != 1 || tb.Hand.Winners[0] != 2 {
		t.Fatalf("winners = %v, want [2]", tb.Hand.Winners)
	}
	if tb.Seats[2].Stack != 201 {
		t.Fatalf("winner stack = %d, want 201 (198 remaining + pot of 3)", tb.Seats[2].Stack)
	}
}

func TestAllInRunsOutBoardWithoutFurtherBetting(t *testing.T) {
	// Heads-up: once both seats are all-in, nobody is left to bet
	// against, so every remaining street must deal without a round.
	tb := NewTable(Params{SmallBlind: 1, BigBlind: 2})
	tb.Seats[0] = &Seat{Player: "a", Stack: 10}
	tb.Seats[1] = &Seat{Player: "b", Stack: 10}
	tb.ButtonSeat = 0
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	// Seat 0 (button/SB, stack 9 after posting) shoves the rest.
	if err := tb.ApplyAction(0, Action{Kind: BetRaise, Amount: 10}); err != nil {
		t.Fatalf("seat 0 all-in: %v", err)
	}
	if err := tb.ApplyAction(1, Action{Kind: CheckCall}); err != nil {
		t.Fatalf("seat 1 call: %v", err)
	}
	if tb.Hand.Stage != Complete && tb.Hand.Stage != Showdown {
		t.Fatalf("stage = %v, want the hand to run straight to showdown", tb.Hand.Stage)
	}
	if len(tb.Hand.Board) != 5 {
		t.Fatalf("board has %d cards, want all 5 dealt", len(tb.Hand.Board))
	}
}
