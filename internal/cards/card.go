// Package cards implements the standard 52-card deck representation
// shared by the dealer and the hand evaluator.
package cards

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Card is a 0..51 id, where:
//   - rank = (id % 13) + 2  (2..14, Ace high)
//   - suit = (id / 13)      (0..3)
type Card uint8

func (c Card) Rank() uint8 { return uint8(c%13) + 2 }
func (c Card) Suit() uint8 { return uint8(c / 13) }

func (c Card) String() string {
	r := c.Rank()
	var rch byte
	switch {
	case r == 14:
		rch = 'A'
	case r == 13:
		rch = 'K'
	case r == 12:
		rch = 'Q'
	case r == 11:
		rch = 'J'
	case r == 10:
		rch = 'T'
	default:
		rch = byte('0' + r)
	}
	var sch byte
	switch c.Suit() {
	case 0:
		sch = 'c'
	case 1:
		sch = 'd'
	case 2:
		sch = 'h'
	case 3:
		sch = 's'
	}
	return string([]byte{rch, sch})
}

// NewDeck returns the 52 cards in id order, unshuffled.
func NewDeck() []Card {
	deck := make([]Card, 52)
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}

// Shuffle performs an in-place Fisher-Yates shuffle driven by
// crypto/rand, the only source of entropy a live table should ever
// draw its deck order from.
func Shuffle(deck []Card) error {
	for i := len(deck) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return err
		}
		deck[i], deck[j] = deck[j], deck[i]
	}
	return nil
}

func randIntn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cards: randIntn requires n > 0, got %d", n)
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int(binary.LittleEndian.Uint64(buf[:]) % uint64(n)), nil
}
