package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck.
const Size = 52

// Deck represents a standard 52-card deck
type Deck struct {
	cards [Size]Card
	next  int
	rng   *rand.Rand
}

// New creates a new shuffled deck drawing randomness from rng.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Stacked returns a deck that deals top in order before the remaining cards,
// which keep their standard order. Used for scripted hands.
func Stacked(top []Card) *Deck {
	d := &Deck{}
	seen := make(map[Card]bool, len(top))
	i := 0
	for _, c := range top {
		d.cards[i] = c
		seen[c] = true
		i++
	}
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			c := NewCard(rank, suit)
			if seen[c] {
				continue
			}
			d.cards[i] = c
			i++
		}
	}
	return d
}

// Shuffle resets the deck and shuffles it using Fisher-Yates. A deck without
// a random source (see Stacked) is only rewound.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. It returns nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// Burn discards the top card.
func (d *Deck) Burn() {
	if d.next < len(d.cards) {
		d.next++
	}
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
