// Package collate produces sort keys that order Ukrainian headwords by the
// Ukrainian alphabet rather than by code point, and names the sort orders a
// lookup may request.
package collate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/lang/normalize"
)

// Order selects how lookup results are sorted.
type Order string

const (
	// OrderFreq sorts by frequency rank, most common first.
	OrderFreq Order = "freq"
	// OrderAlpha sorts by Ukrainian alphabetical order.
	OrderAlpha Order = "alpha"
	// OrderAlphaRev is the exact reverse of OrderAlpha.
	OrderAlphaRev Order = "alpha_rev"
)

// ErrUnknownOrder is returned by ParseOrder for unrecognised names.
var ErrUnknownOrder = errors.New("unknown sort order")

// Orders lists the valid order names.
func Orders() []string {
	return []string{string(OrderAlpha), string(OrderAlphaRev), string(OrderFreq)}
}

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case OrderFreq, OrderAlpha, OrderAlphaRev:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// sortMap assigns every letter a byte whose ASCII order matches the
// alphabet.
var sortMap = map[rune]byte{
	'а': '0', 'б': '1', 'в': '2', 'г': '3', 'ґ': '4', 'д': '5',
	'е': '6', 'є': '7', 'ж': '8', 'з': '9', 'и': ':', 'і': ';',
	'ї': '<', 'й': '?', 'к': '@', 'л': 'A', 'м': 'B', 'н': 'C',
	'о': 'D', 'п': 'E', 'р': 'F', 'с': 'G', 'т': 'H', 'у': 'I',
	'ф': 'K', 'х': 'L', 'ц': 'M', 'ч': 'N', 'ш': 'O', 'щ': 'P',
	'ь': 'Q', 'ю': 'R', 'я': 'S',
}

// unmapped stands in for any character outside sortMap, such as an
// apostrophe or hyphen. It sorts before every letter.
const unmapped byte = 0x00

// Key returns the collation key for a headword: lowercased, stress marks
// removed, each letter mapped through the alphabet table and every other
// character mapped to the unmapped placeholder.
func Key(headword string) string {
	word := normalize.StripStress(strings.ToLower(headword))
	var b strings.Builder
	b.Grow(len(word) / 2)
	for _, r := range word {
		if c, ok := sortMap[r]; ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(unmapped)
	}
	return b.String()
}

// Less compares two headwords by collation key.
func Less(a, b string) bool {
	return Key(a) < Key(b)
}
