package coin

import (
	"sort"

	"github.com/tradeloom/loom/errors"
)

// Coins is a set of coins of distinct currencies. Most operations require
// the normalized form: sorted by ticker with no zero amounts.
type Coins []*Coin

// CombineCoins builds a normalized set out of any list of coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	set := make(Coins, 0, len(cs))
	for _, c := range cs {
		var err error
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, set.Validate()
}

// Clone copies the set and every coin in it.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	cpy := make(Coins, len(cs))
	for i, c := range cs {
		cpy[i] = c.Clone()
	}
	return cpy
}

// index returns the position of the ticker in the set, or the position it
// would be inserted at when absent.
func (cs Coins) index(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Add increases the holdings by c. The set is modified in place, so clone
// it first if the original must be preserved. A currency whose total drops
// to zero is removed.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, found := cs.index(c.Ticker)
	if !found {
		cs = append(cs, nil)
		copy(cs[i+1:], cs[i:])
		cs[i] = &c
		return cs, nil
	}
	sum, err := cs[i].Add(c)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return append(cs[:i], cs[i+1:]...), nil
	}
	cs[i] = &sum
	return cs, nil
}

// Subtract decreases the holdings by c. The result may hold negative
// amounts.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Combine returns a new set holding the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains returns true if the set holds at least the given amount.
func (cs Coins) Contains(c Coin) bool {
	return cs.Get(c.Ticker).covers(c)
}

// Get returns the amount held of the given currency. The result is a zero
// coin of that currency when nothing is held.
func (cs Coins) Get(ticker string) Coin {
	if i, found := cs.index(ticker); found {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

// IsEmpty is true for a set without coins. Normalized sets hold no zero coin.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true if the set is not empty and every coin is
// positive.
func (cs Coins) IsPositive() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return len(cs) > 0
}

// IsNonNegative returns true if no coin is negative. An empty set is non
// negative.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsNonNegative() {
			return false
		}
	}
	return true
}

// Equals compares two normalized sets.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate requires the set to be normalized and every coin in it to be
// valid.
func (cs Coins) Validate() error {
	var err error
	for i, c := range cs {
		if c == nil {
			err = errors.Append(err, errors.Wrap(errors.ErrEmpty, "nil coin"))
			continue
		}
		err = errors.Append(err, errors.Wrap(c.Validate(), "coin"))
		if c.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "zero coins"))
		}
		if i > 0 && cs[i-1] != nil && cs[i-1].Ticker >= c.Ticker {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "not sorted"))
		}
	}
	return err
}

// NormalizeCoins merges coins of the same currency, drops zero amounts and
// sorts the result by ticker. An empty result is nil.
func NormalizeCoins(cs Coins) (Coins, error) {
	var res Coins
	for _, c := range cs {
		if c == nil {
			continue
		}
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, errors.Wrap(err, "cannot sum coins")
		}
	}
	if len(res) == 0 {
		return nil, nil
	}
	return res, nil
}
