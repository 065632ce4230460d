package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tradeloom/loom/errors"
)

// IsCC reports whether the ticker is a valid currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxInt is the largest whole value a coin can carry, 10^15-1.
	MaxInt int64 = 999999999999999
	// MinInt is the smallest whole value a coin can carry.
	MinInt = -MaxInt

	// FracUnit is the number of fractional units in one whole unit.
	FracUnit int64 = 1000000000
	// MaxFrac is the largest fractional value.
	MaxFrac = FracUnit - 1
	// MinFrac is the smallest fractional value.
	MinFrac = -MaxFrac

	fracDigits = 9
)

// Coin is an amount of a single currency. The value is Whole plus
// Fractional/FracUnit, both parts always carry the same sign.
type Coin struct {
	Whole      int64
	Fractional int64
	Ticker     string
}

// NewCoin returns whole.fractional units of ticker.
func NewCoin(whole int64, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// NewCoinp is NewCoin returning a pointer.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// Add returns the sum of both coins. Only coins of the same currency can be
// added, with the exception of a zero coin without a ticker, which is a
// neutral element.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "cannot add %s to %s", o.Ticker, c.Ticker)
	}
	sum := Coin{
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
		Ticker:     c.Ticker,
	}
	return sum.normalize()
}

// Negative returns the same amount with the opposite sign.
func (c Coin) Negative() Coin {
	return Coin{Whole: -c.Whole, Fractional: -c.Fractional, Ticker: c.Ticker}
}

// Subtract returns c reduced by the given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Compare orders two normalized coins by value, ignoring the currency.
// The result is 1 when c is larger, -1 when o is larger and 0 otherwise.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Whole != o.Whole:
		return sign(c.Whole - o.Whole)
	default:
		return sign(c.Fractional - o.Fractional)
	}
}

func sign(n int64) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// Equals compares amount and ticker.
func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsEmpty is true for a nil coin or a zero amount.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero ignores the ticker.
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive is true for amounts above zero.
func (c Coin) IsPositive() bool {
	return c.Compare(Coin{}) > 0
}

// IsNonNegative is true for zero and above.
func (c Coin) IsNonNegative() bool {
	return c.Compare(Coin{}) >= 0
}

// covers returns true if c is of the same currency and not less than o.
func (c Coin) covers(o Coin) bool {
	return c.Ticker == o.Ticker && c.Compare(o) >= 0
}

// Clone returns a copy of c, or nil.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the currency code and the value range. Negative values
// are accepted.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "whole"))
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if (c.Whole > 0 && c.Fractional < 0) || (c.Whole < 0 && c.Fractional > 0) {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// ValidatePositive is Validate extended with a check that the amount is
// greater than zero. Use it for amounts carried by messages.
func (c *Coin) ValidatePositive() error {
	if c == nil {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", c)
	}
	return nil
}

// normalize moves any fractional overflow into the whole part and aligns
// the signs of both parts.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit

	if c.Whole > 0 && c.Fractional < 0 {
		c.Whole--
		c.Fractional += FracUnit
	}
	if c.Whole < 0 && c.Fractional > 0 {
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.ErrOverflow
	}
	return c, nil
}

// UnmarshalJSON accepts both the human readable string format and the
// structured {"whole", "fractional", "ticker"} object.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if json.Unmarshal(raw, &human) == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(p)
	return nil
}

// String returns the coin in the "<whole>[.<fractional>] <ticker>" format
// that ParseHumanFormat accepts.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}

	whole, frac := c.Whole, c.Fractional
	var prefix string
	if whole < 0 || frac < 0 {
		prefix = "-"
		whole, frac = -whole, -frac
	}

	s := prefix + strconv.FormatInt(whole, 10)
	if frac != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", frac), "0")
	}
	if c.Ticker != "" {
		s += " " + c.Ticker
	}
	return s
}

var humanFormat = regexp.MustCompile(`^(-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses a coin written as "<whole>[.<fractional>] <ticker>".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(strings.TrimSpace(h))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	negative, digits, decimals, ticker := m[1] == "-", m[2], m[3], m[4]

	whole, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid whole value: %s", err)
	}
	var frac int64
	if decimals != "" {
		decimals += strings.Repeat("0", fracDigits-len(decimals))
		if frac, err = strconv.ParseInt(decimals, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "invalid fractional value: %s", err)
		}
	}
	if negative {
		whole, frac = -whole, -frac
	}

	c := NewCoin(whole, frac, ticker)
	return c, c.Validate()
}
