package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom/errors"
)

func TestMakeCoins(t *testing.T) {
	cases := map[string]struct {
		inputs  []Coin
		want    Coins
		wantErr bool
	}{
		"empty": {
			inputs: nil,
			want:   Coins{},
		},
		"sorted and merged": {
			inputs: []Coin{NewCoin(1, 0, "FOO"), NewCoin(2, 0, "BAR"), NewCoin(3, 0, "FOO")},
			want:   Coins{NewCoinp(2, 0, "BAR"), NewCoinp(4, 0, "FOO")},
		},
		"zero is dropped": {
			inputs: []Coin{NewCoin(1, 0, "FOO"), NewCoin(-1, 0, "FOO"), NewCoin(0, 0, "BAR")},
			want:   Coins{},
		},
		"invalid ticker": {
			inputs:  []Coin{NewCoin(1, 0, "foo")},
			wantErr: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := CombineCoins(tc.inputs...)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(got), "want %v, got %v", tc.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestCoinsContainsAndGet(t *testing.T) {
	cs, err := CombineCoins(NewCoin(10, 0, "ABC"), NewCoin(0, 5, "XYZ"))
	require.NoError(t, err)

	assert.True(t, cs.Contains(NewCoin(10, 0, "ABC")))
	assert.False(t, cs.Contains(NewCoin(10, 1, "ABC")))
	assert.True(t, cs.Contains(NewCoin(0, 5, "XYZ")))
	assert.False(t, cs.Contains(NewCoin(1, 0, "FOO")))
	assert.True(t, cs.Contains(NewCoin(0, 0, "FOO")))

	assert.Equal(t, NewCoin(10, 0, "ABC"), cs.Get("ABC"))
	assert.Equal(t, Coin{Ticker: "FOO"}, cs.Get("FOO"))
}

func TestCoinsSubtract(t *testing.T) {
	cs, err := CombineCoins(NewCoin(10, 0, "ABC"), NewCoin(3, 0, "XYZ"))
	require.NoError(t, err)

	cs, err = cs.Clone().Subtract(NewCoin(3, 0, "XYZ"))
	require.NoError(t, err)
	assert.Len(t, cs, 1)
	assert.True(t, cs.IsPositive())

	cs, err = cs.Subtract(NewCoin(11, 0, "ABC"))
	require.NoError(t, err)
	assert.False(t, cs.IsNonNegative())

	_, err = cs.Add(NewCoin(MaxInt, 0, "ABC"))
	assert.NoError(t, err)
}

func TestCombine(t *testing.T) {
	a, err := CombineCoins(NewCoin(1, 0, "ABC"), NewCoin(2, 0, "XYZ"))
	require.NoError(t, err)
	b, err := CombineCoins(NewCoin(-1, 0, "ABC"), NewCoin(1, 0, "FOO"))
	require.NoError(t, err)

	got, err := a.Combine(b)
	require.NoError(t, err)
	want := Coins{NewCoinp(1, 0, "FOO"), NewCoinp(2, 0, "XYZ")}
	assert.True(t, want.Equals(got), "got %v", got)

	// Combine does not modify its operands.
	assert.Len(t, a, 2)
	assert.Equal(t, NewCoin(1, 0, "ABC"), a.Get("ABC"))
}

func TestCoinsValidate(t *testing.T) {
	cases := map[string]struct {
		coins   Coins
		wantErr *errors.Error
	}{
		"valid":      {coins: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(1, 0, "XYZ")}},
		"empty":      {coins: nil},
		"not sorted": {coins: Coins{NewCoinp(1, 0, "XYZ"), NewCoinp(1, 0, "ABC")}, wantErr: errors.ErrState},
		"duplicate":  {coins: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(1, 0, "ABC")}, wantErr: errors.ErrState},
		"zero":       {coins: Coins{NewCoinp(0, 0, "ABC")}, wantErr: errors.ErrState},
		"nil coin":   {coins: Coins{nil}, wantErr: errors.ErrEmpty},
		"bad ticker": {coins: Coins{NewCoinp(1, 0, "abc")}, wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.coins.Validate()
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestCoinsNormalize(t *testing.T) {
	cases := map[string]struct {
		coins Coins
		want  Coins
	}{
		"nil":        {coins: nil, want: nil},
		"normalized": {coins: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(1, 0, "XYZ")}, want: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(1, 0, "XYZ")}},
		"unsorted":   {coins: Coins{NewCoinp(1, 0, "XYZ"), NewCoinp(1, 0, "ABC")}, want: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(1, 0, "XYZ")}},
		"merged":     {coins: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(2, 0, "ABC")}, want: Coins{NewCoinp(3, 0, "ABC")}},
		"zero sum":   {coins: Coins{NewCoinp(1, 0, "ABC"), NewCoinp(-1, 0, "ABC")}, want: nil},
		"only zero":  {coins: Coins{NewCoinp(0, 0, "ABC")}, want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := NormalizeCoins(tc.coins)
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(got), "want %v, got %v", tc.want, got)
		})
	}
}
