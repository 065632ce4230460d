package cash

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/loomtest"
	"github.com/tradeloom/loom/store"
)

func TestGenesisKey(t *testing.T) {
	addr := loomtest.RandomAddr(t)
	addr2 := loomtest.RandomAddr(t)

	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		check   map[string]coin.Coins
	}{
		"no cash section": {
			genesis: `{}`,
		},
		"two accounts": {
			genesis: fmt.Sprintf(`{"cash": [
				{"address": %q, "coins": ["12.5 FOO", "3 BAR"]},
				{"address": %q, "coins": [{"whole": 1, "ticker": "ABC"}]}
			]}`, addr, addr2),
			check: map[string]coin.Coins{
				string(addr):  {coin.NewCoinp(3, 0, "BAR"), coin.NewCoinp(12, 500000000, "FOO")},
				string(addr2): {coin.NewCoinp(1, 0, "ABC")},
			},
		},
		"duplicated account": {
			genesis: fmt.Sprintf(`{"cash": [
				{"address": %q, "coins": ["1 FOO"]},
				{"address": %q, "coins": ["1 FOO"]}
			]}`, addr, addr),
			wantErr: errors.ErrDuplicate,
		},
		"invalid coin": {
			genesis: fmt.Sprintf(`{"cash": [{"address": %q, "coins": ["1 F"]}]}`, addr),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts loom.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			kv := store.MemStore()
			err := Initializer{}.FromGenesis(opts, kv)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			for a, want := range tc.check {
				assert.True(t, balance(t, kv, loom.Address(a)).Equals(want), "address %X", a)
			}
		})
	}
}
