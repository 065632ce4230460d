package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/loomtest"
	"github.com/tradeloom/loom/store"
)

func TestSavepoint(t *testing.T) {
	var (
		ok  = []byte("ok")
		bad = []byte("bad")
	)

	cases := map[string]struct {
		savepoint Savepoint
		check     bool
		handler   *loomtest.Handler
		wantErr   *errors.Error
		// key is written by the handler, want is whether it survives
		key  []byte
		want bool
	}{
		"check savepoint discards writes on failure": {
			savepoint: NewSavepoint().OnCheck(),
			check:     true,
			handler:   &loomtest.Handler{WriteKey: bad, WriteValue: ok, CheckErr: errors.ErrState},
			wantErr:   errors.ErrState,
			key:       bad,
			want:      false,
		},
		"check savepoint keeps writes on success": {
			savepoint: NewSavepoint().OnCheck(),
			check:     true,
			handler:   &loomtest.Handler{WriteKey: ok, WriteValue: ok},
			key:       ok,
			want:      true,
		},
		"deliver savepoint does not guard check": {
			savepoint: NewSavepoint().OnDeliver(),
			check:     true,
			handler:   &loomtest.Handler{WriteKey: bad, WriteValue: ok, CheckErr: errors.ErrState},
			wantErr:   errors.ErrState,
			key:       bad,
			want:      true,
		},
		"deliver savepoint discards writes on failure": {
			savepoint: NewSavepoint().OnDeliver(),
			handler:   &loomtest.Handler{WriteKey: bad, WriteValue: ok, DeliverErr: errors.ErrInsufficientFunds},
			wantErr:   errors.ErrInsufficientFunds,
			key:       bad,
			want:      false,
		},
		"deliver savepoint keeps writes on success": {
			savepoint: NewSavepoint().OnCheck().OnDeliver(),
			handler:   &loomtest.Handler{WriteKey: ok, WriteValue: ok},
			key:       ok,
			want:      true,
		},
		"no savepoint keeps partial writes": {
			savepoint: NewSavepoint(),
			handler:   &loomtest.Handler{WriteKey: bad, WriteValue: ok, DeliverErr: errors.ErrState},
			wantErr:   errors.ErrState,
			key:       bad,
			want:      true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := loomtest.Decorate(tc.handler, tc.savepoint)
			tx := &loomtest.Tx{Msg: &loomtest.Msg{RoutePath: "test/savepoint"}}

			var err error
			if tc.check {
				_, err = h.Check(context.Background(), db, tx)
			} else {
				_, err = h.Deliver(context.Background(), db, tx)
			}
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			} else {
				require.NoError(t, err)
			}

			has, err := db.Has(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.want, has)
		})
	}
}

// plainStore hides the CacheWrap method of the wrapped store.
type plainStore struct {
	loom.KVStore
}

func TestSavepointWithoutCache(t *testing.T) {
	db := plainStore{store.MemStore()}
	handler := &loomtest.Handler{WriteKey: []byte("k"), WriteValue: []byte("v"), DeliverErr: errors.ErrState}
	h := loomtest.Decorate(handler, NewSavepoint().OnDeliver())

	_, err := h.Deliver(context.Background(), db, &loomtest.Tx{})
	assert.True(t, errors.ErrState.Is(err))

	// the store cannot be wrapped so the write goes through
	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}
