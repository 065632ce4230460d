package x

import (
	"context"
	"testing"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/loomtest"
	"github.com/tradeloom/loom/loomtest/assert"
)

func TestMultiAuth(t *testing.T) {
	maker := loomtest.NewCondition()
	taker := loomtest.NewCondition()
	stranger := loomtest.NewCondition()

	fromCtx := &loomtest.CtxAuth{Key: "signers"}
	ctx := fromCtx.SetConditions(context.Background(), taker, maker)

	cases := map[string]struct {
		auth       Authenticator
		wantMain   loom.Condition
		wantAll    []loom.Condition
		wantAbsent loom.Condition
	}{
		"no signers": {
			auth:       ChainAuth(&loomtest.Auth{}),
			wantAbsent: maker,
		},
		"single signer": {
			auth:       ChainAuth(&loomtest.Auth{Signer: maker}),
			wantMain:   maker,
			wantAll:    []loom.Condition{maker},
			wantAbsent: taker,
		},
		"order follows the chain": {
			auth:       ChainAuth(&loomtest.Auth{Signer: taker}, &loomtest.Auth{Signer: maker}),
			wantMain:   taker,
			wantAll:    []loom.Condition{taker, maker},
			wantAbsent: stranger,
		},
		"duplicates are reported once": {
			auth:       ChainAuth(&loomtest.Auth{Signers: []loom.Condition{maker, taker}}, fromCtx),
			wantMain:   maker,
			wantAll:    []loom.Condition{maker, taker},
			wantAbsent: stranger,
		},
		"context authenticator": {
			auth:       ChainAuth(fromCtx),
			wantMain:   taker,
			wantAll:    []loom.Condition{taker, maker},
			wantAbsent: stranger,
		},
		"context authenticator with another key": {
			auth:       ChainAuth(&loomtest.CtxAuth{Key: "other"}),
			wantAbsent: taker,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, MainSigner(ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(ctx))

			addrs := GetAddresses(ctx, tc.auth)
			assert.Equal(t, len(tc.wantAll), len(addrs))
			for i, c := range tc.wantAll {
				assert.Equal(t, c.Address(), addrs[i])
				if !tc.auth.HasAddress(ctx, c.Address()) {
					t.Fatalf("address of condition %d not found", i)
				}
			}
			if tc.auth.HasAddress(ctx, tc.wantAbsent.Address()) {
				t.Fatal("unexpected address found")
			}
		})
	}
}
