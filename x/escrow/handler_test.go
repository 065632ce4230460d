package escrow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/gconf"
	"github.com/tradeloom/loom/loomtest"
	"github.com/tradeloom/loom/store"
	"github.com/tradeloom/loom/x/cash"
)

type fixture struct {
	db     loom.CacheableKVStore
	bank   cash.BaseController
	auth   *loomtest.CtxAuth
	maker  loom.Condition
	taker  loom.Condition
	router routes
}

type routes map[string]loom.Handler

func (r routes) Handle(path string, h loom.Handler) {
	r[path] = h
}

func newFixture(t *testing.T, conf Configuration) *fixture {
	t.Helper()
	return newFixtureOn(t, store.MemStore(), conf)
}

func newFixtureOn(t *testing.T, db loom.CacheableKVStore, conf Configuration) *fixture {
	t.Helper()
	f := &fixture{
		db:     db,
		bank:   cash.NewController(cash.NewBucket()),
		auth:   &loomtest.CtxAuth{Key: "escrow"},
		maker:  loomtest.NewCondition(),
		taker:  loomtest.NewCondition(),
		router: make(routes),
	}
	conf.Metadata = &loom.Metadata{Schema: 1}
	require.NoError(t, gconf.Save(f.db, confKey, &conf))
	RegisterRoutes(f.router, f.auth, f.bank)
	return f
}

func (f *fixture) mint(t *testing.T, addr loom.Address, amounts ...coin.Coin) {
	t.Helper()
	for _, a := range amounts {
		require.NoError(t, f.bank.CoinMint(f.db, addr, a))
	}
}

func (f *fixture) balance(t *testing.T, addr loom.Address, ticker string) coin.Coin {
	t.Helper()
	coins, err := f.bank.Balance(f.db, addr)
	if errors.ErrNotFound.Is(err) {
		return coin.Coin{Ticker: ticker}
	}
	require.NoError(t, err)
	return coins.Get(ticker)
}

// exec runs the message through Check and Deliver signed by the signer.
// Deliver is only called when Check passes.
func (f *fixture) exec(t *testing.T, signer loom.Condition, msg loom.Msg) (*loom.DeliverResult, error) {
	t.Helper()
	h, ok := f.router[msg.Path()]
	require.True(t, ok, "no handler for %s", msg.Path())

	ctx := context.Background()
	if signer != nil {
		ctx = f.auth.SetConditions(ctx, signer)
	}

	tx := &loomtest.Tx{Msg: msg}
	cache := f.db.CacheWrap()
	_, err := h.Check(ctx, cache, tx)
	cache.Discard()
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, f.db, tx)
}

func (f *fixture) record(t *testing.T, seed uint64) (loom.Address, *Escrow) {
	t.Helper()
	rd, err := FindRecord(f.maker.Address(), seed)
	require.NoError(t, err)
	addr, err := rd.Address()
	require.NoError(t, err)
	var esc Escrow
	err = NewBucket().One(f.db, addr, &esc)
	if errors.ErrNotFound.Is(err) {
		return addr, nil
	}
	require.NoError(t, err)
	return addr, &esc
}

func makeMsg(seed uint64, receive, deposit coin.Coin) *MakeMsg {
	return &MakeMsg{
		Metadata:      &loom.Metadata{Schema: 1},
		Seed:          seed,
		ReceiveAmount: &receive,
		Deposit:       &deposit,
	}
}

func takeMsg(maker loom.Condition, seed uint64) *TakeMsg {
	return &TakeMsg{Metadata: &loom.Metadata{Schema: 1}, Maker: maker.Address(), Seed: seed}
}

func refundMsg(maker loom.Condition, seed uint64) *RefundMsg {
	return &RefundMsg{Metadata: &loom.Metadata{Schema: 1}, Maker: maker.Address(), Seed: seed}
}

var (
	hundredA = coin.NewCoin(100, 0, "AAA")
	fiftyB   = coin.NewCoin(50, 0, "BBB")
)

func TestMakeThenTake(t *testing.T) {
	cases := map[string]struct {
		conf Configuration
		// rent the maker does not get back after a take
		makerRentA coin.Coin
		makerRNT   coin.Coin
	}{
		"rent in another currency": {
			conf: Configuration{
				RecordRent: coin.NewCoin(1, 0, "RNT"),
				VaultRent:  coin.NewCoin(2, 0, "RNT"),
			},
			makerRentA: coin.NewCoin(0, 0, "AAA"),
			makerRNT:   coin.NewCoin(8, 0, "RNT"),
		},
		"vault rent in the deposit currency": {
			conf: Configuration{
				RecordRent: coin.NewCoin(0, 0, "RNT"),
				VaultRent:  coin.NewCoin(0, 250000000, "AAA"),
			},
			makerRentA: coin.NewCoin(0, 250000000, "AAA"),
			makerRNT:   coin.NewCoin(10, 0, "RNT"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.conf)
			f.mint(t, f.maker.Address(), coin.NewCoin(150, 0, "AAA"), coin.NewCoin(10, 0, "RNT"))
			f.mint(t, f.taker.Address(), coin.NewCoin(80, 0, "BBB"))

			res, err := f.exec(t, f.maker, makeMsg(1, fiftyB, hundredA))
			require.NoError(t, err)

			addr, esc := f.record(t, 1)
			require.NotNil(t, esc)
			assert.Equal(t, []byte(addr), res.Data)
			assert.Equal(t, "AAA", esc.MintA)
			assert.Equal(t, "BBB", esc.MintB)
			assert.True(t, esc.ReceiveAmount.Equals(fiftyB))
			assert.True(t, esc.RecordDerivation().IsCanonical())

			vd, err := FindVault(addr, "AAA")
			require.NoError(t, err)
			vault, err := vd.Address()
			require.NoError(t, err)
			assert.Equal(t, vd.Bump, esc.VaultBump)
			wantVault, err := hundredA.Add(esc.rentIn("AAA"))
			require.NoError(t, err)
			assert.True(t, f.balance(t, vault, "AAA").Equals(wantVault))

			_, err = f.exec(t, f.taker, takeMsg(f.maker, 1))
			require.NoError(t, err)

			wantMakerA, err := coin.NewCoin(50, 0, "AAA").Subtract(tc.makerRentA)
			require.NoError(t, err)
			assert.True(t, f.balance(t, f.maker.Address(), "AAA").Equals(wantMakerA))
			assert.True(t, f.balance(t, f.maker.Address(), "BBB").Equals(fiftyB))
			assert.True(t, f.balance(t, f.maker.Address(), "RNT").Equals(tc.makerRNT))
			wantTakerA, err := hundredA.Add(tc.makerRentA)
			require.NoError(t, err)
			assert.True(t, f.balance(t, f.taker.Address(), "AAA").Equals(wantTakerA))
			assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(coin.NewCoin(30, 0, "BBB")))

			// the record and the vault are gone
			_, esc = f.record(t, 1)
			assert.Nil(t, esc)
			_, err = f.bank.Balance(f.db, vault)
			assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
			_, err = f.bank.Balance(f.db, addr)
			assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)

			// consumed escrow cannot be taken or refunded
			_, err = f.exec(t, f.taker, takeMsg(f.maker, 1))
			assert.True(t, ErrRecordNotFound.Is(err), "%+v", err)
			_, err = f.exec(t, f.maker, refundMsg(f.maker, 1))
			assert.True(t, ErrRecordNotFound.Is(err), "%+v", err)
		})
	}
}

func TestMakeThenRefund(t *testing.T) {
	f := newFixture(t, Configuration{
		RecordRent: coin.NewCoin(1, 0, "RNT"),
		VaultRent:  coin.NewCoin(2, 0, "RNT"),
	})
	f.mint(t, f.maker.Address(), coin.NewCoin(100, 0, "AAA"), coin.NewCoin(3, 0, "RNT"))
	f.mint(t, f.taker.Address(), coin.NewCoin(50, 0, "BBB"))

	_, err := f.exec(t, f.maker, makeMsg(2, fiftyB, hundredA))
	require.NoError(t, err)
	assert.True(t, f.balance(t, f.maker.Address(), "AAA").IsZero())
	assert.True(t, f.balance(t, f.maker.Address(), "RNT").IsZero())

	res, err := f.exec(t, f.maker, refundMsg(f.maker, 2))
	require.NoError(t, err)
	addr, esc := f.record(t, 2)
	assert.Nil(t, esc)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(addr.String()), res.Tags[0].Value)

	assert.True(t, f.balance(t, f.maker.Address(), "AAA").Equals(hundredA))
	assert.True(t, f.balance(t, f.maker.Address(), "RNT").Equals(coin.NewCoin(3, 0, "RNT")))
	assert.True(t, f.balance(t, f.maker.Address(), "BBB").IsZero())
	assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(fiftyB))

	_, err = f.exec(t, f.taker, takeMsg(f.maker, 2))
	assert.True(t, ErrRecordNotFound.Is(err), "%+v", err)
	assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(fiftyB))

	// the same seed can be used again
	f.mint(t, f.maker.Address(), coin.NewCoin(3, 0, "RNT"))
	_, err = f.exec(t, f.maker, makeMsg(2, fiftyB, hundredA))
	require.NoError(t, err)
}

func TestRefundByOtherThanMaker(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.maker.Address(), hundredA)

	_, err := f.exec(t, f.maker, makeMsg(3, fiftyB, hundredA))
	require.NoError(t, err)

	_, err = f.exec(t, f.taker, refundMsg(f.maker, 3))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = f.exec(t, nil, refundMsg(f.maker, 3))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	_, esc := f.record(t, 3)
	assert.NotNil(t, esc)
	assert.True(t, f.balance(t, f.maker.Address(), "AAA").IsZero())
	assert.True(t, f.balance(t, f.taker.Address(), "AAA").IsZero())
}

func TestDuplicateEscrow(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.maker.Address(), coin.NewCoin(300, 0, "AAA"))

	_, err := f.exec(t, f.maker, makeMsg(4, fiftyB, hundredA))
	require.NoError(t, err)
	_, err = f.exec(t, f.maker, makeMsg(4, coin.NewCoin(1, 0, "CCC"), coin.NewCoin(7, 0, "AAA")))
	assert.True(t, ErrDuplicateEscrow.Is(err), "%+v", err)

	_, esc := f.record(t, 4)
	require.NotNil(t, esc)
	assert.True(t, esc.ReceiveAmount.Equals(fiftyB))
	assert.True(t, esc.Deposit.Equals(hundredA))
	assert.True(t, f.balance(t, f.maker.Address(), "AAA").Equals(coin.NewCoin(200, 0, "AAA")))

	// another seed is another escrow
	_, err = f.exec(t, f.maker, makeMsg(5, fiftyB, hundredA))
	require.NoError(t, err)

	// a funded vault blocks the escrow that would own it
	addr, _ := f.record(t, 6)
	vd, err := FindVault(addr, "AAA")
	require.NoError(t, err)
	vault, err := vd.Address()
	require.NoError(t, err)
	f.mint(t, vault, coin.NewCoin(1, 0, "ZZZ"))
	f.mint(t, f.maker.Address(), hundredA)
	_, err = f.exec(t, f.maker, makeMsg(6, fiftyB, hundredA))
	assert.True(t, ErrDuplicateEscrow.Is(err), "%+v", err)
	_, esc = f.record(t, 6)
	assert.Nil(t, esc)
}

func TestInsufficientFunds(t *testing.T) {
	f := newFixture(t, Configuration{
		RecordRent: coin.NewCoin(1, 0, "RNT"),
	})
	f.mint(t, f.maker.Address(), hundredA)

	// the maker cannot pay the rent
	_, err := f.exec(t, f.maker, makeMsg(7, fiftyB, hundredA))
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "%+v", err)
	_, esc := f.record(t, 7)
	assert.Nil(t, esc)
	assert.True(t, f.balance(t, f.maker.Address(), "AAA").Equals(hundredA))

	// the maker cannot pay the deposit
	f.mint(t, f.maker.Address(), coin.NewCoin(1, 0, "RNT"))
	_, err = f.exec(t, f.maker, makeMsg(7, fiftyB, coin.NewCoin(101, 0, "AAA")))
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "%+v", err)
	_, esc = f.record(t, 7)
	assert.Nil(t, esc)

	_, err = f.exec(t, f.maker, makeMsg(7, fiftyB, hundredA))
	require.NoError(t, err)

	// the taker cannot pay the maker, so nothing is released
	f.mint(t, f.taker.Address(), coin.NewCoin(49, 0, "BBB"))
	_, err = f.exec(t, f.taker, takeMsg(f.maker, 7))
	assert.True(t, errors.ErrInsufficientFunds.Is(err), "%+v", err)
	_, esc = f.record(t, 7)
	assert.NotNil(t, esc)
	assert.True(t, f.balance(t, f.taker.Address(), "AAA").IsZero())
	assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(coin.NewCoin(49, 0, "BBB")))
	assert.True(t, f.balance(t, f.maker.Address(), "BBB").IsZero())
}

func TestTakeMissingEscrow(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.taker.Address(), fiftyB)

	_, err := f.exec(t, f.taker, takeMsg(f.maker, 8))
	assert.True(t, ErrRecordNotFound.Is(err), "%+v", err)
	assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(fiftyB))
}

func TestTamperedBump(t *testing.T) {
	cases := map[string]func(*Escrow){
		"record bump": func(e *Escrow) { e.Bump-- },
		"vault bump":  func(e *Escrow) { e.VaultBump-- },
		"seed":        func(e *Escrow) { e.Seed++ },
	}
	for testName, tamper := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, Configuration{})
			f.mint(t, f.maker.Address(), hundredA)
			f.mint(t, f.taker.Address(), fiftyB)

			_, err := f.exec(t, f.maker, makeMsg(9, fiftyB, hundredA))
			require.NoError(t, err)

			addr, esc := f.record(t, 9)
			require.NotNil(t, esc)
			tamper(esc)
			require.NoError(t, NewBucket().Put(f.db, addr, esc))

			_, err = f.exec(t, f.taker, takeMsg(f.maker, 9))
			assert.True(t, errors.ErrDerivationMismatch.Is(err), "%+v", err)
			_, err = f.exec(t, f.maker, refundMsg(f.maker, 9))
			assert.True(t, errors.ErrDerivationMismatch.Is(err), "%+v", err)

			assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(fiftyB))
			assert.True(t, f.balance(t, f.maker.Address(), "AAA").IsZero())
		})
	}
}

func TestMakeAuthorization(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.maker.Address(), hundredA)

	_, err := f.exec(t, nil, makeMsg(10, fiftyB, hundredA))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	msg := makeMsg(10, fiftyB, hundredA)
	msg.Maker = f.maker.Address()
	_, err = f.exec(t, f.taker, msg)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	_, err = f.exec(t, f.maker, msg)
	require.NoError(t, err)
}

func TestMakerIndexQuery(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.maker.Address(), coin.NewCoin(200, 0, "AAA"))

	_, err := f.exec(t, f.maker, makeMsg(11, fiftyB, hundredA))
	require.NoError(t, err)
	_, err = f.exec(t, f.maker, makeMsg(12, fiftyB, hundredA))
	require.NoError(t, err)

	qr := loom.NewQueryRouter()
	RegisterQuery(qr)

	h := qr.Handler("/escrows/maker")
	require.NotNil(t, h)
	res, err := h.Query(f.db, loom.KeyQueryMod, f.maker.Address())
	require.NoError(t, err)
	assert.Len(t, res, 2)

	var escrows []*Escrow
	keys, err := NewBucket().ByIndex(f.db, "maker", f.maker.Address(), &escrows)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	seeds := map[uint64]bool{}
	for _, e := range escrows {
		seeds[e.Seed] = true
	}
	assert.Equal(t, map[uint64]bool{11: true, 12: true}, seeds)

	addr, _ := f.record(t, 11)
	res, err = qr.Handler("/escrows").Query(f.db, loom.KeyQueryMod, addr)
	require.NoError(t, err)
	require.Len(t, res, 1)
}

func TestEscrowOnCommittedStore(t *testing.T) {
	commit, cleanup := loomtest.CommitKVStore(t)
	defer cleanup()

	f := newFixtureOn(t, commit.Adapter(), Configuration{})
	f.mint(t, f.maker.Address(), hundredA)
	f.mint(t, f.taker.Address(), fiftyB)

	_, err := f.exec(t, f.maker, makeMsg(3, fiftyB, hundredA))
	require.NoError(t, err)

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	require.NoError(t, commit.LoadLatestVersion())

	_, esc := f.record(t, 3)
	require.NotNil(t, esc)

	_, err = f.exec(t, f.taker, takeMsg(f.maker, 3))
	require.NoError(t, err)
	_, err = commit.Commit()
	require.NoError(t, err)

	_, esc = f.record(t, 3)
	assert.Nil(t, esc)
	assert.Equal(t, hundredA, f.balance(t, f.taker.Address(), "AAA"))
	assert.Equal(t, fiftyB, f.balance(t, f.maker.Address(), "BBB"))
}

func TestCoinsSentToEscrowAddresses(t *testing.T) {
	oneA := coin.NewCoin(1, 0, "AAA")
	threeZ := coin.NewCoin(3, 0, "ZZZ")

	cases := map[string]struct {
		close       func(f *fixture) (loom.Condition, loom.Msg)
		// receives the asset A of the vault
		beneficiary func(f *fixture) loom.Address
		// the record wallet and, on refund, the rest of the vault
		wantMakerZ  coin.Coin
	}{
		"take": {
			close:       func(f *fixture) (loom.Condition, loom.Msg) { return f.taker, takeMsg(f.maker, 13) },
			beneficiary: func(f *fixture) loom.Address { return f.taker.Address() },
			wantMakerZ:  threeZ,
		},
		"refund": {
			close:       func(f *fixture) (loom.Condition, loom.Msg) { return f.maker, refundMsg(f.maker, 13) },
			beneficiary: func(f *fixture) loom.Address { return f.maker.Address() },
			wantMakerZ:  coin.NewCoin(5, 0, "ZZZ"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, Configuration{})
			stranger := loomtest.RandomAddr(t)
			f.mint(t, f.maker.Address(), hundredA)
			f.mint(t, f.taker.Address(), fiftyB)
			f.mint(t, stranger, oneA, coin.NewCoin(2, 0, "ZZZ"), threeZ)

			_, err := f.exec(t, f.maker, makeMsg(13, fiftyB, hundredA))
			require.NoError(t, err)

			addr, _ := f.record(t, 13)
			vd, err := FindVault(addr, "AAA")
			require.NoError(t, err)
			vault, err := vd.Address()
			require.NoError(t, err)

			require.NoError(t, f.bank.MoveCoins(f.db, stranger, vault, oneA))
			require.NoError(t, f.bank.MoveCoins(f.db, stranger, vault, coin.NewCoin(2, 0, "ZZZ")))
			require.NoError(t, f.bank.MoveCoins(f.db, stranger, addr, threeZ))

			signer, msg := tc.close(f)
			_, err = f.exec(t, signer, msg)
			require.NoError(t, err)

			wantA, err := hundredA.Add(oneA)
			require.NoError(t, err)
			assert.True(t, f.balance(t, tc.beneficiary(f), "AAA").Equals(wantA))
			assert.True(t, f.balance(t, f.maker.Address(), "ZZZ").Equals(tc.wantMakerZ))

			_, err = f.bank.Balance(f.db, vault)
			assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
			_, err = f.bank.Balance(f.db, addr)
			assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
		})
	}
}

func TestVaultBelowDeposit(t *testing.T) {
	f := newFixture(t, Configuration{})
	f.mint(t, f.maker.Address(), hundredA)
	f.mint(t, f.taker.Address(), fiftyB)

	_, err := f.exec(t, f.maker, makeMsg(14, fiftyB, hundredA))
	require.NoError(t, err)

	addr, _ := f.record(t, 14)
	vd, err := FindVault(addr, "AAA")
	require.NoError(t, err)
	vault, err := vd.Address()
	require.NoError(t, err)
	require.NoError(t, f.bank.MoveCoins(f.db, vault, loomtest.RandomAddr(t), coin.NewCoin(1, 0, "AAA")))

	_, err = f.exec(t, f.taker, takeMsg(f.maker, 14))
	assert.True(t, errors.ErrState.Is(err), "%+v", err)
	_, err = f.exec(t, f.maker, refundMsg(f.maker, 14))
	assert.True(t, errors.ErrState.Is(err), "%+v", err)

	_, esc := f.record(t, 14)
	assert.NotNil(t, esc)
	assert.True(t, f.balance(t, f.taker.Address(), "BBB").Equals(fiftyB))
}
