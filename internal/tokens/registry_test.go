package tokens

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
)

var (
	pepeAddr = common.HexToAddress("0x6982508145454Ce325dDbE47a25d4ec3d2311933")
	owner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func newFakeChain() *fakeChain {
	return &fakeChain{
		tokens: map[common.Address]fakeERC20{
			pepeAddr: {
				name:     "Pepe",
				symbol:   "PEPE",
				decimals: 18,
				balances: map[common.Address]*big.Int{owner: big.NewInt(42)},
			},
		},
		native: map[common.Address]*big.Int{owner: big.NewInt(7)},
	}
}

func TestRegistry_LookupBuiltins(t *testing.T) {
	r := NewRegistry(kvstore.NewMemoryStore(), nil)

	eth, err := r.Lookup("eth")
	require.NoError(t, err)
	assert.True(t, eth.IsNative())

	usdc, err := r.Lookup("USDC")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), usdc.Decimals)

	byAddr, err := r.Lookup("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	require.NoError(t, err)
	assert.Equal(t, usdc, byAddr)

	_, err = r.Lookup("DOGE")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestRegistry_AddFetchesOnceAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	chain := newFakeChain()

	r := NewRegistry(kv, nil)
	tok, err := r.Add(ctx, chain, pepeAddr.Hex())
	require.NoError(t, err)
	assert.Equal(t, Token{Address: pepeAddr.Hex(), Symbol: "PEPE", Name: "Pepe", Decimals: 18}, tok)

	calls := chain.calls
	again, err := r.Add(ctx, chain, pepeAddr.Hex())
	require.NoError(t, err)
	assert.Equal(t, tok, again)
	assert.Equal(t, calls, chain.calls)

	// a fresh registry sees it after Load
	r2 := NewRegistry(kv, nil)
	require.NoError(t, r2.Load(ctx))
	got, err := r2.Lookup(pepeAddr.Hex())
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	list := r2.List()
	assert.Equal(t, len(Builtins())+1, len(list))
	assert.Equal(t, "PEPE", list[len(list)-1].Symbol)
}

func TestRegistry_AddUnknownContractFails(t *testing.T) {
	r := NewRegistry(kvstore.NewMemoryStore(), nil)
	_, err := r.Add(context.Background(), newFakeChain(), "0x2222222222222222222222222222222222222222")
	assert.Error(t, err)

	_, err = r.Add(context.Background(), newFakeChain(), "not-an-address")
	assert.Error(t, err)
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(kvstore.NewMemoryStore(), nil)

	_, err := r.Add(ctx, newFakeChain(), pepeAddr.Hex())
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, pepeAddr.Hex()))
	_, err = r.Lookup(pepeAddr.Hex())
	assert.ErrorIs(t, err, ErrUnknownToken)

	assert.ErrorIs(t, r.Remove(ctx, constants.WETHAddress), ErrBuiltinToken)
}

func TestRegistry_LoadSkipsBadEntries(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, constants.CustomTokenKey, []byte(`{"schema":1,"tokens":[
		{"address":"nope","symbol":"BAD","decimals":18},
		{"address":"0x6982508145454ce325ddbe47a25d4ec3d2311933","symbol":"PEPE","decimals":18}
	]}`)))

	r := NewRegistry(kv, nil)
	require.NoError(t, r.Load(ctx))
	assert.Len(t, r.List(), len(Builtins())+1)

	got, err := r.Lookup(pepeAddr.Hex())
	require.NoError(t, err)
	assert.Equal(t, pepeAddr.Hex(), got.Address)
}

func TestBalanceOf(t *testing.T) {
	ctx := context.Background()
	chain := newFakeChain()

	bal, err := BalanceOf(ctx, chain, Native, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(7), bal.Int64())

	pepe := Token{Address: pepeAddr.Hex(), Symbol: "PEPE", Decimals: 18}
	bal, err = BalanceOf(ctx, chain, pepe, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(42), bal.Int64())

	bal, err = BalanceOf(ctx, chain, pepe, common.Address{})
	require.NoError(t, err)
	assert.Zero(t, bal.Sign())
}

func TestRegistry_PriceID(t *testing.T) {
	r := NewRegistry(kvstore.NewMemoryStore(), nil)

	usdc, err := r.Lookup("USDC")
	require.NoError(t, err)
	id, err := r.PriceID(usdc)
	require.NoError(t, err)
	assert.Equal(t, "usd-coin", id)

	_, err = r.PriceID(Token{Symbol: "PEPE"})
	assert.ErrorIs(t, err, ErrNoPriceID)
}

func TestRegistry_PriceIDIgnoresCustomTokenSymbol(t *testing.T) {
	ctx := context.Background()
	fakeUSDC := common.HexToAddress("0x000000000000000000000000000000000000bAD1")
	chain := newFakeChain()
	chain.tokens[fakeUSDC] = fakeERC20{name: "USD Coin", symbol: "USDC", decimals: 6}

	r := NewRegistry(kvstore.NewMemoryStore(), nil)
	tok, err := r.Add(ctx, chain, fakeUSDC.Hex())
	require.NoError(t, err)
	assert.Equal(t, "USDC", tok.Symbol)

	_, err = r.PriceID(tok)
	assert.ErrorIs(t, err, ErrNoPriceID)

	eth, err := r.PriceID(Native)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", eth)
}
