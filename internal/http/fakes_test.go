package http

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/quantum-wallet/internal/prices"
	"github.com/quantumauth-io/quantum-wallet/internal/quote"
	"github.com/quantumauth-io/quantum-wallet/internal/swap"
)

type fakePrices struct {
	byID map[string]prices.Price
	err  error
}

func (f *fakePrices) Price(ctx context.Context, id string) (prices.Price, error) {
	if f.err != nil {
		return prices.Price{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return prices.Price{}, errors.Newf("no price for %s", id)
	}
	return p, nil
}

type fakeQuotes struct {
	calls atomic.Int32
	err   error

	mu   sync.Mutex
	last quote.Request
}

func (f *fakeQuotes) Estimate(ctx context.Context, req quote.Request) (quote.Quote, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()

	if f.err != nil {
		return quote.Quote{}, quote.ErrQuoteFailed
	}
	return quote.Quote{
		ID:           "q-1",
		InputAmount:  req.Amount,
		OutputAmount: req.Amount.Mul(decimal.NewFromInt(2)),
		Route:        []string{req.InputToken, req.OutputToken},
	}, nil
}

func (f *fakeQuotes) lastRequest() quote.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fakeSwaps struct {
	err  error
	last swap.Request
	n    int
}

func (f *fakeSwaps) Execute(ctx context.Context, chain swap.Chain, signer swap.Signer, req swap.Request) (swap.Result, error) {
	f.n++
	f.last = req
	if f.err != nil {
		return swap.Result{}, swap.ErrSwapFailed
	}
	return swap.Result{TxHash: "0xabc", Shape: swap.ShapeETHForTokens}, nil
}

type fakeChain struct {
	native map[common.Address]*big.Int
}

func (f *fakeChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return nil, errors.New("no contracts on the fake chain")
}

func (f *fakeChain) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if v, ok := f.native[account]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeChain) Bind(address common.Address, contract abi.ABI) swap.Transactor {
	return nil
}

func (f *fakeChain) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return nil, errors.New("not mined")
}

type fakeChains struct {
	chain *fakeChain
	err   error
}

func (f *fakeChains) Chain(ctx context.Context) (Chain, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

type fakeSigner struct {
	addr common.Address
}

func (f fakeSigner) Address() common.Address { return f.addr }

func (f fakeSigner) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: f.addr, Context: ctx}, nil
}

// failingKV fails every write.
type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("disk gone")
}
func (failingKV) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("disk gone")
}
func (failingKV) Delete(ctx context.Context, key string) error { return errors.New("disk gone") }
func (failingKV) Close() error                                  { return nil }
