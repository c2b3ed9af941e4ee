package tokens

import (
	"context"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const erc20JSON = `[
{"inputs":[],"name":"name","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[{"internalType":"address","name":"spender","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"approve","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// ERC20ABI is the subset of the ERC-20 interface the wallet uses.
var ERC20ABI = mustParseABI(erc20JSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Backend is the chain surface token lookups need. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractCaller
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

func callERC20(ctx context.Context, caller bind.ContractCaller, token common.Address, method string, args ...any) ([]any, error) {
	data, err := ERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}

	out, err := caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	if len(out) == 0 {
		return nil, errors.Newf("%s: empty response from %s", method, token.Hex())
	}

	res, err := ERC20ABI.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	if len(res) == 0 {
		return nil, errors.Newf("%s: no outputs", method)
	}
	return res, nil
}

// FetchToken reads symbol, decimals and (best effort) name from the contract.
func FetchToken(ctx context.Context, caller bind.ContractCaller, addr common.Address) (Token, error) {
	res, err := callERC20(ctx, caller, addr, "symbol")
	if err != nil {
		return Token{}, err
	}
	sym, ok := res[0].(string)
	if !ok {
		return Token{}, errors.New("symbol: unexpected type")
	}

	res, err = callERC20(ctx, caller, addr, "decimals")
	if err != nil {
		return Token{}, err
	}
	dec, ok := res[0].(uint8)
	if !ok {
		return Token{}, errors.New("decimals: unexpected type")
	}

	name := ""
	if res, err := callERC20(ctx, caller, addr, "name"); err == nil {
		name, _ = res[0].(string)
	}

	return Token{
		Address:  addr.Hex(),
		Symbol:   strings.TrimSpace(sym),
		Name:     strings.TrimSpace(name),
		Decimals: dec,
	}, nil
}

// Allowance returns how much spender may move of owner's token.
func Allowance(ctx context.Context, caller bind.ContractCaller, token, owner, spender common.Address) (*big.Int, error) {
	res, err := callERC20(ctx, caller, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	v, ok := res[0].(*big.Int)
	if !ok {
		return nil, errors.New("allowance: unexpected type")
	}
	return v, nil
}

// BalanceOf returns the balance for owner in base units.
// - native token: ETH balance (wei)
// - otherwise: ERC-20 balanceOf
func BalanceOf(ctx context.Context, backend Backend, token Token, owner common.Address) (*big.Int, error) {
	if owner == (common.Address{}) {
		return big.NewInt(0), nil
	}

	if token.IsNative() {
		wei, err := backend.BalanceAt(ctx, owner, nil)
		if err != nil {
			return nil, errors.Wrap(err, "native balance")
		}
		return wei, nil
	}

	res, err := callERC20(ctx, backend, token.ContractAddress(), "balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "erc20 balanceOf")
	}
	bal, ok := res[0].(*big.Int)
	if !ok {
		return nil, errors.New("balanceOf: unexpected type")
	}
	return bal, nil
}
