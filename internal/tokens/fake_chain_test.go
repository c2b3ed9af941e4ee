package tokens

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

type fakeERC20 struct {
	name     string
	symbol   string
	decimals uint8
	balances map[common.Address]*big.Int
}

// fakeChain answers ERC-20 view calls from memory.
type fakeChain struct {
	tokens map[common.Address]fakeERC20
	native map[common.Address]*big.Int
	calls  int
}

func (f *fakeChain) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if _, ok := f.tokens[contract]; ok {
		return []byte{0x60}, nil
	}
	return nil, nil
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	tok, ok := f.tokens[*msg.To]
	if !ok {
		return nil, nil
	}

	method, err := ERC20ABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "name":
		return method.Outputs.Pack(tok.name)
	case "symbol":
		return method.Outputs.Pack(tok.symbol)
	case "decimals":
		return method.Outputs.Pack(tok.decimals)
	case "balanceOf":
		bal := tok.balances[args[0].(common.Address)]
		if bal == nil {
			bal = big.NewInt(0)
		}
		return method.Outputs.Pack(bal)
	}
	return nil, errors.Newf("unsupported method %s", method.Name)
}

func (f *fakeChain) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if v, ok := f.native[account]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}
