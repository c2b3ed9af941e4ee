package swap

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

const routerJSON = `[
{"inputs":[{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactETHForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMin","type":"uint256"},{"internalType":"address[]","name":"path","type":"address[]"},{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"internalType":"uint256[]","name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

// RouterABI is the subset of the Uniswap V2 router used for swaps.
var RouterABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(routerJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Shape is the router method a swap is submitted with.
type Shape string

const (
	ShapeETHForTokens    Shape = "swapExactETHForTokens"
	ShapeTokensForETH    Shape = "swapExactTokensForETH"
	ShapeTokensForTokens Shape = "swapExactTokensForTokens"
)

// Route picks the call shape and router path for a pair.
func Route(in, out tokens.Token, weth common.Address) (Shape, []common.Address, error) {
	switch {
	case in.IsNative() && out.IsNative():
		return "", nil, errors.New("cannot swap native asset for itself")
	case in.IsNative():
		return ShapeETHForTokens, []common.Address{weth, out.ContractAddress()}, nil
	case out.IsNative():
		return ShapeTokensForETH, []common.Address{in.ContractAddress(), weth}, nil
	default:
		if in.ContractAddress() == out.ContractAddress() {
			return "", nil, errors.New("input and output token are the same")
		}
		return ShapeTokensForTokens, []common.Address{in.ContractAddress(), out.ContractAddress()}, nil
	}
}

// Transactor submits a contract method call. *bind.BoundContract satisfies it.
type Transactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// Chain is what the executor needs from the network.
type Chain interface {
	bind.ContractCaller
	Bind(address common.Address, contract abi.ABI) Transactor
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// EthChain adapts an ethclient connection to Chain.
type EthChain struct {
	*ethclient.Client
}

func (c EthChain) Bind(address common.Address, contract abi.ABI) Transactor {
	return bind.NewBoundContract(address, contract, c.Client, c.Client, c.Client)
}

func (c EthChain) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.Client, tx)
}
