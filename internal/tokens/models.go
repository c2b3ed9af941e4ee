package tokens

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
)

// Token is immutable metadata for an asset the wallet can hold or swap.
type Token struct {
	// Address is the checksummed contract address, or "ETH" for the native asset.
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoUri,omitempty"`
}

func (t Token) IsNative() bool {
	return strings.EqualFold(t.Address, constants.NativeSymbol)
}

// ContractAddress returns the token's contract, or the zero address for the native asset.
func (t Token) ContractAddress() common.Address {
	if t.IsNative() {
		return common.Address{}
	}
	return common.HexToAddress(t.Address)
}

// customFile is the persisted form of user-added tokens.
type customFile struct {
	Schema int     `json:"schema"`
	Tokens []Token `json:"tokens"`
}

var Native = Token{
	Address:  constants.NativeSymbol,
	Symbol:   "ETH",
	Name:     "Ether",
	Decimals: 18,
}

func mainnet(addr, symbol, name string, decimals uint8) Token {
	return Token{
		Address:  common.HexToAddress(addr).Hex(),
		Symbol:   symbol,
		Name:     name,
		Decimals: decimals,
	}
}

// Builtins is the fixed mainnet token list.
func Builtins() []Token {
	return []Token{
		Native,
		mainnet(constants.WETHAddress, "WETH", "Wrapped Ether", 18),
		mainnet("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", "USD Coin", 6),
		mainnet("0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", "Tether USD", 6),
		mainnet("0x6B175474E89094C44Da98b954EedeAC495271d0F", "DAI", "Dai Stablecoin", 18),
		mainnet("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "WBTC", "Wrapped BTC", 8),
		mainnet("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", "UNI", "Uniswap", 18),
		mainnet("0x514910771AF9Ca656af840dff83E8264EcF986CA", "LINK", "ChainLink Token", 18),
	}
}
