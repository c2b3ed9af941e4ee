package tokens

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Symbol is one of the tokens the price table knows about.
type Symbol string

const (
	SymbolETH  Symbol = "ETH"
	SymbolWETH Symbol = "WETH"
	SymbolUSDC Symbol = "USDC"
	SymbolUSDT Symbol = "USDT"
	SymbolDAI  Symbol = "DAI"
	SymbolWBTC Symbol = "WBTC"
	SymbolUNI  Symbol = "UNI"
	SymbolLINK Symbol = "LINK"
)

// KnownSymbols is the closed set of symbols the wallet can price.
var KnownSymbols = []Symbol{
	SymbolETH, SymbolWETH, SymbolUSDC, SymbolUSDT, SymbolDAI, SymbolWBTC, SymbolUNI, SymbolLINK,
}

var ErrNoPriceID = errors.New("tokens: no price id for symbol")

// ParseSymbol matches s case-insensitively against KnownSymbols.
func ParseSymbol(s string) (Symbol, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, k := range KnownSymbols {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func isKnown(sym Symbol) bool {
	for _, k := range KnownSymbols {
		if k == sym {
			return true
		}
	}
	return false
}

// PriceIDTable maps every known symbol to its price-API identifier.
type PriceIDTable struct {
	ids map[Symbol]string
}

// NewPriceIDTable requires an entry for every known symbol and rejects anything else.
func NewPriceIDTable(ids map[Symbol]string) (*PriceIDTable, error) {
	out := make(map[Symbol]string, len(KnownSymbols))

	for sym, id := range ids {
		if !isKnown(sym) {
			return nil, errors.Newf("tokens: unknown symbol %q in price table", sym)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, errors.Newf("tokens: empty price id for %s", sym)
		}
		out[sym] = id
	}

	for _, sym := range KnownSymbols {
		if _, ok := out[sym]; !ok {
			return nil, errors.Newf("tokens: price table missing %s", sym)
		}
	}

	return &PriceIDTable{ids: out}, nil
}

// DefaultPriceIDs returns the CoinGecko identifiers for the known symbols.
func DefaultPriceIDs() *PriceIDTable {
	t, err := NewPriceIDTable(map[Symbol]string{
		SymbolETH:  "ethereum",
		SymbolWETH: "weth",
		SymbolUSDC: "usd-coin",
		SymbolUSDT: "tether",
		SymbolDAI:  "dai",
		SymbolWBTC: "wrapped-bitcoin",
		SymbolUNI:  "uniswap",
		SymbolLINK: "chainlink",
	})
	if err != nil {
		panic(err)
	}
	return t
}

// PriceID returns the price-API id for a token symbol.
func (t *PriceIDTable) PriceID(symbol string) (string, error) {
	sym, ok := ParseSymbol(symbol)
	if !ok {
		return "", errors.Wrapf(ErrNoPriceID, "%q", symbol)
	}
	return t.ids[sym], nil
}
