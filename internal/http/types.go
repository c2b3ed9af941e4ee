package http

import (
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

type corsPolicy struct {
	allowedOrigins map[string]struct{}
	allowMethods   string

	allowHeaders string
	maxAge       int
}

type addressRequest struct {
	Address string `json:"address"`
}

type tokensResponse struct {
	Tokens []tokens.Token `json:"tokens"`
}

type balanceResponse struct {
	Token     tokens.Token `json:"token"`
	Owner     string       `json:"owner"`
	Raw       string       `json:"raw"`
	Formatted string       `json:"formatted"`
}

type priceResponse struct {
	Token     tokens.Token `json:"token"`
	PriceID   string       `json:"priceId"`
	USD       float64      `json:"usd"`
	Change24h float64      `json:"change24h"`
}

type walletResponse struct {
	Address string `json:"address"`
	ChainID string `json:"chainId"`
}

// quoteStreamMessage is written for every debounced quote on the websocket.
type quoteStreamMessage struct {
	Seq   uint64 `json:"seq"`
	Quote any    `json:"quote,omitempty"`
	Error string `json:"error,omitempty"`
}
