package http

import (
	"context"

	"github.com/quantumauth-io/quantum-wallet/internal/chains"
	"github.com/quantumauth-io/quantum-wallet/internal/swap"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

// Chain is the network surface the handlers use.
type Chain interface {
	tokens.Backend
	swap.Chain
}

type ChainSource interface {
	Chain(ctx context.Context) (Chain, error)
}

type serviceChains struct {
	svc *chains.Service
}

// NewChainSource serves the RPC client currently selected by svc.
func NewChainSource(svc *chains.Service) ChainSource {
	return serviceChains{svc: svc}
}

func (c serviceChains) Chain(ctx context.Context) (Chain, error) {
	client, err := c.svc.Client(ctx)
	if err != nil {
		return nil, err
	}
	return swap.EthChain{Client: client}, nil
}
