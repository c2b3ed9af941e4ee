// Package quote produces placeholder swap quotes from spot prices. No pool or
// router is consulted: output is the USD price ratio discounted by a
// pseudo-random price impact and the user's slippage tolerance.
package quote

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/quantumauth-io/quantum-wallet/internal/metrics"
	"github.com/quantumauth-io/quantum-wallet/internal/prices"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

// ErrQuoteFailed is the only error callers see from Estimate.
var ErrQuoteFailed = errors.New("failed to get swap quote")

const (
	MinImpactPct = 0.1
	MaxImpactPct = 2.0
)

var feeRate = decimal.RequireFromString("0.003")

type PriceSource interface {
	Price(ctx context.Context, id string) (prices.Price, error)
}

type TokenResolver interface {
	Lookup(id string) (tokens.Token, error)
	PriceID(t tokens.Token) (string, error)
}

// SlippageSource supplies the user's configured slippage tolerance (percent).
type SlippageSource func(ctx context.Context) float64

type Quote struct {
	ID              string          `json:"id"`
	InputToken      tokens.Token    `json:"inputToken"`
	OutputToken     tokens.Token    `json:"outputToken"`
	InputAmount     decimal.Decimal `json:"inputAmount"`
	OutputAmount    decimal.Decimal `json:"outputAmount"`
	ExecutionPrice  decimal.Decimal `json:"executionPrice"`
	PriceImpact     float64         `json:"priceImpact"` // percent
	Route           []string        `json:"route"`
	MinimumReceived decimal.Decimal `json:"minimumReceived"`
	Fee             decimal.Decimal `json:"fee"` // USD
	Slippage        float64         `json:"slippage"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type Request struct {
	InputToken  string          `json:"inputToken"`
	OutputToken string          `json:"outputToken"`
	Amount      decimal.Decimal `json:"amount"`
}

type Estimator struct {
	prices   PriceSource
	tokens   TokenResolver
	slippage SlippageSource
	impact   func() float64
	now      func() time.Time
}

type Option func(*Estimator)

// WithImpact replaces the pseudo-random price impact source (percent).
func WithImpact(f func() float64) Option {
	return func(e *Estimator) { e.impact = f }
}

func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

func NewEstimator(p PriceSource, t TokenResolver, slippage SlippageSource, opts ...Option) *Estimator {
	e := &Estimator{
		prices:   p,
		tokens:   t,
		slippage: slippage,
		impact:   RandomImpact,
		now:      time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// RandomImpact returns a pseudo-random impact in [0.1, 2.0) percent.
func RandomImpact() float64 {
	return MinImpactPct + rand.Float64()*(MaxImpactPct-MinImpactPct)
}

// Estimate quotes req. Every failure is logged and reported as ErrQuoteFailed.
func (e *Estimator) Estimate(ctx context.Context, req Request) (Quote, error) {
	q, err := e.estimate(ctx, req)
	metrics.QuotesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		log.Error("quote failed",
			"input", req.InputToken,
			"output", req.OutputToken,
			"amount", req.Amount.String(),
			"error", err,
		)
		return Quote{}, ErrQuoteFailed
	}
	return q, nil
}

func (e *Estimator) estimate(ctx context.Context, req Request) (Quote, error) {
	if !req.Amount.IsPositive() {
		return Quote{}, errors.Newf("amount must be positive, got %s", req.Amount.String())
	}

	in, err := e.tokens.Lookup(req.InputToken)
	if err != nil {
		return Quote{}, err
	}
	out, err := e.tokens.Lookup(req.OutputToken)
	if err != nil {
		return Quote{}, err
	}
	if in.Address == out.Address {
		return Quote{}, errors.New("input and output token are the same")
	}

	inID, err := e.tokens.PriceID(in)
	if err != nil {
		return Quote{}, err
	}
	outID, err := e.tokens.PriceID(out)
	if err != nil {
		return Quote{}, err
	}

	var inPrice, outPrice prices.Price
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.prices.Price(gctx, inID)
		if err != nil {
			return errors.Wrapf(err, "price %s", inID)
		}
		inPrice = p
		return nil
	})
	g.Go(func() error {
		p, err := e.prices.Price(gctx, outID)
		if err != nil {
			return errors.Wrapf(err, "price %s", outID)
		}
		outPrice = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return Quote{}, err
	}

	slippage := 0.0
	if e.slippage != nil {
		slippage = e.slippage(ctx)
	}

	res, err := Compute(req.Amount, inPrice.USD, outPrice.USD, e.impact(), slippage)
	if err != nil {
		return Quote{}, err
	}

	res.ID = uuid.NewString()
	res.InputToken = in
	res.OutputToken = out
	res.Route = []string{in.Address, out.Address}
	res.CreatedAt = e.now().UTC()
	return res, nil
}

// Compute is the quote arithmetic:
//
//	output          = amount * inUSD / outUSD * (1 - impact/100)
//	minimumReceived = output * (1 - slippage/100)
//	executionPrice  = output / amount
//	fee             = 0.3% of the input's USD value
func Compute(amount decimal.Decimal, inUSD, outUSD, impactPct, slippagePct float64) (Quote, error) {
	if !amount.IsPositive() {
		return Quote{}, errors.New("amount must be positive")
	}
	if inUSD <= 0 || outUSD <= 0 {
		return Quote{}, errors.Newf("invalid prices in=%v out=%v", inUSD, outUSD)
	}

	inP := decimal.NewFromFloat(inUSD)
	outP := decimal.NewFromFloat(outUSD)
	hundred := decimal.NewFromInt(100)

	output := amount.Mul(inP).Div(outP)
	output = output.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(impactPct).Div(hundred)))

	minimum := output.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(slippagePct).Div(hundred)))

	return Quote{
		InputAmount:     amount,
		OutputAmount:    output,
		ExecutionPrice:  output.Div(amount),
		PriceImpact:     impactPct,
		MinimumReceived: minimum,
		Fee:             amount.Mul(inP).Mul(feeRate),
		Slippage:        slippagePct,
	}, nil
}
