package quote

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
	"github.com/quantumauth-io/quantum-wallet/internal/prices"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

type stubPrices struct {
	mu    sync.Mutex
	usd   map[string]float64
	fail  map[string]error
	calls []string
}

func (s *stubPrices) Price(ctx context.Context, id string) (prices.Price, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, id)
	if err := s.fail[id]; err != nil {
		return prices.Price{}, err
	}
	return prices.Price{ID: id, USD: s.usd[id]}, nil
}

func fixedSlippage(v float64) SlippageSource {
	return func(context.Context) float64 { return v }
}

func newEstimator(p PriceSource, slippage float64, impact float64) *Estimator {
	reg := tokens.NewRegistry(kvstore.NewMemoryStore(), nil)
	return NewEstimator(p, reg, fixedSlippage(slippage),
		WithImpact(func() float64 { return impact }),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
}

func TestEstimate_ZeroImpactIsPriceRatio(t *testing.T) {
	p := &stubPrices{usd: map[string]float64{"ethereum": 3000, "usd-coin": 1}}
	e := newEstimator(p, 0.5, 0)

	q, err := e.Estimate(context.Background(), Request{
		InputToken:  "ETH",
		OutputToken: "USDC",
		Amount:      decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)

	assert.InDelta(t, 4500, q.OutputAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 4500*0.995, q.MinimumReceived.InexactFloat64(), 1e-9)
	assert.InDelta(t, 3000, q.ExecutionPrice.InexactFloat64(), 1e-9)
	assert.InDelta(t, 13.5, q.Fee.InexactFloat64(), 1e-9)
	assert.Equal(t, 0.5, q.Slippage)
	assert.Equal(t, []string{"ETH", q.OutputToken.Address}, q.Route)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), q.CreatedAt)
	assert.ElementsMatch(t, []string{"ethereum", "usd-coin"}, p.calls)
}

func TestEstimate_ImpactDiscountsOutput(t *testing.T) {
	p := &stubPrices{usd: map[string]float64{"usd-coin": 1, "dai": 1}}
	e := newEstimator(p, 1.0, 2.0)

	q, err := e.Estimate(context.Background(), Request{
		InputToken:  "USDC",
		OutputToken: "DAI",
		Amount:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.InDelta(t, 98, q.OutputAmount.InexactFloat64(), 1e-9)
	assert.InDelta(t, 97.02, q.MinimumReceived.InexactFloat64(), 1e-9)
	assert.Equal(t, 2.0, q.PriceImpact)
}

func TestEstimate_PriceErrorAbortsQuote(t *testing.T) {
	p := &stubPrices{
		usd:  map[string]float64{"ethereum": 3000},
		fail: map[string]error{"usd-coin": errors.New("rate limited")},
	}
	e := newEstimator(p, 0.5, 0)

	_, err := e.Estimate(context.Background(), Request{
		InputToken:  "ETH",
		OutputToken: "USDC",
		Amount:      decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, ErrQuoteFailed)
}

func TestEstimate_RejectsBadRequests(t *testing.T) {
	p := &stubPrices{usd: map[string]float64{"ethereum": 3000, "usd-coin": 1}}
	e := newEstimator(p, 0.5, 0)
	ctx := context.Background()

	cases := []Request{
		{InputToken: "ETH", OutputToken: "USDC", Amount: decimal.Zero},
		{InputToken: "ETH", OutputToken: "USDC", Amount: decimal.NewFromInt(-1)},
		{InputToken: "ETH", OutputToken: "ETH", Amount: decimal.NewFromInt(1)},
		{InputToken: "DOGE", OutputToken: "USDC", Amount: decimal.NewFromInt(1)},
	}
	for _, req := range cases {
		_, err := e.Estimate(ctx, req)
		assert.ErrorIs(t, err, ErrQuoteFailed)
	}
	assert.Empty(t, p.calls)
}

func TestCompute_MinimumNeverExceedsOutput(t *testing.T) {
	amounts := []string{"0.0001", "1", "12.345", "1000000"}
	for _, a := range amounts {
		for _, slip := range []float64{0.1, 0.5, 1, 5, 50} {
			q, err := Compute(decimal.RequireFromString(a), 1850.25, 0.9998, RandomImpact(), slip)
			require.NoError(t, err)
			assert.True(t, q.MinimumReceived.LessThanOrEqual(q.OutputAmount), "amount=%s slippage=%v", a, slip)
		}
	}
}

func TestCompute_InvalidPrices(t *testing.T) {
	_, err := Compute(decimal.NewFromInt(1), 0, 1, 0, 0.5)
	assert.Error(t, err)
	_, err = Compute(decimal.NewFromInt(1), 1, -1, 0, 0.5)
	assert.Error(t, err)
}

func TestRandomImpact_Range(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := RandomImpact()
		require.GreaterOrEqual(t, v, MinImpactPct)
		require.Less(t, v, MaxImpactPct)
	}
}
