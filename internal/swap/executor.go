// Package swap submits token swaps against the Uniswap V2 router.
package swap

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/quantum-wallet/internal/metrics"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
	"github.com/quantumauth-io/quantum-wallet/internal/utils"
)

// ErrSwapFailed is the only error callers see from Execute.
var ErrSwapFailed = errors.New("swap failed")

type TokenResolver interface {
	Lookup(id string) (tokens.Token, error)
}

// Signer provides the sender account and its transaction options.
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

type Config struct {
	Router  common.Address
	WETH    common.Address
	ChainID *big.Int
}

type Request struct {
	InputToken      string          `json:"inputToken"`
	OutputToken     string          `json:"outputToken"`
	Amount          decimal.Decimal `json:"amount"`
	MinimumOut      decimal.Decimal `json:"minimumOut"`
	DeadlineMinutes int             `json:"deadlineMinutes"`
	Recipient       string          `json:"recipient,omitempty"`
}

type Result struct {
	TxHash       string `json:"txHash"`
	Shape        Shape  `json:"shape"`
	ApprovalHash string `json:"approvalHash,omitempty"`
	Deadline     int64  `json:"deadline"`
}

type Executor struct {
	cfg    Config
	tokens TokenResolver
	now    func() time.Time
}

type Option func(*Executor)

func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

func NewExecutor(cfg Config, t TokenResolver, opts ...Option) *Executor {
	e := &Executor{cfg: cfg, tokens: t, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute submits req and waits for it to be mined. Every failure is logged
// and reported as ErrSwapFailed.
func (e *Executor) Execute(ctx context.Context, chain Chain, signer Signer, req Request) (Result, error) {
	res, err := e.execute(ctx, chain, signer, req)

	shape := string(res.Shape)
	if shape == "" {
		shape = "unknown"
	}
	metrics.SwapsTotal.WithLabelValues(shape, metrics.Result(err)).Inc()

	if err != nil {
		log.Error("swap failed",
			"input", req.InputToken,
			"output", req.OutputToken,
			"amount", req.Amount.String(),
			"shape", shape,
			"error", err,
		)
		return Result{}, ErrSwapFailed
	}

	log.Info("swap mined", "tx", res.TxHash, "shape", shape)
	return res, nil
}

func (e *Executor) execute(ctx context.Context, chain Chain, signer Signer, req Request) (Result, error) {
	if chain == nil || signer == nil {
		return Result{}, errors.New("missing chain or signer")
	}
	if !req.Amount.IsPositive() {
		return Result{}, errors.Newf("amount must be positive, got %s", req.Amount.String())
	}
	if req.MinimumOut.IsNegative() {
		return Result{}, errors.New("minimum out must not be negative")
	}
	if req.DeadlineMinutes <= 0 {
		return Result{}, errors.Newf("deadline must be positive, got %d", req.DeadlineMinutes)
	}

	in, err := e.tokens.Lookup(req.InputToken)
	if err != nil {
		return Result{}, err
	}
	out, err := e.tokens.Lookup(req.OutputToken)
	if err != nil {
		return Result{}, err
	}

	shape, path, err := Route(in, out, e.cfg.WETH)
	if err != nil {
		return Result{}, err
	}
	res := Result{Shape: shape}

	amountIn, err := utils.ParseUnits(req.Amount, in.Decimals)
	if err != nil {
		return res, errors.Wrap(err, "amount in")
	}
	if amountIn.Sign() == 0 {
		return res, errors.New("amount rounds to zero base units")
	}
	amountOutMin, err := utils.ParseUnits(req.MinimumOut, out.Decimals)
	if err != nil {
		return res, errors.Wrap(err, "minimum out")
	}

	to := signer.Address()
	if req.Recipient != "" {
		if !common.IsHexAddress(req.Recipient) {
			return res, errors.Newf("invalid recipient %q", req.Recipient)
		}
		to = common.HexToAddress(req.Recipient)
	}

	res.Deadline = e.now().Unix() + int64(req.DeadlineMinutes)*60
	deadline := big.NewInt(res.Deadline)

	if !in.IsNative() {
		approval, err := e.ensureAllowance(ctx, chain, signer, in.ContractAddress(), amountIn)
		if err != nil {
			return res, err
		}
		res.ApprovalHash = approval
	}

	opts, err := signer.TransactOpts(ctx, e.cfg.ChainID)
	if err != nil {
		return res, err
	}

	router := chain.Bind(e.cfg.Router, RouterABI)

	var tx *types.Transaction
	switch shape {
	case ShapeETHForTokens:
		opts.Value = amountIn
		tx, err = router.Transact(opts, string(shape), amountOutMin, path, to, deadline)
	default:
		tx, err = router.Transact(opts, string(shape), amountIn, amountOutMin, path, to, deadline)
	}
	if err != nil {
		return res, errors.Wrapf(err, "submit %s", shape)
	}

	if err := awaitSuccess(ctx, chain, tx); err != nil {
		return res, err
	}
	res.TxHash = tx.Hash().Hex()
	return res, nil
}

// ensureAllowance approves the router for amount when the current allowance
// is short, and waits for the approval to be mined.
func (e *Executor) ensureAllowance(ctx context.Context, chain Chain, signer Signer, token common.Address, amount *big.Int) (string, error) {
	current, err := tokens.Allowance(ctx, chain, token, signer.Address(), e.cfg.Router)
	if err != nil {
		return "", errors.Wrap(err, "read allowance")
	}
	if current.Cmp(amount) >= 0 {
		return "", nil
	}

	opts, err := signer.TransactOpts(ctx, e.cfg.ChainID)
	if err != nil {
		return "", err
	}

	tx, err := chain.Bind(token, tokens.ERC20ABI).Transact(opts, "approve", e.cfg.Router, amount)
	if err != nil {
		return "", errors.Wrap(err, "submit approve")
	}

	log.Info("router approval submitted", "token", token.Hex(), "tx", tx.Hash().Hex())

	if err := awaitSuccess(ctx, chain, tx); err != nil {
		return "", errors.Wrap(err, "approve")
	}
	return tx.Hash().Hex(), nil
}

func awaitSuccess(ctx context.Context, chain Chain, tx *types.Transaction) error {
	receipt, err := chain.WaitMined(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "wait mined")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.Newf("transaction reverted: tx=%s", tx.Hash().Hex())
	}
	return nil
}
