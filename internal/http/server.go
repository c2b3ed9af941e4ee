// Package http serves the wallet UI API on the loopback interface.
package http

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/metrics"
	"github.com/quantumauth-io/quantum-wallet/internal/prices"
	"github.com/quantumauth-io/quantum-wallet/internal/quote"
	"github.com/quantumauth-io/quantum-wallet/internal/settings"
	"github.com/quantumauth-io/quantum-wallet/internal/swap"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
)

type PriceSource interface {
	Price(ctx context.Context, id string) (prices.Price, error)
}

type QuoteEstimator interface {
	Estimate(ctx context.Context, req quote.Request) (quote.Quote, error)
}

type SwapExecutor interface {
	Execute(ctx context.Context, chain swap.Chain, signer swap.Signer, req swap.Request) (swap.Result, error)
}

// Options wires the server. Wallet may be nil when no wallet is unlocked.
type Options struct {
	Settings *settings.Store
	Sheet    *settings.Sheet
	Tokens   *tokens.Registry
	Prices   PriceSource
	Quotes   QuoteEstimator
	Swaps    SwapExecutor
	Chains   ChainSource
	Wallet   swap.Signer
	ChainID  *big.Int

	AllowedOrigins []string
	QuoteDebounce  time.Duration
	SessionToken   string
}

type Server struct {
	mux *http.ServeMux

	settings *settings.Store
	sheet    *settings.Sheet
	tokens   *tokens.Registry
	prices   PriceSource
	quotes   QuoteEstimator
	swaps    SwapExecutor
	chains   ChainSource
	wallet   swap.Signer
	chainID  *big.Int

	sessionToken     string
	uiAllowedOrigins map[string]struct{}
	quoteDebounce    time.Duration
	upgrader         websocket.Upgrader
}

func NewServer(opts Options) (*Server, error) {
	if opts.Settings == nil || opts.Sheet == nil || opts.Tokens == nil {
		return nil, errors.New("http: settings, sheet and tokens are required")
	}
	if opts.Prices == nil || opts.Quotes == nil || opts.Swaps == nil || opts.Chains == nil {
		return nil, errors.New("http: prices, quotes, swaps and chains are required")
	}

	s := &Server{
		mux:              http.NewServeMux(),
		settings:         opts.Settings,
		sheet:            opts.Sheet,
		tokens:           opts.Tokens,
		prices:           opts.Prices,
		quotes:           opts.Quotes,
		swaps:            opts.Swaps,
		chains:           opts.Chains,
		wallet:           opts.Wallet,
		chainID:          opts.ChainID,
		sessionToken:     opts.SessionToken,
		uiAllowedOrigins: originSet(opts.AllowedOrigins),
		quoteDebounce:    opts.QuoteDebounce,
	}
	if s.chainID == nil {
		s.chainID = big.NewInt(1)
	}
	if s.quoteDebounce <= 0 {
		s.quoteDebounce = DefaultQuoteDebounce
	}
	if s.sessionToken == "" {
		token, err := newSessionToken()
		if err != nil {
			return nil, errors.Wrap(err, "session token")
		}
		s.sessionToken = token
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkWSOrigin}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.withUIGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handleHealth)))

	// settings
	s.mux.HandleFunc("/settings", s.withUIGuards("GET,PATCH,OPTIONS",
		requireMethods(s.handleSettings, http.MethodGet, http.MethodPatch)))
	s.mux.HandleFunc("/settings/reset", s.withUIGuards("POST,OPTIONS", requireMethod(http.MethodPost, s.handleSettingsReset)))
	s.mux.HandleFunc("/settings/theme.css", s.withUIGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handleThemeCSS)))

	// tokens + prices
	s.mux.HandleFunc("/tokens", s.withUIGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handleTokens)))
	s.mux.HandleFunc("/tokens/add", s.withUIGuards("POST,OPTIONS", requireMethod(http.MethodPost, s.handleTokenAdd)))
	s.mux.HandleFunc("/tokens/remove", s.withUIGuards("POST,OPTIONS", requireMethod(http.MethodPost, s.handleTokenRemove)))
	s.mux.HandleFunc("/tokens/balance", s.withUIGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handleTokenBalance)))
	s.mux.HandleFunc("/prices", s.withUIGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handlePrice)))

	// swap
	s.mux.HandleFunc("/swap/quote", s.withUIGuards("POST,OPTIONS", requireMethod(http.MethodPost, s.handleQuote)))
	s.mux.HandleFunc("/swap/quote/ws", s.withLoopbackOnly(s.handleQuoteStream))
	s.mux.HandleFunc("/swap/execute", s.withSessionGuards("POST,OPTIONS", requireMethod(http.MethodPost, s.handleSwapExecute)))

	// wallet (session token only)
	s.mux.HandleFunc("/wallet", s.withSessionGuards("GET,OPTIONS", requireMethod(http.MethodGet, s.handleWallet)))

	s.mux.HandleFunc("/metrics", s.withLoopbackOnly(metrics.Handler().ServeHTTP))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// SessionToken is the value the UI must send in the session header for
// guarded routes.
func (s *Server) SessionToken() string {
	return s.sessionToken
}

// LogSession prints how the UI authenticates guarded calls.
func (s *Server) LogSession(addr string) {
	log.Info("wallet api ready", "addr", addr, "header", constants.SessionHeader, "token", s.sessionToken)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{JSONKeyOK: true})
}
