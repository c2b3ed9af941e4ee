package http

import (
	"net/http"

	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/quote"
	"github.com/quantumauth-io/quantum-wallet/internal/swap"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if !decodeJSONBody(w, r, &req) {
		return
	}

	q, err := s.quotes.Estimate(r.Context(), req)
	if err != nil {
		// the estimator already logged the cause
		writeError(w, http.StatusBadGateway, SwapQuoteFailedText)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{JSONKeyOK: true, JSONKeyQuote: q})
}

// handleSwapExecute submits a swap signed by the unlocked wallet. A missing
// deadline falls back to the user's transactionDeadline setting.
func (s *Server) handleSwapExecute(w http.ResponseWriter, r *http.Request) {
	if s.wallet == nil {
		writeError(w, http.StatusServiceUnavailable, WalletLockedText)
		return
	}

	var req swap.Request
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.DeadlineMinutes == 0 {
		req.DeadlineMinutes = s.settings.Get(r.Context()).Advanced.TransactionDeadline
	}

	chain, err := s.chains.Chain(r.Context())
	if err != nil {
		log.Error("swap: chain unavailable", "error", err)
		writeError(w, http.StatusBadGateway, SwapFailedText)
		return
	}

	res, err := s.swaps.Execute(r.Context(), chain, s.wallet, req)
	if err != nil {
		writeError(w, http.StatusBadGateway, SwapFailedText)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if s.wallet == nil {
		writeError(w, http.StatusServiceUnavailable, WalletLockedText)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{
		Address: s.wallet.Address().Hex(),
		ChainID: s.chainID.String(),
	})
}
