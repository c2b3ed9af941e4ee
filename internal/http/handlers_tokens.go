package http

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
	"github.com/quantumauth-io/quantum-wallet/internal/utils"
)

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tokensResponse{Tokens: s.tokens.List()})
}

func (s *Server) handleTokenAdd(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, MissingAddressFieldText)
		return
	}

	chain, err := s.chains.Chain(r.Context())
	if err != nil {
		log.Error("token add: chain unavailable", "error", err)
		writeError(w, http.StatusBadGateway, TokenAddFailedText)
		return
	}

	tok, err := s.tokens.Add(r.Context(), chain, req.Address)
	if err != nil {
		log.Error("token add failed", "address", req.Address, "error", err)
		writeError(w, http.StatusBadRequest, TokenAddFailedText)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{JSONKeyOK: true, JSONKeyToken: tok})
}

func (s *Server) handleTokenRemove(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, MissingAddressFieldText)
		return
	}

	if err := s.tokens.Remove(r.Context(), req.Address); err != nil {
		log.Warn("token remove failed", "address", req.Address, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, tokens.ErrBuiltinToken) {
			status = http.StatusBadRequest
		}
		writeError(w, status, TokenRemoveFailedText)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{JSONKeyOK: true})
}

// handleTokenBalance answers ?token=<id>&owner=<address>; owner defaults to the
// unlocked wallet.
func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id := strings.TrimSpace(q.Get(JSONKeyToken))
	if id == "" {
		writeError(w, http.StatusBadRequest, MissingTokenParamText)
		return
	}

	var owner common.Address
	if raw := strings.TrimSpace(q.Get("owner")); raw != "" {
		addr, err := parseAddr(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, InvalidOwnerParamText)
			return
		}
		owner = addr
	} else if s.wallet != nil {
		owner = s.wallet.Address()
	} else {
		writeError(w, http.StatusBadRequest, MissingOwnerParamText)
		return
	}

	tok, err := s.tokens.Lookup(id)
	if err != nil {
		log.Warn("balance: unknown token", "token", id, "error", err)
		writeError(w, http.StatusNotFound, TokenBalanceFailedText)
		return
	}

	chain, err := s.chains.Chain(r.Context())
	if err != nil {
		log.Error("balance: chain unavailable", "error", err)
		writeError(w, http.StatusBadGateway, TokenBalanceFailedText)
		return
	}

	bal, err := tokens.BalanceOf(r.Context(), chain, tok, owner)
	if err != nil {
		log.Error("balance fetch failed", "token", tok.Address, "owner", owner.Hex(), "error", err)
		writeError(w, http.StatusBadGateway, TokenBalanceFailedText)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Token:     tok,
		Owner:     owner.Hex(),
		Raw:       bal.String(),
		Formatted: utils.FormatUnitsTrim(bal, tok.Decimals, balanceDisplayDigits),
	})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get(JSONKeyToken))
	if id == "" {
		writeError(w, http.StatusBadRequest, MissingTokenParamText)
		return
	}

	tok, err := s.tokens.Lookup(id)
	if err != nil {
		log.Warn("price: unknown token", "token", id, "error", err)
		writeError(w, http.StatusNotFound, TokenPriceFailedText)
		return
	}

	priceID, err := s.tokens.PriceID(tok)
	if err != nil {
		log.Warn("price: no price id", "symbol", tok.Symbol, "error", err)
		writeError(w, http.StatusNotFound, TokenPriceFailedText)
		return
	}

	p, err := s.prices.Price(r.Context(), priceID)
	if err != nil {
		log.Error("price fetch failed", "id", priceID, "error", err)
		writeError(w, http.StatusBadGateway, TokenPriceFailedText)
		return
	}

	writeJSON(w, http.StatusOK, priceResponse{
		Token:     tok,
		PriceID:   priceID,
		USD:       p.USD,
		Change24h: p.Change24h,
	})
}
