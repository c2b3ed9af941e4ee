package tokens

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
)

var (
	ErrUnknownToken = errors.New("tokens: unknown token")
	ErrBuiltinToken = errors.New("tokens: built-in tokens cannot be removed")
)

// Registry resolves token identifiers against the built-in list and the
// user-added tokens persisted in the kv store.
type Registry struct {
	mu       sync.RWMutex
	kv       kvstore.Store
	builtins []Token
	custom   map[string]Token // checksummed address -> token
	prices   *PriceIDTable
}

func NewRegistry(kv kvstore.Store, prices *PriceIDTable) *Registry {
	if prices == nil {
		prices = DefaultPriceIDs()
	}
	return &Registry{
		kv:       kv,
		builtins: Builtins(),
		custom:   map[string]Token{},
		prices:   prices,
	}
}

// Load reads the custom token list. A missing list is not an error.
func (r *Registry) Load(ctx context.Context) error {
	raw, err := r.kv.Get(ctx, constants.CustomTokenKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read custom tokens")
	}

	var f customFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return errors.Wrap(err, "unmarshal custom tokens")
	}

	custom := make(map[string]Token, len(f.Tokens))
	for _, t := range f.Tokens {
		addr, err := normalizeAddress(t.Address)
		if err != nil {
			log.Warn("tokens: skipping bad custom entry", "address", t.Address, "error", err)
			continue
		}
		t.Address = addr
		custom[addr] = t
	}

	r.mu.Lock()
	r.custom = custom
	r.mu.Unlock()
	return nil
}

// List returns built-ins followed by custom tokens, each group sorted by symbol.
func (r *Registry) List() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Token, 0, len(r.builtins)+len(r.custom))
	out = append(out, r.builtins...)

	custom := make([]Token, 0, len(r.custom))
	for _, t := range r.custom {
		custom = append(custom, t)
	}
	// stable for UI
	sort.Slice(custom, func(i, j int) bool {
		return strings.ToLower(custom[i].Symbol) < strings.ToLower(custom[j].Symbol)
	})
	return append(out, custom...)
}

// Lookup resolves "ETH", a contract address, or a known symbol.
func (r *Registry) Lookup(id string) (Token, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Token{}, errors.Wrap(ErrUnknownToken, "empty id")
	}
	if strings.EqualFold(id, constants.NativeSymbol) || strings.EqualFold(id, constants.NativeAddr) {
		return Native, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if addr, err := normalizeAddress(id); err == nil {
		for _, t := range r.builtins {
			if t.Address == addr {
				return t, nil
			}
		}
		if t, ok := r.custom[addr]; ok {
			return t, nil
		}
		return Token{}, errors.Wrapf(ErrUnknownToken, "%s", addr)
	}

	if sym, ok := ParseSymbol(id); ok {
		for _, t := range r.builtins {
			if t.Symbol == string(sym) {
				return t, nil
			}
		}
	}
	return Token{}, errors.Wrapf(ErrUnknownToken, "%q", id)
}

// PriceID returns the price-API id for t. Only built-in tokens are priced;
// a custom contract reporting a known symbol gets ErrNoPriceID.
func (r *Registry) PriceID(t Token) (string, error) {
	for _, b := range r.builtins {
		if strings.EqualFold(b.Address, t.Address) {
			return r.prices.PriceID(b.Symbol)
		}
	}
	return "", errors.Wrapf(ErrNoPriceID, "%s", t.Address)
}

// Add fetches the token's metadata once from its contract and persists it.
func (r *Registry) Add(ctx context.Context, caller bind.ContractCaller, address string) (Token, error) {
	addr, err := normalizeAddress(address)
	if err != nil {
		return Token{}, err
	}

	if t, err := r.Lookup(addr); err == nil {
		return t, nil
	}

	t, err := FetchToken(ctx, caller, common.HexToAddress(addr))
	if err != nil {
		return Token{}, errors.Wrapf(err, "fetch token %s", addr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.custom[t.Address] = t
	if err := r.persistLocked(ctx); err != nil {
		delete(r.custom, t.Address)
		return Token{}, err
	}
	return t, nil
}

// Remove deletes a custom token. Removing an unknown custom token is a no-op.
func (r *Registry) Remove(ctx context.Context, address string) error {
	addr, err := normalizeAddress(address)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.builtins {
		if t.Address == addr {
			return ErrBuiltinToken
		}
	}

	prev, ok := r.custom[addr]
	if !ok {
		return nil
	}
	delete(r.custom, addr)
	if err := r.persistLocked(ctx); err != nil {
		r.custom[addr] = prev
		return err
	}
	return nil
}

func (r *Registry) persistLocked(ctx context.Context) error {
	f := customFile{Schema: constants.SchemaV1, Tokens: make([]Token, 0, len(r.custom))}
	for _, t := range r.custom {
		f.Tokens = append(f.Tokens, t)
	}
	sort.Slice(f.Tokens, func(i, j int) bool { return f.Tokens[i].Address < f.Tokens[j].Address })

	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal custom tokens")
	}
	if err := r.kv.Set(ctx, constants.CustomTokenKey, b); err != nil {
		return errors.Wrap(err, "persist custom tokens")
	}
	return nil
}

// normalizeAddress => checksummed canonical form
func normalizeAddress(addr string) (string, error) {
	a := strings.TrimSpace(addr)
	if a == "" {
		return "", errors.New("empty address")
	}
	if !strings.HasPrefix(a, "0x") && !strings.HasPrefix(a, "0X") {
		a = "0x" + a
	}
	a = strings.ToLower(a)
	if !common.IsHexAddress(a) {
		return "", errors.Newf("invalid address: %q", addr)
	}
	return common.HexToAddress(a).Hex(), nil
}
