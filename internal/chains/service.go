package chains

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
)

type Config struct {
	Network string
	ChainID uint64
	RPCURL  string
}

// RPCOverride returns a user-chosen RPC URL, or "" to use the configured one.
type RPCOverride func(ctx context.Context) string

type dialFunc func(ctx context.Context, url string) (*ethclient.Client, error)

// Service hands out RPC clients for the effective endpoint, caching one client per URL.
type Service struct {
	cfg      Config
	override RPCOverride
	dial     dialFunc

	mu      sync.Mutex
	clients map[string]*ethclient.Client
}

func NewService(cfg Config, override RPCOverride) (*Service, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, errors.New("chains: rpc url is empty")
	}
	if cfg.ChainID == 0 {
		return nil, errors.New("chains: chain id is 0")
	}
	return &Service{
		cfg:      cfg,
		override: override,
		dial:     ethclient.DialContext,
		clients:  make(map[string]*ethclient.Client),
	}, nil
}

func (s *Service) Network() string { return s.cfg.Network }

func (s *Service) ChainID() *big.Int { return new(big.Int).SetUint64(s.cfg.ChainID) }

// ActiveRPC returns the URL Client would dial.
func (s *Service) ActiveRPC(ctx context.Context) string {
	if s.override != nil {
		if u := strings.TrimSpace(s.override(ctx)); u != "" {
			return u
		}
	}
	return s.cfg.RPCURL
}

// Client returns (and caches) the client for the active RPC URL.
func (s *Service) Client(ctx context.Context) (*ethclient.Client, error) {
	url := s.ActiveRPC(ctx)

	s.mu.Lock()
	if existing := s.clients[url]; existing != nil {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	// Dial outside the lock (avoid blocking concurrent readers)
	dialed, err := s.dial(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s rpc", s.cfg.Network)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.clients[url]; existing != nil {
		// We raced; close what we just dialed and return existing
		dialed.Close()
		return existing, nil
	}
	s.clients[url] = dialed
	return dialed, nil
}

// VerifyChainID checks the active endpoint serves the configured chain.
func (s *Service) VerifyChainID(ctx context.Context) error {
	c, err := s.Client(ctx)
	if err != nil {
		return err
	}
	got, err := c.ChainID(ctx)
	if err != nil {
		return errors.Wrap(err, "chain id")
	}
	if got.Cmp(s.ChainID()) != 0 {
		return errors.Newf("rpc serves chain %s, expected %d", got.String(), s.cfg.ChainID)
	}
	return nil
}

// Close closes all cached clients (call on shutdown).
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for url, c := range s.clients {
		c.Close()
		delete(s.clients, url)
	}
}
