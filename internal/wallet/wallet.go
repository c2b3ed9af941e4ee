package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/securefile"
)

var (
	ErrNoWallet     = errors.New("wallet: no wallet file")
	ErrWalletExists = errors.New("wallet: wallet file already exists")
)

// keyFile is the plaintext inside the encrypted envelope.
type keyFile struct {
	Version    int    `json:"version"`
	AddressHex string `json:"address"`
	PrivKeyHex string `json:"priv_key_hex"`
	CreatedAt  string `json:"created_at,omitempty"` // RFC3339
}

// Wallet is an unlocked signing key.
type Wallet struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

func (w *Wallet) Address() common.Address { return w.address }

// TransactOpts returns signer options bound to chainID.
func (w *Wallet) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "keyed transactor")
	}
	opts.Context = ctx
	return opts, nil
}

type Store struct {
	Path string
	Opt  securefile.Options
}

// NewStore sets up a wallet store at path, or the canonical config path when path is empty.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		p, err := securefile.ResolvePath(constants.AppName, constants.WalletFile)
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &Store{
		Path: path,
		Opt: securefile.Options{
			// IMPORTANT: keep this identical for read + write.
			AAD: func(_ string) []byte { return []byte(constants.WalletAAD) },
		},
	}, nil
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Create generates a new key and persists it encrypted with password.
func (s *Store) Create(password []byte) (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return s.save(key, password)
}

// Import persists an existing hex private key encrypted with password.
func (s *Store) Import(privHex string, password []byte) (*Wallet, error) {
	privHex = strings.TrimSpace(privHex)
	privHex = strings.TrimPrefix(strings.TrimPrefix(privHex, "0x"), "0X")

	key, err := crypto.HexToECDSA(privHex)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return s.save(key, password)
}

// Unlock decrypts the wallet file.
func (s *Store) Unlock(password []byte) (*Wallet, error) {
	kf, err := securefile.ReadEncryptedJSON[keyFile](s.Path, password, s.Opt)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoWallet
		}
		return nil, errors.Wrapf(err, "load wallet %s", s.Path)
	}

	key, err := crypto.HexToECDSA(kf.PrivKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}

	addr := crypto.PubkeyToAddress(key.PublicKey)
	if kf.AddressHex != "" && !strings.EqualFold(kf.AddressHex, addr.Hex()) {
		return nil, errors.New("wallet: address does not match key")
	}
	return &Wallet{address: addr, key: key}, nil
}

func (s *Store) save(key *ecdsa.PrivateKey, password []byte) (*Wallet, error) {
	if s.Exists() {
		return nil, ErrWalletExists
	}

	addr := crypto.PubkeyToAddress(key.PublicKey)
	kf := keyFile{
		Version:    constants.SchemaV1,
		AddressHex: addr.Hex(),
		PrivKeyHex: common.Bytes2Hex(crypto.FromECDSA(key)),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := securefile.WriteEncryptedJSON(s.Path, kf, password, s.Opt); err != nil {
		return nil, errors.Wrap(err, "write wallet")
	}
	return &Wallet{address: addr, key: key}, nil
}
