// Package securefile stores JSON documents encrypted under a password:
// Argon2id derives the key, XChaCha20-Poly1305 seals the payload, and files
// are replaced atomically.
package securefile

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const EnvelopeVersion = 1

// ErrInvalidPasswordOrCorrupt covers every decryption failure.
var ErrInvalidPasswordOrCorrupt = errors.New("invalid password or corrupted file")

// Params are the Argon2id cost parameters stored alongside the ciphertext.
type Params struct {
	Time      uint32 `json:"time"`
	MemoryKiB uint32 `json:"memory_kib"`
	Threads   uint8  `json:"threads"`
	KeyLen    uint32 `json:"key_len"`
}

var DefaultParams = Params{Time: 2, MemoryKiB: 64 * 1024, Threads: 1, KeyLen: chacha20poly1305.KeySize}

const (
	maxTime      = 64
	maxMemoryKiB = 4 * 1024 * 1024
)

// validate bounds the cost parameters before they reach argon2, which
// panics on zero time or threads.
func (p Params) validate() error {
	switch {
	case p.Time == 0 || p.Time > maxTime:
		return errors.Newf("securefile: argon2 time %d out of range", p.Time)
	case p.Threads == 0:
		return errors.New("securefile: argon2 threads is 0")
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxMemoryKiB:
		return errors.Newf("securefile: argon2 memory %d KiB out of range", p.MemoryKiB)
	case p.KeyLen != chacha20poly1305.KeySize:
		return errors.Newf("securefile: key length %d, want %d", p.KeyLen, chacha20poly1305.KeySize)
	}
	return nil
}

// Envelope is the on-disk form.
type Envelope struct {
	Version    int    `json:"version"`
	KDF        Params `json:"kdf"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type Options struct {
	Params        Params
	FilePerm      os.FileMode
	DirectoryPerm os.FileMode

	// AAD binds the ciphertext to a context; it must match on read.
	AAD func(path string) []byte
}

func (o Options) withDefaults() Options {
	if o.Params.KeyLen == 0 {
		o.Params = DefaultParams
	}
	if o.FilePerm == 0 {
		o.FilePerm = 0o600
	}
	if o.DirectoryPerm == 0 {
		o.DirectoryPerm = 0o700
	}
	return o
}

func (o Options) aad(path string) []byte {
	if o.AAD == nil {
		return nil
	}
	return o.AAD(path)
}

// Seal encrypts plain under password.
func Seal(plain, password, aad []byte, p Params) (Envelope, error) {
	if len(password) == 0 {
		return Envelope{}, errors.New("securefile: empty password")
	}
	if err := p.validate(); err != nil {
		return Envelope{}, err
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return Envelope{}, errors.Wrap(err, "salt")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, errors.Wrap(err, "nonce")
	}

	key := argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return Envelope{}, errors.Wrap(err, "aead")
	}

	enc := base64.StdEncoding
	return Envelope{
		Version:    EnvelopeVersion,
		KDF:        p,
		Salt:       enc.EncodeToString(salt),
		Nonce:      enc.EncodeToString(nonce),
		Ciphertext: enc.EncodeToString(aead.Seal(nil, nonce, plain, aad)),
	}, nil
}

// Open decrypts env. Any authentication failure is ErrInvalidPasswordOrCorrupt.
func Open(env Envelope, password, aad []byte) ([]byte, error) {
	if env.Version != EnvelopeVersion {
		return nil, errors.Newf("securefile: unsupported envelope version %d", env.Version)
	}
	if err := env.KDF.validate(); err != nil {
		return nil, errors.Mark(err, ErrInvalidPasswordOrCorrupt)
	}

	enc := base64.StdEncoding
	salt, err := enc.DecodeString(env.Salt)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	nonce, err := enc.DecodeString(env.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	ct, err := enc.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}

	key := argon2.IDKey(password, salt, env.KDF.Time, env.KDF.MemoryKiB, env.KDF.Threads, env.KDF.KeyLen)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	plain, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	return plain, nil
}

// WriteEncryptedJSON marshals v, seals it and atomically replaces path.
func WriteEncryptedJSON[T any](path string, v T, password []byte, opt Options) error {
	o := opt.withDefaults()

	plain, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}
	defer zero(plain)

	env, err := Seal(plain, password, o.aad(path), o.Params)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}

	if err := os.MkdirAll(filepath.Dir(path), o.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	return AtomicWriteFile(path, b, o.FilePerm)
}

// ReadEncryptedJSON opens path and decodes the payload into T. A missing file
// keeps os.ErrNotExist in the chain.
func ReadEncryptedJSON[T any](path string, password []byte, opt Options) (T, error) {
	var out T
	o := opt.withDefaults()

	b, err := os.ReadFile(path)
	if err != nil {
		return out, errors.Wrapf(err, "read %s", path)
	}

	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return out, errors.Wrap(err, "decode envelope")
	}

	plain, err := Open(env, password, o.aad(path))
	if err != nil {
		return out, err
	}
	defer zero(plain)

	if err := json.Unmarshal(plain, &out); err != nil {
		return out, errors.Wrap(err, "decode payload")
	}
	return out, nil
}

// AtomicWriteFile writes data to a sibling temp file and renames it over path.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}

func zero(b []byte) {
	clear(b)
}
