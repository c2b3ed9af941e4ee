package config

import (
	"bytes"
	_ "embed"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/quantumauth-io/quantum-wallet/internal/constants"
	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
)

//go:embed config.yaml
var EmbeddedConfigYAML []byte

const EnvPrefix = "QW"

type ClientSettings struct {
	LocalHost      string
	Port           string
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver string
	Path   string
}

type PricesConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

type EthereumConfig struct {
	Network string
	ChainID uint64
	RPCURL  string
	Router  string
	WETH    string
}

type QuoteConfig struct {
	DebounceMs int
}

type WalletConfig struct {
	Path string
}

type Config struct {
	ClientSettings *ClientSettings
	Storage        StorageConfig
	Prices         PricesConfig
	Ethereum       EthereumConfig
	Quote          QuoteConfig
	Wallet         WalletConfig
}

func DefaultPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".config", constants.AppName),
		filepath.Join(home, "config"),
		".",
	}
}

func Load() (*Config, error) {
	return LoadFrom(DefaultPaths())
}

// LoadFrom layers the embedded defaults, the first config.yaml found in paths,
// and QW_* environment variables, in that order.
func LoadFrom(paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(EmbeddedConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "merge config file")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize trims values, fills defaults and canonicalizes addresses.
func (c *Config) Normalize() error {
	if c.ClientSettings == nil {
		c.ClientSettings = &ClientSettings{}
	}
	cs := c.ClientSettings

	cs.LocalHost = strings.TrimSpace(cs.LocalHost)
	if cs.LocalHost == "" {
		cs.LocalHost = "127.0.0.1"
	}
	if ip := net.ParseIP(cs.LocalHost); ip != nil && !ip.IsLoopback() {
		return errors.Newf("ClientSettings.LocalHost must be a loopback address, got %q", cs.LocalHost)
	}

	cs.Port = strings.TrimSpace(cs.Port)
	if cs.Port == "" {
		cs.Port = "6138"
	}
	if n, err := strconv.Atoi(cs.Port); err != nil || n <= 0 || n > 65535 {
		return errors.Newf("ClientSettings.Port invalid: %q", cs.Port)
	}

	origins := make([]string, 0, len(cs.AllowedOrigins))
	seen := map[string]struct{}{}
	for _, raw := range cs.AllowedOrigins {
		o := strings.TrimSpace(raw)
		if o == "" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Newf("ClientSettings.AllowedOrigins invalid origin: %q", raw)
		}
		o = strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		origins = append(origins, o)
	}
	cs.AllowedOrigins = origins

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = kvstore.DriverSQLite
	case kvstore.DriverFile, kvstore.DriverSQLite, kvstore.DriverMemory:
	default:
		return errors.Newf("Storage.Driver unknown: %q", c.Storage.Driver)
	}
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)

	c.Prices.BaseURL = strings.TrimRight(strings.TrimSpace(c.Prices.BaseURL), "/")
	c.Prices.APIKey = strings.TrimSpace(c.Prices.APIKey)
	if c.Prices.TimeoutSeconds <= 0 {
		c.Prices.TimeoutSeconds = 10
	}

	eth := &c.Ethereum
	eth.Network = strings.ToLower(strings.TrimSpace(eth.Network))
	if eth.Network == "" {
		eth.Network = "mainnet"
	}
	if eth.ChainID == 0 {
		eth.ChainID = 1
	}
	eth.RPCURL = strings.TrimSpace(eth.RPCURL)
	if eth.RPCURL == "" {
		return errors.New("Ethereum.RPCURL is required")
	}

	var err error
	if eth.Router, err = canonicalAddress("Ethereum.Router", eth.Router, constants.RouterAddress); err != nil {
		return err
	}
	if eth.WETH, err = canonicalAddress("Ethereum.WETH", eth.WETH, constants.WETHAddress); err != nil {
		return err
	}

	if c.Quote.DebounceMs <= 0 {
		c.Quote.DebounceMs = 500
	}
	c.Wallet.Path = strings.TrimSpace(c.Wallet.Path)
	return nil
}

func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.ClientSettings.LocalHost, c.ClientSettings.Port)
}

func (c *Config) PriceTimeout() time.Duration {
	return time.Duration(c.Prices.TimeoutSeconds) * time.Second
}

func (c *Config) QuoteDebounce() time.Duration {
	return time.Duration(c.Quote.DebounceMs) * time.Millisecond
}

func canonicalAddress(field, raw, def string) (string, error) {
	a := strings.TrimSpace(raw)
	if a == "" {
		a = def
	}
	if !strings.HasPrefix(a, "0x") && !strings.HasPrefix(a, "0X") {
		a = "0x" + a
	}
	if !common.IsHexAddress(a) {
		return "", errors.Newf("%s invalid address: %q", field, raw)
	}
	// canonical form: checksummed hex string
	return common.HexToAddress(a).Hex(), nil
}
