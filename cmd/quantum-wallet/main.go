package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"

	walletconfig "github.com/quantumauth-io/quantum-wallet/cmd/quantum-wallet/config"
	"github.com/quantumauth-io/quantum-wallet/internal/chains"
	"github.com/quantumauth-io/quantum-wallet/internal/helpers"
	wallethttp "github.com/quantumauth-io/quantum-wallet/internal/http"
	"github.com/quantumauth-io/quantum-wallet/internal/kvstore"
	"github.com/quantumauth-io/quantum-wallet/internal/prices"
	"github.com/quantumauth-io/quantum-wallet/internal/quote"
	"github.com/quantumauth-io/quantum-wallet/internal/settings"
	"github.com/quantumauth-io/quantum-wallet/internal/swap"
	"github.com/quantumauth-io/quantum-wallet/internal/tokens"
	"github.com/quantumauth-io/quantum-wallet/internal/wallet"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const usage = `usage: quantum-wallet [command]

commands:
  serve          run the local wallet API (default)
  init-wallet    create a new encrypted wallet key
  import-wallet  import a hex private key (read from QW_IMPORT_KEY or stdin prompt)
  version        print build info
`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		serve()
	case "init-wallet":
		initWallet()
	case "import-wallet":
		importWallet()
	case "version":
		fmt.Printf("quantum-wallet %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func serve() {
	log.Info("quantum-wallet",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := walletconfig.Load()
	if err != nil {
		log.Fatal("failed to parse config", "error", err)
	}

	kv, err := kvstore.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.Storage.Driver, "error", err)
		return
	}
	defer func() {
		if err = kv.Close(); err != nil {
			log.Error("storage close failed", "error", err)
		}
	}()

	sheet := settings.NewSheet()
	settingsStore := settings.NewStore(kv, sheet)
	settingsStore.ApplyCurrent(ctx)

	registry := tokens.NewRegistry(kv, nil)
	if err = registry.Load(ctx); err != nil {
		log.Warn("custom tokens not loaded", "error", err)
	}

	chainService, err := chains.NewService(chains.Config{
		Network: cfg.Ethereum.Network,
		ChainID: cfg.Ethereum.ChainID,
		RPCURL:  cfg.Ethereum.RPCURL,
	}, func(ctx context.Context) string {
		return settingsStore.Get(ctx).Advanced.RPCEndpoint
	})
	if err != nil {
		log.Error("chain service init failed", "error", err)
		return
	}
	defer chainService.Close()

	go func() {
		vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := chainService.VerifyChainID(vctx); err != nil {
			log.Warn("rpc chain id check failed", "rpc", chainService.ActiveRPC(vctx), "error", err)
		}
	}()

	priceClient := prices.NewClient(prices.Config{
		BaseURL: cfg.Prices.BaseURL,
		APIKey:  cfg.Prices.APIKey,
		Timeout: cfg.PriceTimeout(),
	})

	estimator := quote.NewEstimator(priceClient, registry, func(ctx context.Context) float64 {
		return settingsStore.Get(ctx).Advanced.SlippageTolerance
	})

	executor := swap.NewExecutor(swap.Config{
		Router:  common.HexToAddress(cfg.Ethereum.Router),
		WETH:    common.HexToAddress(cfg.Ethereum.WETH),
		ChainID: chainService.ChainID(),
	}, registry)

	signer, err := unlockWallet(cfg.Wallet.Path)
	if err != nil {
		log.Error("wallet unlock failed", "error", err)
		return
	}

	handler, err := wallethttp.NewServer(wallethttp.Options{
		Settings:       settingsStore,
		Sheet:          sheet,
		Tokens:         registry,
		Prices:         priceClient,
		Quotes:         estimator,
		Swaps:          executor,
		Chains:         wallethttp.NewChainSource(chainService),
		Wallet:         signer,
		ChainID:        chainService.ChainID(),
		AllowedOrigins: cfg.ClientSettings.AllowedOrigins,
		QuoteDebounce:  cfg.QuoteDebounce(),
	})
	if err != nil {
		log.Error("http server init failed", "error", err)
		return
	}

	addr := cfg.ListenAddr()
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			stop()
		}
	}()
	handler.LogSession(addr)

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	} else {
		log.Info("HTTP server gracefully stopped")
	}
}

// unlockWallet returns nil when no wallet file exists yet; the API then runs
// without signing routes.
func unlockWallet(path string) (swap.Signer, error) {
	store, err := wallet.NewStore(path)
	if err != nil {
		return nil, err
	}
	if !store.Exists() {
		log.Warn("no wallet found; swaps disabled until one is created", "path", store.Path)
		return nil, nil
	}

	pw, err := helpers.WalletPassword("Wallet password: ")
	if err != nil {
		return nil, err
	}
	defer helpers.ZeroBytes(pw)

	w, err := store.Unlock(pw)
	if err != nil {
		return nil, err
	}
	log.Info("wallet unlocked", "address", w.Address().Hex())
	return w, nil
}

func loadWalletStore() *wallet.Store {
	cfg, err := walletconfig.Load()
	if err != nil {
		log.Fatal("failed to parse config", "error", err)
	}
	store, err := wallet.NewStore(cfg.Wallet.Path)
	if err != nil {
		log.Fatal("wallet path", "error", err)
	}
	return store
}

func initWallet() {
	store := loadWalletStore()

	pw, err := helpers.WalletPassword("New wallet password: ")
	if err != nil {
		log.Fatal("password", "error", err)
	}
	defer helpers.ZeroBytes(pw)

	w, err := store.Create(pw)
	if err != nil {
		log.Fatal("create wallet failed", "error", err)
	}
	log.Info("wallet created", "address", w.Address().Hex(), "path", store.Path)
}

func importWallet() {
	store := loadWalletStore()

	key := os.Getenv("QW_IMPORT_KEY")
	if key == "" {
		raw, err := helpers.PromptSecret("Private key (hex): ")
		if err != nil {
			log.Fatal("private key", "error", err)
		}
		key = string(raw)
		helpers.ZeroBytes(raw)
	}

	pw, err := helpers.WalletPassword("New wallet password: ")
	if err != nil {
		log.Fatal("password", "error", err)
	}
	defer helpers.ZeroBytes(pw)

	w, err := store.Import(key, pw)
	if err != nil {
		log.Fatal("import wallet failed", "error", err)
	}
	log.Info("wallet imported", "address", w.Address().Hex(), "path", store.Path)
}
