package constants

const (
	AppName        = "quantum-wallet"
	WalletFile     = "wallet.json"
	KVDirectory    = "store"
	SQLiteFile     = "wallet.db"
	SettingsKey    = "settings"
	CustomTokenKey = "tokens.custom"

	SchemaV1      = 1
	FilePerm      = 0o600
	DirectoryPerm = 0o700

	// NativeSymbol identifies the chain's native asset wherever a token address is expected.
	NativeSymbol = "ETH"
	NativeAddr   = "0x0000000000000000000000000000000000000000"

	// Mainnet Uniswap V2 router and wrapped ether.
	RouterAddress = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
	WETHAddress   = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"

	// AAD for the wallet key envelope (must match on decrypt).
	WalletAAD = "quantum-wallet:userwallet:v1"

	SessionHeader = "X-QW-Session"
)
