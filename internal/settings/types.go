package settings

type Notifications struct {
	Transactions   bool `json:"transactions"`
	PriceAlerts    bool `json:"priceAlerts"`
	SecurityAlerts bool `json:"securityAlerts"`
	Marketing      bool `json:"marketing"`
}

type Advanced struct {
	// RPCEndpoint overrides the configured RPC URL when non-empty.
	RPCEndpoint         string  `json:"rpcEndpoint"`
	SlippageTolerance   float64 `json:"slippageTolerance"`   // percent
	TransactionDeadline int     `json:"transactionDeadline"` // minutes
	ShowHexData         bool    `json:"showHexData"`
}

// Settings is the single persisted preferences record.
type Settings struct {
	Theme             string        `json:"theme"`
	ColorScheme       string        `json:"colorScheme"`
	Language          string        `json:"language"`
	Currency          string        `json:"currency"`
	SecurityLevel     string        `json:"securityLevel"`
	AutoLockTimeout   int           `json:"autoLockTimeout"` // minutes
	ShowBalances      bool          `json:"showBalances"`
	HideSmallBalances bool          `json:"hideSmallBalances"`
	ShowTestNetworks  bool          `json:"showTestNetworks"`
	BiometricAuth     bool          `json:"biometricAuth"`
	Notifications     Notifications `json:"notifications"`
	Advanced          Advanced      `json:"advanced"`
}

// Defaults returns a fresh copy of the default settings.
func Defaults() Settings {
	return Settings{
		Theme:             "dark",
		ColorScheme:       "blue",
		Language:          "en",
		Currency:          "USD",
		SecurityLevel:     "standard",
		AutoLockTimeout:   15,
		ShowBalances:      true,
		HideSmallBalances: false,
		ShowTestNetworks:  false,
		BiometricAuth:     false,
		Notifications: Notifications{
			Transactions:   true,
			PriceAlerts:    false,
			SecurityAlerts: true,
			Marketing:      false,
		},
		Advanced: Advanced{
			RPCEndpoint:         "",
			SlippageTolerance:   0.5,
			TransactionDeadline: 20,
			ShowHexData:         false,
		},
	}
}
