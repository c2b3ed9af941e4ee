package settings

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Theme             *string             `json:"theme,omitempty"`
	ColorScheme       *string             `json:"colorScheme,omitempty"`
	Language          *string             `json:"language,omitempty"`
	Currency          *string             `json:"currency,omitempty"`
	SecurityLevel     *string             `json:"securityLevel,omitempty"`
	AutoLockTimeout   *int                `json:"autoLockTimeout,omitempty"`
	ShowBalances      *bool               `json:"showBalances,omitempty"`
	HideSmallBalances *bool               `json:"hideSmallBalances,omitempty"`
	ShowTestNetworks  *bool               `json:"showTestNetworks,omitempty"`
	BiometricAuth     *bool               `json:"biometricAuth,omitempty"`
	Notifications     *NotificationsPatch `json:"notifications,omitempty"`
	Advanced          *AdvancedPatch      `json:"advanced,omitempty"`
}

type NotificationsPatch struct {
	Transactions   *bool `json:"transactions,omitempty"`
	PriceAlerts    *bool `json:"priceAlerts,omitempty"`
	SecurityAlerts *bool `json:"securityAlerts,omitempty"`
	Marketing      *bool `json:"marketing,omitempty"`
}

type AdvancedPatch struct {
	RPCEndpoint         *string  `json:"rpcEndpoint,omitempty"`
	SlippageTolerance   *float64 `json:"slippageTolerance,omitempty"`
	TransactionDeadline *int     `json:"transactionDeadline,omitempty"`
	ShowHexData         *bool    `json:"showHexData,omitempty"`
}

// Apply merges p onto s. Top-level fields replace; notifications and advanced
// merge field by field.
func (p Patch) Apply(s Settings) Settings {
	set(&s.Theme, p.Theme)
	set(&s.ColorScheme, p.ColorScheme)
	set(&s.Language, p.Language)
	set(&s.Currency, p.Currency)
	set(&s.SecurityLevel, p.SecurityLevel)
	set(&s.AutoLockTimeout, p.AutoLockTimeout)
	set(&s.ShowBalances, p.ShowBalances)
	set(&s.HideSmallBalances, p.HideSmallBalances)
	set(&s.ShowTestNetworks, p.ShowTestNetworks)
	set(&s.BiometricAuth, p.BiometricAuth)

	if n := p.Notifications; n != nil {
		set(&s.Notifications.Transactions, n.Transactions)
		set(&s.Notifications.PriceAlerts, n.PriceAlerts)
		set(&s.Notifications.SecurityAlerts, n.SecurityAlerts)
		set(&s.Notifications.Marketing, n.Marketing)
	}

	if a := p.Advanced; a != nil {
		set(&s.Advanced.RPCEndpoint, a.RPCEndpoint)
		set(&s.Advanced.SlippageTolerance, a.SlippageTolerance)
		set(&s.Advanced.TransactionDeadline, a.TransactionDeadline)
		set(&s.Advanced.ShowHexData, a.ShowHexData)
	}

	return s
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
