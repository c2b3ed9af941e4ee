package http

import "time"

// Generic HTTP / JSON strings
const (
	HTTPErrorMethodNotAllowedText = "method not allowed"
	HTTPErrorInvalidJSONText      = "invalid JSON"
	HTTPErrorForbiddenText        = "forbidden"
	HTTPErrorUnauthorizedText     = "unauthorized"
)

// User-facing failure messages. Details only go to the log.
const (
	SettingsSaveFailedText  = "Failed to save settings"
	TokenBalanceFailedText  = "Failed to fetch token balance"
	TokenPriceFailedText    = "Failed to fetch token price"
	TokenAddFailedText      = "Failed to add token"
	TokenRemoveFailedText   = "Failed to remove token"
	SwapQuoteFailedText     = "Failed to get swap quote"
	SwapFailedText          = "Swap failed"
	WalletLockedText        = "wallet locked"
	MissingTokenParamText   = "missing token"
	MissingOwnerParamText   = "missing owner"
	InvalidOwnerParamText   = "invalid owner"
	MissingAddressFieldText = "missing address"
)

// Common JSON keys
const (
	JSONKeyOK    = "ok"
	JSONKeyError = "error"
	JSONKeyToken = "token"
	JSONKeyQuote = "quote"
)

const (
	DefaultQuoteDebounce = 500 * time.Millisecond
	wsWriteTimeout       = 10 * time.Second
	corsMaxAgeSeconds    = 600
	balanceDisplayDigits = 6
)
