// Package utils converts between on-chain base units and human amounts.
package utils

import (
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// FormatUnitsTrim renders base units as a human amount with at most maxFrac
// fractional digits, truncated, trailing zeros removed.
//
//	1234500000000000000, 18, 6 -> "1.2345"
//	1, 18, 6                   -> "0"
func FormatUnitsTrim(amount *big.Int, decimals uint8, maxFrac int) string {
	if maxFrac < 0 {
		maxFrac = 0
	}
	return ToDecimal(amount, decimals).Truncate(int32(maxFrac)).String()
}

// ParseUnits converts a human amount into base units, truncating any
// precision beyond decimals.
func ParseUnits(amount decimal.Decimal, decimals uint8) (*big.Int, error) {
	if amount.IsNegative() {
		return nil, errors.Newf("negative amount %s", amount.String())
	}
	return amount.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// ToDecimal converts base units into a human amount.
func ToDecimal(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}
