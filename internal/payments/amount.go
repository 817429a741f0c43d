package payments

import "github.com/shopspring/decimal"

// MinorUnits converts a major-unit amount (e.g. 150.00) to the minor units
// the processor expects (15000). decimal avoids the float rounding that a
// plain *100 would hit on amounts like 19.99.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
