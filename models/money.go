package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places every amount is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to two places. All amounts are
// non-negative in practice, so this is round-half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
