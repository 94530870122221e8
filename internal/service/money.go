package service

import "github.com/shopspring/decimal"

// maxMoney is the first value a NUMERIC(12,2) column can not hold.
var maxMoney = decimal.New(1, 10)

// validMoney reports whether d is stored without rounding: at most two
// decimals and within the column's precision.
func validMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2)) && d.Abs().LessThan(maxMoney)
}
