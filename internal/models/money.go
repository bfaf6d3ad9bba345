package models

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Ratio returns num/den, or 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// Amount accumulates money without float drift.
type Amount struct {
	sum decimal.Decimal
}

func (a *Amount) Add(v float64) {
	a.sum = a.sum.Add(decimal.NewFromFloat(v))
}

func (a Amount) Float() float64 {
	return a.sum.InexactFloat64()
}
