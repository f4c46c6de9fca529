package money

import "github.com/shopspring/decimal"

// Monetary rounding is round-half-away-from-zero, applied exactly once per
// derived value. Callers must not re-round already rounded figures.

// Round2 rounds to two decimal places.
func Round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

// Round1 rounds to one decimal place (used for optical measurements, not
// currency).
func Round1(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(1).Float64()
	return rounded
}

// PercentOf returns percent% of base, rounded to two decimal places.
func PercentOf(base, percent float64) float64 {
	b := decimal.NewFromFloat(base)
	p := decimal.NewFromFloat(percent)
	result, _ := b.Mul(p).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return result
}

// PercentFrom derives the percentage that amount represents of base, rounded
// to two decimal places. A zero base yields zero rather than a division error.
func PercentFrom(amount, base float64) float64 {
	if base == 0 {
		return 0
	}
	a := decimal.NewFromFloat(amount)
	b := decimal.NewFromFloat(base)
	result, _ := a.Div(b).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return result
}

// Share allocates total proportionally to part/whole, rounded to two decimal
// places.
func Share(total, part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	t := decimal.NewFromFloat(total)
	p := decimal.NewFromFloat(part)
	w := decimal.NewFromFloat(whole)
	result, _ := t.Mul(p).Div(w).Round(2).Float64()
	return result
}
