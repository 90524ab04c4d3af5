package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds a monetary amount to 2 decimal places using decimal
// arithmetic so that repeated runs produce bit-identical values.
func RoundMoney(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()

	return rounded
}

// RoundPrice rounds a price to 4 decimal places.
func RoundPrice(price float64) float64 {
	rounded, _ := decimal.NewFromFloat(price).Round(4).Float64()

	return rounded
}

// CalculateQuantity calculates the whole-share quantity purchasable with the
// given notional budget at the given price. A minimum of 1 share is returned
// for any positive budget and price. This fixed-notional sizing is a
// simplification, not a risk-based sizing model.
func CalculateQuantity(budget float64, price float64) float64 {
	if budget <= 0 || price <= 0 {
		return 0
	}

	quantity := math.Floor(budget / price)
	if quantity < 1 {
		quantity = 1
	}

	return quantity
}
