package service

import "github.com/shopspring/decimal"

// RoundingPrecision is the number of decimal places used for currency values in responses.
const RoundingPrecision = 2

// round rounds a float64 value to RoundingPrecision decimal places, half away from zero.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return roundTo(value, RoundingPrecision)
}

// roundTo rounds value to the given number of decimal places using its shortest
// decimal representation (2.675 rounds to 2.68).
func roundTo(value float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(value).Round(places).Float64()
	return f
}
