// Package units converts distances, weights and temperatures between the
// pairs of units the conversion agent supports.
//
// Only the two directed pairs of each family are accepted. Anything else,
// including converting a unit to itself, fails with ErrUnsupportedConversion.
package units

import (
	"errors"
	"fmt"
)

// Conversion factors.
const (
	KmToMiles = 0.621371
	KgToLbs   = 2.20462
)

// ErrUnsupportedConversion is returned for unit pairs outside the supported set.
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// Unit names a unit of measurement.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "miles"

	Kilograms Unit = "kg"
	Pounds    Unit = "lbs"

	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// ConversionError describes a rejected unit pair.
type ConversionError struct {
	Kind string // "distance", "weight" or "temperature"
	From Unit
	To   Unit
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("Unsupported %s conversion from %s to %s", e.Kind, e.From, e.To)
}

// Unwrap lets errors.Is match ErrUnsupportedConversion.
func (e *ConversionError) Unwrap() error {
	return ErrUnsupportedConversion
}

// Distance converts between kilometers and miles.
func Distance(value float64, from, to Unit) (float64, error) {
	switch {
	case from == Kilometers && to == Miles:
		return value * KmToMiles, nil
	case from == Miles && to == Kilometers:
		return value / KmToMiles, nil
	default:
		return 0, &ConversionError{Kind: "distance", From: from, To: to}
	}
}

// Weight converts between kilograms and pounds.
func Weight(value float64, from, to Unit) (float64, error) {
	switch {
	case from == Kilograms && to == Pounds:
		return value * KgToLbs, nil
	case from == Pounds && to == Kilograms:
		return value / KgToLbs, nil
	default:
		return 0, &ConversionError{Kind: "weight", From: from, To: to}
	}
}

// Temperature converts between Celsius and Fahrenheit.
func Temperature(value float64, from, to Unit) (float64, error) {
	switch {
	case from == Celsius && to == Fahrenheit:
		return value*9/5 + 32, nil
	case from == Fahrenheit && to == Celsius:
		return (value - 32) * 5 / 9, nil
	default:
		return 0, &ConversionError{Kind: "temperature", From: from, To: to}
	}
}
