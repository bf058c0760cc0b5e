package domain

import "strings"

const kgToLb = 2.2046226218

// Weight units accepted on input. Weights are always stored in kilograms.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

// ConvertWeight converts a weight value between "kg" and "lb".
// Returns v unchanged if from == to or if the units are unrecognised.
func ConvertWeight(v float64, from, to string) float64 {
	if from == to {
		return v
	}
	if from == UnitKg && to == UnitLb {
		return v * kgToLb
	}
	if from == UnitLb && to == UnitKg {
		return v / kgToLb
	}
	return v
}

// ToKilograms converts v given in unit to kilograms. An empty unit means kg.
func ToKilograms(v float64, unit string) (float64, error) {
	switch u := strings.ToLower(strings.TrimSpace(unit)); u {
	case "", UnitKg:
		return v, nil
	case UnitLb:
		return ConvertWeight(v, UnitLb, UnitKg), nil
	default:
		return 0, Invalid("weightUnit", "unknown unit %q", unit)
	}
}
