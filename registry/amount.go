package registry

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a display amount such as "10.5" into the asset's
// smallest-unit integer string, "10500000" at six decimals. Values carrying
// more precision than the asset supports are rejected rather than rounded.
func ToBaseUnits(value string, decimals int) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("amount %q is negative", value)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return "", fmt.Errorf("amount %q exceeds %d decimal places", value, decimals)
	}
	return shifted.String(), nil
}

// FromBaseUnits renders a base-unit integer string in display units.
func FromBaseUnits(value string, decimals int) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("invalid base amount %q: %w", value, err)
	}
	if d.IsNegative() || !d.IsInteger() {
		return "", fmt.Errorf("base amount %q is not an unsigned integer", value)
	}
	return d.Shift(int32(-decimals)).String(), nil
}
