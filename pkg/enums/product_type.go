package enums

import (
	"fmt"
	"strings"
)

// ProductType discriminates the kind of item a listing sells. The type is
// fixed at listing creation and never changes across edits.
type ProductType string

const (
	ProductTypeVehicle ProductType = "VEHICLE"
	ProductTypeBattery ProductType = "BATTERY"
)

var validProductTypes = []ProductType{
	ProductTypeVehicle,
	ProductTypeBattery,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType. Matching is
// case-insensitive.
func ParseProductType(value string) (ProductType, error) {
	normalized := ProductType(strings.ToUpper(strings.TrimSpace(value)))
	for _, candidate := range validProductTypes {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
