package types

import (
	"fmt"

	"github.com/evtrading/evmarket-gateway/pkg/enums"
)

// VehicleDetails describes an electric vehicle for sale.
type VehicleDetails struct {
	Model     string `json:"model"`
	Color     string `json:"color"`
	Year      int    `json:"year"`
	Condition string `json:"condition"`
}

// BatteryDetails describes a standalone EV battery for sale.
type BatteryDetails struct {
	Capacity   float64 `json:"capacity"`
	Voltage    float64 `json:"voltage"`
	CycleCount int     `json:"cycleCount"`
	Condition  string  `json:"condition"`
}

// Product is the item a listing sells. Exactly one of Vehicle or Battery is
// set, matching Type. The type is fixed at creation; edits may change the
// details but never switch the kind.
type Product struct {
	Type    enums.ProductType `json:"type"`
	Vehicle *VehicleDetails   `json:"vehicle,omitempty"`
	Battery *BatteryDetails   `json:"battery,omitempty"`
}

// Validate checks that the populated detail branch matches Type.
func (p Product) Validate() error {
	switch p.Type {
	case enums.ProductTypeVehicle:
		if p.Vehicle == nil || p.Battery != nil {
			return fmt.Errorf("product: vehicle listing must carry vehicle details only")
		}
	case enums.ProductTypeBattery:
		if p.Battery == nil || p.Vehicle != nil {
			return fmt.Errorf("product: battery listing must carry battery details only")
		}
	default:
		return fmt.Errorf("product: unknown type %q", p.Type)
	}
	return nil
}
