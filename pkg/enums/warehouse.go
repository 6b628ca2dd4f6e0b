package enums

import "fmt"

// WarehouseLocation identifies which of the two warehouses holds a product.
type WarehouseLocation string

const (
	WarehouseLocationFanLing WarehouseLocation = "FanLing"
	WarehouseLocationMongkok WarehouseLocation = "Mongkok"
)

var validWarehouseLocations = []WarehouseLocation{
	WarehouseLocationFanLing,
	WarehouseLocationMongkok,
}

// String implements fmt.Stringer.
func (w WarehouseLocation) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WarehouseLocation.
func (w WarehouseLocation) IsValid() bool {
	for _, candidate := range validWarehouseLocations {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWarehouseLocation converts raw input into a WarehouseLocation.
func ParseWarehouseLocation(value string) (WarehouseLocation, error) {
	for _, candidate := range validWarehouseLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse location %q", value)
}
