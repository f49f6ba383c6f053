package utils

import "strings"

const (
	VehicleTwoWheeler  = "two-wheeler"
	VehicleFourWheeler = "four-wheeler"
)

// NormalizeVehicleType lowercases the name and maps the aliases used by older
// clients onto the two slot pools. Unknown names are returned lowercased.
func NormalizeVehicleType(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "two_wheeler", "twowheeler", "bike", "motorcycle", "scooter":
		return VehicleTwoWheeler
	case "four_wheeler", "fourwheeler", "car", "suv":
		return VehicleFourWheeler
	}
	return name
}

func IsValidVehicleType(name string) bool {
	return name == VehicleTwoWheeler || name == VehicleFourWheeler
}

// VehicleTypeLabel returns the display name of a slot pool.
func VehicleTypeLabel(name string) string {
	if name == VehicleTwoWheeler {
		return "Two Wheeler"
	}
	return "Four Wheeler"
}

// ApplyVehicleDiscount scales a price for the given pool. Two-wheelers pay
// (1 - discount) of the standard amount; discount is a fraction in [0,1].
func ApplyVehicleDiscount(amount float64, vehicleType string, discount float64) float64 {
	if vehicleType != VehicleTwoWheeler {
		return amount
	}
	if discount < 0 {
		discount = 0
	}
	if discount > 1 {
		discount = 1
	}
	return amount * (1 - discount)
}
