package workflow

import "github.com/vdh-servicedesk/backend/internal/models"

// MilesUsed is the odometer delta for a completed trip. A returning reading
// below the starting one is rejected before anything is stored.
func MilesUsed(starting, returning int64) (int64, error) {
	if returning < starting {
		return 0, &ValidationError{Field: "returning_mileage", Msg: "is less than starting mileage"}
	}
	return returning - starting, nil
}

// MilesUntilService counts down from the service interval as the odometer
// moves past the last service point. Zero or negative means service is due.
func MilesUntilService(interval, currentMileage, lastServiceMileage int64) int64 {
	return interval - (currentMileage - lastServiceMileage)
}

// VehicleAvailable reports whether a vehicle can be offered for dispatch.
// A vehicle past its service point never is, whatever its status says.
func VehicleAvailable(v models.Vehicle) bool {
	if v.MilesUntilService <= 0 {
		return false
	}
	return v.Status == models.VehicleAvailable && v.CurrentTripID == nil
}
