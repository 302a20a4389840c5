package derive

import (
	"math"
	"strconv"

	"itoffers/services/dashboard/internal/models"
)

const companySizeCap = 10000

// CompanySizeBucket caps the size at 10000 and renders it as "<n>+".
func CompanySizeBucket(size *float64) *string {
	if size == nil || math.IsNaN(*size) {
		return nil
	}
	capped := math.RoundToEven(math.Min(*size, companySizeCap))
	bucket := strconv.FormatFloat(capped, 'f', 0, 64) + "+"
	return &bucket
}

// RemoteFlag collapses a location into Remote or Non Remote.
func RemoteFlag(location string) string {
	if location == models.LocationRemote {
		return location
	}
	return models.NonRemote
}
