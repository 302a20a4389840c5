package derive

import "itoffers/services/dashboard/internal/models"

// ClassifyContract labels an offer by which salary means it discloses.
// A mean counts as present only when both bounds of its range were present.
func ClassifyContract(employmentMean, b2bMean *float64) models.ContractType {
	switch {
	case employmentMean != nil && b2bMean != nil:
		return models.ContractBoth
	case b2bMean != nil:
		return models.ContractB2B
	case employmentMean != nil:
		return models.ContractEmployment
	default:
		return models.ContractNone
	}
}
