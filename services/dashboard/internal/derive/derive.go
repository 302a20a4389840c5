package derive

import (
	"itoffers/services/dashboard/internal/models"
)

// Apply returns a copy of table with every derived column recomputed from the
// source columns. Previously derived values are ignored, so applying it twice
// yields the same result as applying it once.
func Apply(table *models.Table) *models.Table {
	out := table.Clone()
	for i := range out.Offers {
		DeriveOffer(&out.Offers[i])
	}
	return out
}

// DeriveOffer fills the derived columns of one offer in place.
func DeriveOffer(o *models.Offer) {
	o.SalaryEmploymentMean = Midpoint(o.SalaryEmployment)
	o.SalaryB2BMean = Midpoint(o.SalaryB2B)
	o.ContractType = ClassifyContract(o.SalaryEmploymentMean, o.SalaryB2BMean)
	o.CompanySizeBucket = CompanySizeBucket(o.CompanySize)
	o.IsRemote = RemoteFlag(o.Location)
}
