package derive

import (
	"fmt"
	"math"

	"itoffers/services/dashboard/internal/models"
)

// Midpoint is the point estimate of a range: min*0.5 + max*0.5 rounded half
// to even. It is nil unless both bounds are present. Inverted ranges are not
// rejected.
func Midpoint(r models.SalaryRange) *float64 {
	if !r.Complete() {
		return nil
	}
	mean := math.RoundToEven(*r.Min*0.5 + *r.Max*0.5)
	return &mean
}

// BothPolicy decides how the two means of a "both" offer reduce to one figure.
type BothPolicy string

const (
	// BothPolicyZeroFill treats a missing mean as 0 and averages the two sides.
	BothPolicyZeroFill BothPolicy = "zero-fill"
	// BothPolicySkipMissing averages only the means that are present.
	BothPolicySkipMissing BothPolicy = "skip-missing"
)

func ParseBothPolicy(s string) (BothPolicy, error) {
	switch BothPolicy(s) {
	case "", BothPolicyZeroFill:
		return BothPolicyZeroFill, nil
	case BothPolicySkipMissing:
		return BothPolicySkipMissing, nil
	}
	return "", fmt.Errorf("unknown both-salary policy %q", s)
}

// ComparableSalary returns one salary figure per offer, chosen by its contract
// type. Offers of type none have no figure.
func ComparableSalary(o *models.Offer, policy BothPolicy) (float64, bool) {
	switch o.ContractType {
	case models.ContractB2B:
		return value(o.SalaryB2BMean)
	case models.ContractEmployment:
		return value(o.SalaryEmploymentMean)
	case models.ContractBoth:
		if policy == BothPolicySkipMissing {
			return averagePresent(o.SalaryB2BMean, o.SalaryEmploymentMean)
		}
		return (zeroIfNil(o.SalaryB2BMean) + zeroIfNil(o.SalaryEmploymentMean)) / 2, true
	}
	return 0, false
}

func averagePresent(values ...*float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func value(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func zeroIfNil(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
