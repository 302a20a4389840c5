package aggregate

import (
	"fmt"
	"math"
	"sort"

	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/sampling"
)

// SalaryGroup is a set of monthly salary figures sharing one label.
type SalaryGroup struct {
	Group     string    `json:"group"`
	Values    []float64 `json:"values"`
	Median    float64   `json:"median"`
	Histogram Histogram `json:"histogram"`
}

func newSalaryGroup(label string, values []float64) SalaryGroup {
	g := SalaryGroup{Group: label, Values: values}
	if len(values) > 0 {
		g.Median = Median(values)
		g.Histogram = NewHistogram(values, DefaultBins)
	}
	return g
}

// SalaryByContractType compares b2b means of b2b-only offers with
// employment means of employment-only offers.
func SalaryByContractType(table *models.Table) []SalaryGroup {
	var b2b, emp []float64
	for i := range table.Offers {
		o := &table.Offers[i]
		switch {
		case o.ContractType == models.ContractB2B && o.SalaryB2BMean != nil:
			b2b = append(b2b, *o.SalaryB2BMean)
		case o.ContractType == models.ContractEmployment && o.SalaryEmploymentMean != nil:
			emp = append(emp, *o.SalaryEmploymentMean)
		}
	}
	return []SalaryGroup{
		newSalaryGroup(string(models.ContractB2B), b2b),
		newSalaryGroup(string(models.ContractEmployment), emp),
	}
}

// SalaryByCompanySize groups the salary means of one contract type by
// company size bucket. Buckets sort by their label; offers without a bucket
// are left out.
func SalaryByCompanySize(table *models.Table, contract models.ContractType) ([]SalaryGroup, error) {
	var mean func(*models.Offer) *float64
	switch contract {
	case models.ContractB2B:
		mean = func(o *models.Offer) *float64 { return o.SalaryB2BMean }
	case models.ContractEmployment:
		mean = func(o *models.Offer) *float64 { return o.SalaryEmploymentMean }
	default:
		return nil, fmt.Errorf("company size salaries need b2b or employment, got %q", contract)
	}

	buckets := make(map[string][]float64)
	for i := range table.Offers {
		o := &table.Offers[i]
		if o.ContractType != contract || o.CompanySizeBucket == nil {
			continue
		}
		if m := mean(o); m != nil {
			buckets[*o.CompanySizeBucket] = append(buckets[*o.CompanySizeBucket], *m)
		}
	}

	labels := make([]string, 0, len(buckets))
	for b := range buckets {
		labels = append(labels, b)
	}
	sort.Strings(labels)

	out := make([]SalaryGroup, 0, len(labels))
	for _, b := range labels {
		out = append(out, newSalaryGroup(b, buckets[b]))
	}
	return out, nil
}

type Segment string

const (
	SegmentTechnology Segment = "technology"
	SegmentLocation   Segment = "location"
)

// MinSegmentOffers is how many priced offers a segment needs to be picked
// automatically.
const MinSegmentOffers = 100

var (
	DefaultTechnologySegments = []string{"Java", "Python", "C#", "C/C++", "JavaScript", "PHP", "Kotlin"}
	DefaultLocationSegments   = []string{"Warszawa", "Katowice", "Wrocław", "Gdańsk"}
)

func ParseSegment(s string) (Segment, error) {
	switch Segment(s) {
	case SegmentTechnology, SegmentLocation:
		return Segment(s), nil
	default:
		return "", fmt.Errorf("unknown segment %q", s)
	}
}

// SegmentCell is one panel of the salary grid. Empty panels have no values
// or a non-positive median.
type SegmentCell struct {
	Segment   string    `json:"segment"`
	Seniority string    `json:"seniority"`
	Count     int       `json:"count"`
	Median    float64   `json:"median"`
	Histogram Histogram `json:"histogram"`
	Empty     bool      `json:"empty"`
}

type pricedOffer struct {
	offer *models.Offer
	value float64
}

// SegmentSalaryGrid splits comparable salaries of the latest snapshot by
// segment and seniority. With no fixed segments, every segment holding more
// than MinSegmentOffers priced offers is used, in name order.
func SegmentSalaryGrid(latest *models.Table, segment Segment, fixed []string, policy derive.BothPolicy) []SegmentCell {
	var priced []pricedOffer
	for i := range latest.Offers {
		o := &latest.Offers[i]
		if v, ok := derive.ComparableSalary(o, policy); ok && !math.IsInf(v, 0) && !math.IsNaN(v) {
			priced = append(priced, pricedOffer{offer: o, value: v})
		}
	}

	keys := func(o *models.Offer) []string {
		if segment == SegmentTechnology {
			return o.Technologies
		}
		return []string{o.Location}
	}

	values := make(map[[2]string][]float64)
	perSegment := make(map[string]int)
	for _, p := range priced {
		for _, k := range keys(p.offer) {
			values[[2]string{k, p.offer.Seniority}] = append(values[[2]string{k, p.offer.Seniority}], p.value)
			perSegment[k]++
		}
	}

	segments := fixed
	if len(segments) == 0 {
		for k, n := range perSegment {
			if n > MinSegmentOffers {
				segments = append(segments, k)
			}
		}
		sort.Strings(segments)
	}

	cells := make([]SegmentCell, 0, len(segments)*len(models.Seniorities))
	for _, seg := range segments {
		for _, level := range models.Seniorities {
			data := values[[2]string{seg, level}]
			cell := SegmentCell{Segment: seg, Seniority: level, Count: len(data)}
			if len(data) > 0 {
				cell.Median = math.RoundToEven(Median(data))
				cell.Histogram = NewHistogram(data, DefaultBins)
			}
			cell.Empty = len(data) == 0 || cell.Median <= 0
			cells = append(cells, cell)
		}
	}
	return cells
}

// SenioritySalaries summarizes synthesized employment salaries of one level.
type SenioritySalaries struct {
	Seniority string    `json:"seniority"`
	Samples   int       `json:"samples"`
	Median    float64   `json:"median"`
	Histogram Histogram `json:"histogram"`
}

// SenioritySalaryDistribution expands every complete employment range of the
// latest snapshot into n synthesized salaries and summarizes them per
// seniority. Medians are rounded to the nearest hundred.
func SenioritySalaryDistribution(latest *models.Table, gen *sampling.Generator, n int) []SenioritySalaries {
	samples := make(map[string][]float64)
	for i := range latest.Offers {
		o := &latest.Offers[i]
		if s := sampling.Synthesize(o.SalaryEmployment, n, gen); len(s) > 0 {
			samples[o.Seniority] = append(samples[o.Seniority], s...)
		}
	}

	out := make([]SenioritySalaries, 0, len(models.Seniorities))
	for _, level := range models.Seniorities {
		data := samples[level]
		entry := SenioritySalaries{Seniority: level, Samples: len(data)}
		if len(data) > 0 {
			entry.Median = math.RoundToEven(Median(data)/100) * 100
			entry.Histogram = NewHistogram(data, DefaultBins)
		}
		out = append(out, entry)
	}
	return out
}
