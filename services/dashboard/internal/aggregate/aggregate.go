// Package aggregate turns the offer table into chart-ready series: counts,
// shares and salary distributions grouped the way the dashboard pages show
// them. Nothing here draws; every function returns plain values.
package aggregate

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"itoffers/services/dashboard/internal/models"
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// SeriesCount is one bar segment of a stacked or grouped chart.
type SeriesCount struct {
	Category string `json:"category"`
	Series   string `json:"series"`
	Count    int    `json:"count"`
}

type SeriesShare struct {
	Category string  `json:"category"`
	Series   string  `json:"series"`
	Share    float64 `json:"share"`
}

type TimeCount struct {
	ReportDate time.Time `json:"report_date"`
	Series     string    `json:"series"`
	Count      int       `json:"count"`
}

type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

// DefaultBins matches the bin count of the salary histograms.
const DefaultBins = 50

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// sorted returns the counts largest first; ties keep alphabetical order.
func (c *counter) sorted() []CategoryCount {
	out := make([]CategoryCount, 0, len(c.counts))
	for _, k := range c.order {
		out = append(out, CategoryCount{Category: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func top(counts []CategoryCount, n int) []CategoryCount {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

func categorySet(counts []CategoryCount) map[string]int {
	rank := make(map[string]int, len(counts))
	for i, c := range counts {
		rank[c.Category] = i
	}
	return rank
}

func seniorityRank(s string) int {
	for i, level := range models.Seniorities {
		if level == s {
			return i
		}
	}
	return len(models.Seniorities)
}

func contractRank(c string) int {
	for i, ct := range models.ContractTypes {
		if string(ct) == c {
			return i
		}
	}
	return len(models.ContractTypes)
}

func nonRemote(o *models.Offer) bool {
	return o.Location != models.LocationRemote
}

// Median of values; the mean of the two middle values for an even count.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// NewHistogram bins values into equal-width bins spanning their range. The
// last bin is closed on the right. A constant sample spans value±0.5.
// NaN and infinite values are not counted.
func NewHistogram(values []float64, bins int) Histogram {
	if bins <= 0 {
		return Histogram{}
	}
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Histogram{}
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return Histogram{
		Edges:  edges,
		Counts: stat.Histogram(nil, dividers, sorted, nil),
	}
}

// Summary describes a loaded dataset.
type Summary struct {
	TotalOffers   int             `json:"total_offers"`
	LatestOffers  int             `json:"latest_offers"`
	FirstDate     time.Time       `json:"first_date"`
	LastDate      time.Time       `json:"last_date"`
	Snapshots     []TimeCount     `json:"snapshots"`
	ContractTypes []CategoryCount `json:"contract_types"`
	MeanSalary    SalaryStats     `json:"mean_salary"`
}

type SalaryStats struct {
	B2BMean          float64 `json:"b2b_mean"`
	B2BStdDev        float64 `json:"b2b_std_dev"`
	EmploymentMean   float64 `json:"employment_mean"`
	EmploymentStdDev float64 `json:"employment_std_dev"`
}

func Summarize(ds models.Dataset) Summary {
	s := Summary{
		TotalOffers:  ds.All.Len(),
		LatestOffers: ds.Latest.Len(),
	}

	perDate := make(map[time.Time]int)
	contracts := newCounter()
	var b2b, emp []float64
	for i := range ds.All.Offers {
		o := &ds.All.Offers[i]
		perDate[o.ReportDate]++
		contracts.add(string(o.ContractType))
		if o.SalaryB2BMean != nil {
			b2b = append(b2b, *o.SalaryB2BMean)
		}
		if o.SalaryEmploymentMean != nil {
			emp = append(emp, *o.SalaryEmploymentMean)
		}
	}

	for d, n := range perDate {
		s.Snapshots = append(s.Snapshots, TimeCount{ReportDate: d, Series: "offers", Count: n})
	}
	sort.Slice(s.Snapshots, func(i, j int) bool { return s.Snapshots[i].ReportDate.Before(s.Snapshots[j].ReportDate) })
	if len(s.Snapshots) > 0 {
		s.FirstDate = s.Snapshots[0].ReportDate
		s.LastDate = s.Snapshots[len(s.Snapshots)-1].ReportDate
	}

	s.ContractTypes = contracts.sorted()
	sort.SliceStable(s.ContractTypes, func(i, j int) bool {
		return contractRank(s.ContractTypes[i].Category) < contractRank(s.ContractTypes[j].Category)
	})

	s.MeanSalary.B2BMean, s.MeanSalary.B2BStdDev = meanStdDev(b2b)
	s.MeanSalary.EmploymentMean, s.MeanSalary.EmploymentStdDev = meanStdDev(emp)
	return s
}

// meanStdDev is zero for an empty sample; a single value has no spread.
func meanStdDev(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
