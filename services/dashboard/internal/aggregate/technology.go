package aggregate

import (
	"sort"

	"itoffers/services/dashboard/internal/models"
)

const (
	TechnologyLimit         = 15
	TechnologyContractLimit = 10
	TechnologyTrendLimit    = 6
)

func technologyCounts(table *models.Table) []CategoryCount {
	c := newCounter()
	for _, t := range table.ExplodeTechnologies() {
		c.add(t.Tag)
	}
	return c.sorted()
}

// TechnologyDistribution counts offers per technology tag, most used first.
func TechnologyDistribution(table *models.Table, limit int) []CategoryCount {
	return top(technologyCounts(table), limit)
}

// ContractTypeByTechnology counts contract types for the most used tags.
// Tags come most used first, contract types in their fixed order.
func ContractTypeByTechnology(table *models.Table, limit int) []SeriesCount {
	techs := categorySet(top(technologyCounts(table), limit))

	counts := make(map[[2]string]int)
	for _, t := range table.ExplodeTechnologies() {
		if _, ok := techs[t.Tag]; ok {
			counts[[2]string{t.Tag, string(t.Offer.ContractType)}]++
		}
	}

	out := make([]SeriesCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, SeriesCount{Category: k[0], Series: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := techs[out[i].Category], techs[out[j].Category]; ri != rj {
			return ri < rj
		}
		return contractRank(out[i].Series) < contractRank(out[j].Series)
	})
	return out
}

// TechnologyTrends counts the most used tags per report month.
func TechnologyTrends(table *models.Table, limit int) []TimeCount {
	techs := categorySet(top(technologyCounts(table), limit))
	return timeCounts(table, func(o *models.Offer) []string { return o.Technologies }, techs,
		func(a, b string) bool { return techs[a] < techs[b] })
}

// LocationTechnologyTree counts offers per location and tag for a treemap.
func LocationTechnologyTree(table *models.Table) []SeriesCount {
	counts := make(map[[2]string]int)
	for _, t := range table.ExplodeTechnologies() {
		counts[[2]string{t.Offer.Location, t.Tag}]++
	}

	out := make([]SeriesCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, SeriesCount{Category: k[0], Series: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Series < out[j].Series
	})
	return out
}
