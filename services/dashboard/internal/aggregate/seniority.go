package aggregate

import (
	"sort"
	"time"

	"itoffers/services/dashboard/internal/models"
)

const (
	SeniorityCityLimit       = 10
	SeniorityTechnologyLimit = 10
)

// SeniorityDistribution counts offers per seniority in junior, mid, senior,
// expert order. Unlisted levels follow, most offers first.
func SeniorityDistribution(table *models.Table) []CategoryCount {
	c := newCounter()
	for i := range table.Offers {
		c.add(table.Offers[i].Seniority)
	}
	out := c.sorted()
	sort.SliceStable(out, func(i, j int) bool {
		return seniorityRank(out[i].Category) < seniorityRank(out[j].Category)
	})
	return out
}

// SeniorityTrends counts offers per report month and seniority.
func SeniorityTrends(table *models.Table) []TimeCount {
	return timeCounts(table, func(o *models.Offer) []string { return []string{o.Seniority} }, nil,
		func(a, b string) bool { return seniorityRank(a) < seniorityRank(b) })
}

// SeniorityByCity counts seniority levels in the non-remote cities with the
// most offers. Cities come largest first.
func SeniorityByCity(table *models.Table, limit int) []SeriesCount {
	cities := categorySet(top(CityCounts(table), limit))

	counts := make(map[[2]string]int)
	for i := range table.Offers {
		o := &table.Offers[i]
		if _, ok := cities[o.Location]; !ok || !nonRemote(o) {
			continue
		}
		counts[[2]string{o.Location, o.Seniority}]++
	}

	out := make([]SeriesCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, SeriesCount{Category: k[0], Series: k[1], Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := cities[out[i].Category], cities[out[j].Category]; ri != rj {
			return ri < rj
		}
		if ri, rj := seniorityRank(out[i].Series), seniorityRank(out[j].Series); ri != rj {
			return ri < rj
		}
		return out[i].Series < out[j].Series
	})
	return out
}

// TechnologySeniorityShares gives, for each of the most common technology
// tags, the share of its offers at every known seniority level. Levels with
// no offers get a zero share. Technologies are ordered by name.
func TechnologySeniorityShares(latest *models.Table, limit int) []SeriesShare {
	tags := latest.ExplodeTechnologies()

	techCounts := newCounter()
	for _, t := range tags {
		techCounts.add(t.Tag)
	}
	chosen := top(techCounts.sorted(), limit)

	bySeniority := make(map[[2]string]int)
	for _, t := range tags {
		bySeniority[[2]string{t.Tag, t.Offer.Seniority}]++
	}

	names := make([]string, 0, len(chosen))
	for _, c := range chosen {
		names = append(names, c.Category)
	}
	sort.Strings(names)

	out := make([]SeriesShare, 0, len(names)*len(models.Seniorities))
	for _, tech := range names {
		total := techCounts.counts[tech]
		for _, level := range models.Seniorities {
			out = append(out, SeriesShare{
				Category: tech,
				Series:   level,
				Share:    float64(bySeniority[[2]string{tech, level}]) / float64(total),
			})
		}
	}
	return out
}

// timeCounts groups offers by report date and every key returned by keys.
// A non-nil allow restricts the keys counted.
func timeCounts(table *models.Table, keys func(*models.Offer) []string, allow map[string]int, less func(a, b string) bool) []TimeCount {
	type key struct {
		date   time.Time
		series string
	}
	counts := make(map[key]int)
	for i := range table.Offers {
		o := &table.Offers[i]
		for _, k := range keys(o) {
			if allow != nil {
				if _, ok := allow[k]; !ok {
					continue
				}
			}
			counts[key{o.ReportDate, k}]++
		}
	}

	out := make([]TimeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TimeCount{ReportDate: k.date, Series: k.series, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportDate.Equal(out[j].ReportDate) {
			return out[i].ReportDate.Before(out[j].ReportDate)
		}
		if less(out[i].Series, out[j].Series) != less(out[j].Series, out[i].Series) {
			return less(out[i].Series, out[j].Series)
		}
		return out[i].Series < out[j].Series
	})
	return out
}
