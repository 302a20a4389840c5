package aggregate

import (
	"sort"

	"itoffers/services/dashboard/internal/models"
)

// RemoteContractTypes counts contract types among remote offers.
func RemoteContractTypes(table *models.Table) []CategoryCount {
	c := newCounter()
	for i := range table.Offers {
		if o := &table.Offers[i]; !nonRemote(o) {
			c.add(string(o.ContractType))
		}
	}
	return c.sorted()
}

// ContractTypeShareByCity gives the percentage of each contract type within
// every non-remote city. Contract types seen anywhere in those cities are
// reported for all of them, zero when absent.
func ContractTypeShareByCity(table *models.Table) []SeriesShare {
	totals := make(map[string]int)
	counts := make(map[[2]string]int)
	seen := make(map[string]bool)
	for i := range table.Offers {
		o := &table.Offers[i]
		if !nonRemote(o) {
			continue
		}
		ct := string(o.ContractType)
		totals[o.Location]++
		counts[[2]string{o.Location, ct}]++
		seen[ct] = true
	}

	cities := make([]string, 0, len(totals))
	for city := range totals {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	types := make([]string, 0, len(seen))
	for ct := range seen {
		types = append(types, ct)
	}
	sort.Slice(types, func(i, j int) bool {
		if ri, rj := contractRank(types[i]), contractRank(types[j]); ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})

	out := make([]SeriesShare, 0, len(cities)*len(types))
	for _, city := range cities {
		for _, ct := range types {
			out = append(out, SeriesShare{
				Category: city,
				Series:   ct,
				Share:    float64(counts[[2]string{city, ct}]) / float64(totals[city]) * 100,
			})
		}
	}
	return out
}
