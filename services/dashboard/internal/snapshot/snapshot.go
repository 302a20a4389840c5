package snapshot

import (
	"sort"
	"time"

	"itoffers/services/dashboard/internal/models"
)

// Latest returns the rows whose report date equals the maximum report date in
// table. An empty table yields an empty table.
func Latest(table *models.Table) *models.Table {
	if table.Len() == 0 {
		return &models.Table{}
	}

	latest := table.Offers[0].ReportDate
	for i := range table.Offers {
		if d := table.Offers[i].ReportDate; d.After(latest) {
			latest = d
		}
	}
	return At(table, latest)
}

// At returns the rows recorded as of date.
func At(table *models.Table, date time.Time) *models.Table {
	if table == nil {
		return &models.Table{}
	}
	return table.Filter(func(o *models.Offer) bool {
		return o.ReportDate.Equal(date)
	})
}

// Dates lists the distinct report dates of table, oldest first.
func Dates(table *models.Table) []time.Time {
	if table == nil {
		return nil
	}
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for i := range table.Offers {
		d := table.Offers[i].ReportDate
		if !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Counts returns the number of rows per report date.
func Counts(table *models.Table) map[time.Time]int {
	counts := make(map[time.Time]int)
	if table == nil {
		return counts
	}
	for i := range table.Offers {
		counts[table.Offers[i].ReportDate]++
	}
	return counts
}
