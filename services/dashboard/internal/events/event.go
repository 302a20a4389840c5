package events

import (
	"sort"
	"time"

	"itoffers/services/dashboard/internal/models"
)

const DatasetLoadedSubject = "offers.dataset.loaded"

type SnapshotCount struct {
	ReportDate time.Time `json:"report_date"`
	Offers     int       `json:"offers"`
}

// DatasetLoadedEvent announces a completed load.
type DatasetLoadedEvent struct {
	Source           string          `json:"source"`
	LoadedAt         time.Time       `json:"loaded_at"`
	TotalOffers      int             `json:"total_offers"`
	LatestOffers     int             `json:"latest_offers"`
	LatestReportDate time.Time       `json:"latest_report_date"`
	Snapshots        []SnapshotCount `json:"snapshots"`
	ContractTypes    map[string]int  `json:"contract_types"`
}

func NewDatasetLoadedEvent(source string, ds models.Dataset) DatasetLoadedEvent {
	event := DatasetLoadedEvent{
		Source:        source,
		LoadedAt:      ds.LoadedAt,
		TotalOffers:   ds.All.Len(),
		LatestOffers:  ds.Latest.Len(),
		ContractTypes: make(map[string]int),
	}

	perDate := make(map[time.Time]int)
	if ds.All != nil {
		for i := range ds.All.Offers {
			o := &ds.All.Offers[i]
			perDate[o.ReportDate]++
			event.ContractTypes[string(o.ContractType)]++
		}
	}
	for d, n := range perDate {
		event.Snapshots = append(event.Snapshots, SnapshotCount{ReportDate: d, Offers: n})
	}
	sort.Slice(event.Snapshots, func(i, j int) bool {
		return event.Snapshots[i].ReportDate.Before(event.Snapshots[j].ReportDate)
	})
	if n := len(event.Snapshots); n > 0 {
		event.LatestReportDate = event.Snapshots[n-1].ReportDate
	}
	return event
}
