package processor

import (
	"context"
	"fmt"

	"itoffers/services/dashboard/internal/config"
	"itoffers/services/dashboard/internal/loader"
)

// CSVSnapshots turns resolved snapshot files into loader inputs.
func CSVSnapshots(files []config.SnapshotFile) []loader.Snapshot {
	snapshots := make([]loader.Snapshot, 0, len(files))
	for _, f := range files {
		snapshots = append(snapshots, loader.Snapshot{
			ReportDate: f.ReportDate,
			Source:     loader.CSVSource{Path: f.Path},
		})
	}
	return snapshots
}

// ClickHouseSnapshots lists every month stored in offer_snapshots.
func ClickHouseSnapshots(ctx context.Context, conn loader.RowQuerier) ([]loader.Snapshot, error) {
	dates, err := loader.ListSnapshotDates(ctx, conn)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("offer_snapshots holds no report dates")
	}

	snapshots := make([]loader.Snapshot, 0, len(dates))
	for _, d := range dates {
		snapshots = append(snapshots, loader.Snapshot{ReportDate: d, Source: loader.NewClickHouseSource(conn, d)})
	}
	return snapshots, nil
}
