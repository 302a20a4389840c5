package migrations

import "itoffers/common/database/schema"

var CreateOfferSnapshotsTable = schema.Migration{
	Version:     1,
	Description: "Create offer snapshots table",
	Up: `
		CREATE TABLE IF NOT EXISTS offer_snapshots (
			report_date Date,
			row_number UInt32,
			location String,
			seniority String,
			technology String,
			company_size Nullable(Float64),
			salary_employment_min Nullable(Float64),
			salary_employment_max Nullable(Float64),
			salary_b2b_min Nullable(Float64),
			salary_b2b_max Nullable(Float64),
			imported_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(imported_at)
		PARTITION BY toYYYYMM(report_date)
		ORDER BY (report_date, row_number)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS offer_snapshots`,
}

// All lists every migration in version order.
var All = []schema.Migration{
	CreateOfferSnapshotsTable,
}
