package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/parser"
)

// RowQuerier is satisfied by clickhouse.Conn.
type RowQuerier interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
}

// StoredTechnologyDelimiter separates tags in offer_snapshots.technology,
// whatever delimiters the CSV sources use.
const StoredTechnologyDelimiter = "|"

const snapshotQuery = `
	SELECT
		location, seniority, technology, company_size,
		salary_employment_min, salary_employment_max,
		salary_b2b_min, salary_b2b_max
	FROM offer_snapshots
	WHERE report_date = ?
	ORDER BY row_number
`

// ClickHouseSource reads one month of the offer_snapshots table. It exposes
// exactly the required columns, so every month read this way shares one schema.
type ClickHouseSource struct {
	conn       RowQuerier
	reportDate time.Time
}

func NewClickHouseSource(conn RowQuerier, reportDate time.Time) *ClickHouseSource {
	return &ClickHouseSource{conn: conn, reportDate: reportDate}
}

func (s *ClickHouseSource) Name() string {
	return "clickhouse:offer_snapshots@" + s.reportDate.Format("2006-01-02")
}

func (s *ClickHouseSource) Read(ctx context.Context) (*RawTable, error) {
	rows, err := s.conn.Query(ctx, snapshotQuery, s.reportDate)
	if err != nil {
		return nil, fmt.Errorf("query offer snapshots: %w", err)
	}
	defer rows.Close()

	table := &RawTable{
		Columns:              append([]string(nil), parser.RequiredColumns...),
		TechnologyDelimiters: StoredTechnologyDelimiter,
	}
	for rows.Next() {
		var (
			location, seniority, technology string
			size, empMin, empMax            *float64
			b2bMin, b2bMax                  *float64
		)
		if err := rows.Scan(&location, &seniority, &technology, &size, &empMin, &empMax, &b2bMin, &b2bMax); err != nil {
			return nil, fmt.Errorf("scan offer snapshot row: %w", err)
		}
		table.Records = append(table.Records, []string{
			location, seniority, technology, formatNullable(size),
			formatNullable(empMin), formatNullable(empMax),
			formatNullable(b2bMin), formatNullable(b2bMax),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer snapshots: %w", err)
	}

	return table, nil
}

// ListSnapshotDates returns the distinct report months stored in ClickHouse, oldest first.
func ListSnapshotDates(ctx context.Context, conn RowQuerier) ([]time.Time, error) {
	rows, err := conn.Query(ctx, "SELECT DISTINCT report_date FROM offer_snapshots ORDER BY report_date")
	if err != nil {
		return nil, fmt.Errorf("query snapshot dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan snapshot date: %w", err)
		}
		dates = append(dates, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	}
	return dates, rows.Err()
}

type BatchPreparer interface {
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
}

const importQuery = `INSERT INTO offer_snapshots (
	report_date, row_number, location, seniority, technology, company_size,
	salary_employment_min, salary_employment_max, salary_b2b_min, salary_b2b_max
)`

// ImportTable writes the source columns of every offer into offer_snapshots
// in a single batch. Rows are numbered from zero within each report date and
// technology tags are joined with StoredTechnologyDelimiter.
func ImportTable(ctx context.Context, conn BatchPreparer, table *models.Table) (int, error) {
	ctx, span := tracer.Start(ctx, "ImportTable")
	defer span.End()

	batch, err := conn.PrepareBatch(ctx, importQuery)
	if err != nil {
		return 0, fmt.Errorf("prepare offer snapshot batch: %w", err)
	}

	rowNumbers := make(map[time.Time]uint32)
	for i := range table.Offers {
		o := &table.Offers[i]
		n := rowNumbers[o.ReportDate]
		rowNumbers[o.ReportDate] = n + 1

		if err := batch.Append(
			o.ReportDate, n, o.Location, o.Seniority, strings.Join(o.Technologies, StoredTechnologyDelimiter), o.CompanySize,
			o.SalaryEmployment.Min, o.SalaryEmployment.Max, o.SalaryB2B.Min, o.SalaryB2B.Max,
		); err != nil {
			batch.Abort()
			return 0, fmt.Errorf("append offer %s: %w", o.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("send offer snapshot batch: %w", err)
	}
	span.SetAttributes(telemetry.Int("offers.count", table.Len()))
	return table.Len(), nil
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
