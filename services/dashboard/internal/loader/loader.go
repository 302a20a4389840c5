package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/errors"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/parser"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("itoffers/dashboard/loader")

// Snapshot pairs a report month with the source holding its offers.
type Snapshot struct {
	ReportDate time.Time
	Source     Source
}

type Options struct {
	TechnologyDelimiters string
}

type Loader struct {
	logger *zap.Logger
	opts   Options
}

func New(logger *zap.Logger, opts Options) *Loader {
	return &Loader{logger: logger, opts: opts}
}

// Load reads every snapshot in order and concatenates their rows into one
// table, stamping each row with its snapshot's report date. Rows are never
// filtered or deduplicated. Any schema disagreement fails the whole load.
func (l *Loader) Load(ctx context.Context, snapshots []Snapshot) (*models.Table, error) {
	ctx, span := tracer.Start(ctx, "Loader.Load")
	defer span.End()

	if len(snapshots) == 0 {
		return nil, errors.InvalidInput("no snapshots configured", nil)
	}
	snapshots = append([]Snapshot(nil), snapshots...)
	if err := validateDates(snapshots); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var (
		columns []string
		offers  []models.Offer
	)
	for i, snap := range snapshots {
		raw, err := snap.Source.Read(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, errors.InvalidInput(fmt.Sprintf("read source %s", snap.Source.Name()), err)
		}

		if i == 0 {
			if err := checkRequired(raw.Columns); err != nil {
				return nil, errors.SchemaMismatch(fmt.Sprintf("source %s", snap.Source.Name()), err)
			}
			columns = raw.Columns
		} else if err := compareColumns(columns, raw.Columns); err != nil {
			span.RecordError(err)
			return nil, errors.SchemaMismatch(fmt.Sprintf("source %s", snap.Source.Name()), err)
		}

		parsed, err := l.parseRecords(raw, snap)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		offers = append(offers, parsed...)

		l.logger.Info("loaded snapshot",
			zap.String("source", snap.Source.Name()),
			zap.Time("report_date", snap.ReportDate),
			zap.Int("rows", len(parsed)))
	}

	span.SetAttributes(
		telemetry.Int("snapshots.count", len(snapshots)),
		telemetry.Int("offers.count", len(offers)),
	)

	return &models.Table{Columns: columns, Offers: offers}, nil
}

func (l *Loader) parseRecords(raw *RawTable, snap Snapshot) ([]models.Offer, error) {
	header := parser.NewHeader(raw.Columns)
	opts := parser.Options{TechnologyDelimiters: l.opts.TechnologyDelimiters}
	if raw.TechnologyDelimiters != "" {
		opts.TechnologyDelimiters = raw.TechnologyDelimiters
	}

	offers := make([]models.Offer, 0, len(raw.Records))
	for row, record := range raw.Records {
		ref := parser.RowRef{Source: snap.Source.Name(), ReportDate: snap.ReportDate, Row: row}
		offer, err := parser.ParseOffer(header, record, ref, opts)
		if err != nil {
			return nil, errors.InvalidInput("parse offer", err)
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func validateDates(snapshots []Snapshot) error {
	seen := make(map[time.Time]string, len(snapshots))
	for i := range snapshots {
		d := snapshots[i].ReportDate
		if d.Day() != 1 || d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
			return errors.InvalidInput(fmt.Sprintf("report date %s is not the first of a month", d.Format(time.RFC3339)), nil)
		}
		d = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		snapshots[i].ReportDate = d

		if prev, dup := seen[d]; dup {
			return errors.InvalidInput(fmt.Sprintf("report date %s used by %s and %s",
				d.Format("2006-01-02"), prev, snapshots[i].Source.Name()), nil)
		}
		seen[d] = snapshots[i].Source.Name()
	}
	return nil
}

func checkRequired(columns []string) error {
	set, err := columnSet(columns)
	if err != nil {
		return err
	}
	var missing []string
	for _, c := range parser.RequiredColumns {
		if !set[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

func compareColumns(expected, actual []string) error {
	want, err := columnSet(expected)
	if err != nil {
		return err
	}
	got, err := columnSet(actual)
	if err != nil {
		return err
	}

	var missing, unexpected []string
	for c := range want {
		if !got[c] {
			missing = append(missing, c)
		}
	}
	for c := range got {
		if !want[c] {
			unexpected = append(unexpected, c)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}

	sort.Strings(missing)
	sort.Strings(unexpected)
	return fmt.Errorf("columns differ: missing [%s], unexpected [%s]",
		strings.Join(missing, ", "), strings.Join(unexpected, ", "))
}

func columnSet(columns []string) (map[string]bool, error) {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		if set[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		set[c] = true
	}
	return set, nil
}
