package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itoffers/services/dashboard/internal/errors"
)

const header = "id,location,seniority,technology,company size,salary employment min,salary employment max,salary b2b min,salary b2b max\n"

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func csvSource(name string, rows ...string) ReaderSource {
	return ReaderSource{Label: name, Reader: strings.NewReader(header + strings.Join(rows, "\n"))}
}

func TestLoader_Load(t *testing.T) {
	l := New(zap.NewNop(), Options{})
	ctx := context.Background()

	t.Run("concatenates and stamps every row", func(t *testing.T) {
		snapshots := []Snapshot{
			{ReportDate: month(2023, time.September), Source: csvSource("sep",
				"1,Warszawa,junior,Java,50,8000,12000,,",
				"2,Remote,mid,Python,,,,15000,20000",
			)},
			{ReportDate: month(2023, time.October), Source: csvSource("oct",
				"1,Warszawa,junior,Java,50,8000,12000,,",
			)},
			{ReportDate: month(2023, time.November), Source: csvSource("nov",
				"3,Kraków,senior,Go|Rust,1000,,,,",
				"4,Gdańsk,expert,C#,20000,20000,30000,25000,35000",
				"5,Remote,mid,,,,,,",
			)},
		}

		table, err := l.Load(ctx, snapshots)
		require.NoError(t, err)
		require.Equal(t, 2+1+3, table.Len())

		wantDates := []time.Time{
			month(2023, time.September), month(2023, time.September),
			month(2023, time.October),
			month(2023, time.November), month(2023, time.November), month(2023, time.November),
		}
		for i, o := range table.Offers {
			assert.Equal(t, wantDates[i], o.ReportDate, "row %d", i)
		}

		assert.Equal(t, "Warszawa", table.Offers[0].Location)
		assert.Equal(t, "Warszawa", table.Offers[2].Location, "offers repeat across snapshots")
		assert.NotEqual(t, table.Offers[0].ID, table.Offers[2].ID)
		assert.Equal(t, []string{"Go", "Rust"}, table.Offers[3].Technologies)
		assert.Equal(t, strings.Split(strings.TrimSpace(header), ","), table.Columns)
	})

	t.Run("schema mismatch fails the whole load", func(t *testing.T) {
		odd := ReaderSource{Label: "odd", Reader: strings.NewReader(
			"id,location,seniority,technology,company size,salary employment min,salary employment max,salary b2b min,salary b2b max,extra\n" +
				"1,Remote,mid,Go,,,,,,x")}

		table, err := l.Load(ctx, []Snapshot{
			{ReportDate: month(2024, time.January), Source: csvSource("jan", "1,Remote,mid,Go,,,,,")},
			{ReportDate: month(2024, time.February), Source: odd},
		})
		require.Error(t, err)
		assert.Nil(t, table)
		assert.True(t, errors.IsType(err, errors.ErrTypeSchemaMismatch))
		assert.Contains(t, err.Error(), "unexpected [extra]")
	})

	t.Run("missing required column", func(t *testing.T) {
		src := ReaderSource{Label: "bad", Reader: strings.NewReader("location,seniority\nRemote,mid\n")}
		_, err := l.Load(ctx, []Snapshot{{ReportDate: month(2024, time.January), Source: src}})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeSchemaMismatch))
		assert.Contains(t, err.Error(), "technology")
	})

	t.Run("column order may differ", func(t *testing.T) {
		reordered := ReaderSource{Label: "reordered", Reader: strings.NewReader(
			"location,id,seniority,technology,company size,salary b2b min,salary b2b max,salary employment min,salary employment max\n" +
				"Remote,9,mid,Go,,100,200,,")}
		table, err := l.Load(ctx, []Snapshot{
			{ReportDate: month(2024, time.January), Source: csvSource("jan", "1,Remote,mid,Go,,,,,")},
			{ReportDate: month(2024, time.February), Source: reordered},
		})
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		require.NotNil(t, table.Offers[1].SalaryB2B.Min)
		assert.Equal(t, 100.0, *table.Offers[1].SalaryB2B.Min)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := l.Load(ctx, nil)
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))

		_, err = l.Load(ctx, []Snapshot{{ReportDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Source: csvSource("mid")}})
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))

		_, err = l.Load(ctx, []Snapshot{
			{ReportDate: month(2024, time.January), Source: csvSource("a")},
			{ReportDate: month(2024, time.January), Source: csvSource("b")},
		})
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))

		_, err = l.Load(ctx, []Snapshot{{ReportDate: month(2024, time.January), Source: csvSource("x", "1,Remote,mid,Go,huge,,,,")}})
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))

		table, err := l.Load(ctx, []Snapshot{{ReportDate: month(2024, time.January), Source: csvSource("inf", "1,Remote,mid,Go,,,,15000,inf")}})
		assert.Nil(t, table)
		assert.True(t, errors.IsType(err, errors.ErrTypeInvalidInput))
		assert.Contains(t, err.Error(), "non-finite")
	})
}

func TestCSVSource_Read(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "202406_soft_eng_jobs_pol.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+header+"1,Remote,mid,Go,,,,,\n"), 0o600))

	raw, err := CSVSource{Path: path}.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", raw.Columns[0])
	assert.Len(t, raw.Records, 1)

	_, err = CSVSource{Path: filepath.Join(dir, "missing.csv")}.Read(context.Background())
	assert.Error(t, err)
}
