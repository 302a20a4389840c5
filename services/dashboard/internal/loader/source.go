package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// RawTable is a source read into memory: a header plus string records.
// TechnologyDelimiters, when set, replaces the loader's delimiters for this
// source's technology cells.
type RawTable struct {
	Columns              []string
	Records              [][]string
	TechnologyDelimiters string
}

// Source is one monthly tabular snapshot.
type Source interface {
	Name() string
	Read(ctx context.Context) (*RawTable, error)
}

// CSVSource reads a comma separated file with a header row.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string {
	return s.Path
}

func (s CSVSource) Read(ctx context.Context) (*RawTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	return readCSV(ctx, f)
}

// ReaderSource reads CSV content from an already open reader.
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

func (s ReaderSource) Name() string {
	return s.Label
}

func (s ReaderSource) Read(ctx context.Context) (*RawTable, error) {
	return readCSV(ctx, s.Reader)
}

func readCSV(ctx context.Context, r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	table := &RawTable{Columns: normalizeColumns(header)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

func normalizeColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, c := range header {
		c = strings.TrimPrefix(c, "\ufeff")
		columns[i] = strings.TrimSpace(c)
	}
	return columns
}
