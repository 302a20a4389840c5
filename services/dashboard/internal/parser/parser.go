package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"itoffers/services/dashboard/internal/models"
)

const (
	ColLocation      = "location"
	ColSeniority     = "seniority"
	ColTechnology    = "technology"
	ColCompanySize   = "company size"
	ColEmploymentMin = "salary employment min"
	ColEmploymentMax = "salary employment max"
	ColB2BMin        = "salary b2b min"
	ColB2BMax        = "salary b2b max"
)

// RequiredColumns must be present in every snapshot source.
var RequiredColumns = []string{
	ColLocation,
	ColSeniority,
	ColTechnology,
	ColCompanySize,
	ColEmploymentMin,
	ColEmploymentMax,
	ColB2BMin,
	ColB2BMax,
}

const DefaultTechnologyDelimiters = ",|"

var offerNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// Header maps column names to record positions.
type Header map[string]int

func NewHeader(columns []string) Header {
	h := make(Header, len(columns))
	for i, c := range columns {
		h[c] = i
	}
	return h
}

func (h Header) value(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

type Options struct {
	// TechnologyDelimiters holds every rune that separates tags in the technology cell.
	TechnologyDelimiters string
}

// RowRef identifies the origin of a record for ids and error messages.
type RowRef struct {
	Source     string
	ReportDate time.Time
	Row        int
}

func generateOfferID(ref RowRef) string {
	key := fmt.Sprintf("%s/%s/%d", ref.ReportDate.Format("2006-01-02"), ref.Source, ref.Row)
	return uuid.NewSHA1(offerNamespace, []byte(key)).String()
}

// ParseOffer turns one source record into an offer stamped with ref.ReportDate.
// Derived columns are left empty.
func ParseOffer(header Header, record []string, ref RowRef, opts Options) (models.Offer, error) {
	offer := models.Offer{
		ID:           generateOfferID(ref),
		ReportDate:   ref.ReportDate,
		Location:     strings.TrimSpace(header.value(record, ColLocation)),
		Seniority:    strings.ToLower(strings.TrimSpace(header.value(record, ColSeniority))),
		Technologies: SplitTechnologies(header.value(record, ColTechnology), opts.TechnologyDelimiters),
	}

	var err error
	if offer.CompanySize, err = parseCell(header, record, ColCompanySize); err != nil {
		return models.Offer{}, rowError(ref, err)
	}
	if offer.SalaryEmployment.Min, err = parseCell(header, record, ColEmploymentMin); err != nil {
		return models.Offer{}, rowError(ref, err)
	}
	if offer.SalaryEmployment.Max, err = parseCell(header, record, ColEmploymentMax); err != nil {
		return models.Offer{}, rowError(ref, err)
	}
	if offer.SalaryB2B.Min, err = parseCell(header, record, ColB2BMin); err != nil {
		return models.Offer{}, rowError(ref, err)
	}
	if offer.SalaryB2B.Max, err = parseCell(header, record, ColB2BMax); err != nil {
		return models.Offer{}, rowError(ref, err)
	}

	for column, i := range header {
		if isKnownColumn(column) || i >= len(record) {
			continue
		}
		if offer.Attributes == nil {
			offer.Attributes = make(map[string]string)
		}
		offer.Attributes[column] = record[i]
	}

	return offer, nil
}

func rowError(ref RowRef, err error) error {
	return fmt.Errorf("%s row %d: %w", ref.Source, ref.Row, err)
}

func parseCell(header Header, record []string, column string) (*float64, error) {
	v, err := ParseNullableFloat(header.value(record, column))
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", column, err)
	}
	return v, nil
}

// ParseNullableFloat parses a numeric cell. Empty cells and the usual
// dataframe null spellings yield nil. Infinite values are rejected.
func ParseNullableFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "na", "n/a":
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if math.IsInf(f, 0) {
		return nil, fmt.Errorf("non-finite number %q", s)
	}
	return &f, nil
}

// SplitTechnologies splits a technology cell into trimmed, non-empty tags,
// keeping their order.
func SplitTechnologies(cell, delimiters string) []string {
	if delimiters == "" {
		delimiters = DefaultTechnologyDelimiters
	}
	parts := strings.FieldsFunc(cell, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})

	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func isKnownColumn(column string) bool {
	for _, c := range RequiredColumns {
		if c == column {
			return true
		}
	}
	return false
}
