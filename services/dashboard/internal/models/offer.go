package models

import (
	"time"
)

type ContractType string

const (
	ContractB2B        ContractType = "b2b"
	ContractEmployment ContractType = "employment"
	ContractBoth       ContractType = "both"
	ContractNone       ContractType = "none"
)

// ContractTypes lists every contract type in display order.
var ContractTypes = []ContractType{ContractB2B, ContractEmployment, ContractBoth, ContractNone}

const (
	LocationRemote = "Remote"
	NonRemote      = "Non Remote"
)

// Seniorities lists the seniority tiers in ascending order.
var Seniorities = []string{"junior", "mid", "senior", "expert"}

// SalaryRange is a disclosed pay range. Either bound may be missing.
type SalaryRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Complete reports whether both bounds are present.
func (r SalaryRange) Complete() bool {
	return r.Min != nil && r.Max != nil
}

type Offer struct {
	ID           string            `json:"id"`
	ReportDate   time.Time         `json:"report_date"`
	Location     string            `json:"location"`
	Seniority    string            `json:"seniority"`
	Technologies []string          `json:"technology"`
	CompanySize  *float64          `json:"company_size"`
	Attributes   map[string]string `json:"attributes,omitempty"`

	SalaryEmployment SalaryRange `json:"salary_employment"`
	SalaryB2B        SalaryRange `json:"salary_b2b"`

	SalaryEmploymentMean *float64     `json:"salary_employment_mean"`
	SalaryB2BMean        *float64     `json:"salary_b2b_mean"`
	ContractType         ContractType `json:"contract_type"`
	CompanySizeBucket    *string      `json:"company_size_bucket"`
	IsRemote             string       `json:"is_remote"`
}

// TechnologyTag is one (offer, tag) pair of the technology fan-out.
type TechnologyTag struct {
	OfferID string
	Tag     string
	Offer   *Offer
}

type Table struct {
	Columns []string `json:"columns"`
	Offers  []Offer  `json:"offers"`
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Offers)
}

// Clone returns a table whose offers can be modified without touching t.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	offers := make([]Offer, len(t.Offers))
	copy(offers, t.Offers)
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)
	return &Table{Columns: columns, Offers: offers}
}

// Filter returns a new table holding the offers for which keep returns true.
func (t *Table) Filter(keep func(*Offer) bool) *Table {
	out := &Table{Columns: t.Columns}
	for i := range t.Offers {
		if keep(&t.Offers[i]) {
			out.Offers = append(out.Offers, t.Offers[i])
		}
	}
	return out
}

// ExplodeTechnologies fans every offer out into one pair per technology tag.
// Offers without tags produce no pairs.
func (t *Table) ExplodeTechnologies() []TechnologyTag {
	var tags []TechnologyTag
	for i := range t.Offers {
		o := &t.Offers[i]
		for _, tag := range o.Technologies {
			tags = append(tags, TechnologyTag{OfferID: o.ID, Tag: tag, Offer: o})
		}
	}
	return tags
}

// Dataset is the unified table and its latest snapshot, built once at startup.
type Dataset struct {
	All      *Table
	Latest   *Table
	LoadedAt time.Time
}
