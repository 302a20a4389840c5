package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ExplodeTechnologies(t *testing.T) {
	table := &Table{Offers: []Offer{
		{ID: "a", Technologies: []string{"Go", "Rust"}},
		{ID: "b"},
		{ID: "c", Technologies: []string{"Go"}},
	}}

	tags := table.ExplodeTechnologies()
	require.Len(t, tags, 3)
	assert.Equal(t, "a", tags[0].OfferID)
	assert.Equal(t, "Rust", tags[1].Tag)
	assert.Equal(t, "c", tags[2].OfferID)
	assert.Same(t, &table.Offers[2], tags[2].Offer)
}

func TestTable_CloneAndFilter(t *testing.T) {
	table := &Table{Columns: []string{"location"}, Offers: []Offer{
		{ID: "a", Location: "Remote"},
		{ID: "b", Location: "Warszawa"},
	}}

	clone := table.Clone()
	clone.Offers[0].Location = "Gdańsk"
	clone.Columns[0] = "city"
	assert.Equal(t, "Remote", table.Offers[0].Location)
	assert.Equal(t, "location", table.Columns[0])

	remote := table.Filter(func(o *Offer) bool { return o.Location == LocationRemote })
	require.Equal(t, 1, remote.Len())
	assert.Equal(t, "a", remote.Offers[0].ID)

	var empty *Table
	assert.Zero(t, empty.Len())
	assert.Zero(t, empty.Clone().Len())
}

func TestSalaryRange_Complete(t *testing.T) {
	v := 1.0
	assert.True(t, SalaryRange{Min: &v, Max: &v}.Complete())
	assert.False(t, SalaryRange{Min: &v}.Complete())
	assert.False(t, SalaryRange{}.Complete())
}
