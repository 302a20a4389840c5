package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/snapshot"
)

func TestReport(t *testing.T) {
	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	all := derive.Apply(&models.Table{Offers: []models.Offer{
		{ReportDate: june, Location: "Warszawa", Seniority: "mid", Technologies: []string{"Go"}},
		{ReportDate: june, Location: "Gdańsk", Seniority: "junior", Technologies: []string{"Java"}},
		{ReportDate: june, Location: "Remote", Seniority: "mid", Technologies: []string{"Go"}},
	}})
	ds := models.Dataset{All: all, Latest: snapshot.Latest(all)}

	r := buildReport(ds, 1)
	assert.Equal(t, 3, r.Summary.TotalOffers)
	require.Len(t, r.Cities, 1)
	assert.Equal(t, "Gdańsk", r.Cities[0].Category)
	require.Len(t, r.Technologies, 1)
	assert.Equal(t, "Go", r.Technologies[0].Category)

	var out bytes.Buffer
	require.NoError(t, writeReportTable(&out, r))
	assert.Contains(t, out.String(), "2024-06-01")
	assert.Contains(t, out.String(), "TECHNOLOGY")
}
