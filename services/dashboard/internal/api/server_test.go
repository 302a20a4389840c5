package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itoffers/common/cache"
	"itoffers/common/cache/memory"
	"itoffers/services/dashboard/internal/aggregate"
	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/sampling"
	"itoffers/services/dashboard/internal/snapshot"
)

func f(v float64) *float64 { return &v }

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func testDataset() models.Dataset {
	all := derive.Apply(&models.Table{Offers: []models.Offer{
		{ID: "1", ReportDate: month(2024, time.May), Location: "Warszawa", Seniority: "junior", Technologies: []string{"Java"},
			SalaryEmployment: models.SalaryRange{Min: f(8000), Max: f(12000)}, CompanySize: f(50)},
		{ID: "2", ReportDate: month(2024, time.June), Location: "Remote", Seniority: "mid", Technologies: []string{"Python"},
			SalaryB2B: models.SalaryRange{Min: f(15000), Max: f(20000)}},
		{ID: "3", ReportDate: month(2024, time.June), Location: "Warszawa", Seniority: "mid", Technologies: []string{"Java"},
			SalaryEmployment: models.SalaryRange{Min: f(12000), Max: f(16000)}, CompanySize: f(1000)},
	}})
	return models.Dataset{All: all, Latest: snapshot.Latest(all), LoadedAt: month(2024, time.July)}
}

func newTestServer(c cache.Cache) *Server {
	return New(zap.NewNop(), testDataset(), c, Options{
		CacheTTL:   time.Minute,
		Generator:  sampling.NewGenerator(1),
		SampleSize: 100,
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Endpoints(t *testing.T) {
	h := newTestServer(nil).Handler()

	for _, path := range []string{
		"/healthz",
		"/api/v1/summary",
		"/api/v1/offers/cities",
		"/api/v1/offers/map?view=latest",
		"/api/v1/salaries/contract-types",
		"/api/v1/salaries/company-size?contract=employment",
		"/api/v1/salaries/segments",
		"/api/v1/salaries/segments?segment=location&auto=true",
		"/api/v1/salaries/seniority",
		"/api/v1/seniority/distribution",
		"/api/v1/seniority/trends",
		"/api/v1/seniority/cities",
		"/api/v1/seniority/technologies?limit=3",
		"/api/v1/technologies/distribution",
		"/api/v1/technologies/contracts",
		"/api/v1/technologies/trends",
		"/api/v1/technologies/treemap?view=latest",
		"/api/v1/contracts/cities",
		"/api/v1/contracts/remote",
	} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.True(t, json.Valid(rec.Body.Bytes()))
		})
	}
}

func TestServer_Cities(t *testing.T) {
	h := newTestServer(nil).Handler()

	var all []aggregate.CategoryCount
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/offers/cities").Body.Bytes(), &all))
	assert.Equal(t, []aggregate.CategoryCount{{Category: "Warszawa", Count: 2}}, all)

	var latest []aggregate.CategoryCount
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/offers/cities?view=latest").Body.Bytes(), &latest))
	assert.Equal(t, []aggregate.CategoryCount{{Category: "Warszawa", Count: 1}}, latest)
}

func TestServer_BadRequests(t *testing.T) {
	h := newTestServer(nil).Handler()

	for _, path := range []string{
		"/api/v1/offers/cities?view=yesterday",
		"/api/v1/salaries/company-size?contract=both",
		"/api/v1/salaries/segments?segment=company",
		"/api/v1/technologies/distribution?limit=-1",
	} {
		rec := get(t, h, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "INVALID_INPUT", body.Type)
	}

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/unknown").Code)
	assert.Equal(t, http.StatusMethodNotAllowed,
		func() int {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/summary", nil))
			return rec.Code
		}())
}

func TestServer_Cache(t *testing.T) {
	c := memory.New(cache.Options{DefaultTTL: time.Minute, MaxEntries: 16})
	h := newTestServer(c).Handler()

	first := get(t, h, "/api/v1/salaries/seniority")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(t, h, "/api/v1/salaries/seniority")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String(), "synthesized samples stay stable while cached")

	body, err := c.Get(context.Background(), "api:/api/v1/salaries/seniority?")
	require.NoError(t, err)
	assert.Equal(t, first.Body.Bytes(), body)

	bad := get(t, h, "/api/v1/offers/cities?view=nope")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	_, err = c.Get(context.Background(), "api:/api/v1/offers/cities?view=nope")
	assert.ErrorIs(t, err, cache.ErrNotFound, "errors are not cached")
}

func TestServer_CORS(t *testing.T) {
	h := newTestServer(nil).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SegmentsDefaultToFixedTechnologies(t *testing.T) {
	h := newTestServer(nil).Handler()

	var cells []aggregate.SegmentCell
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/salaries/segments").Body.Bytes(), &cells))
	require.Len(t, cells, len(aggregate.DefaultTechnologySegments)*len(models.Seniorities))
	assert.Equal(t, "Java", cells[0].Segment)
	assert.Equal(t, 14000.0, cells[1].Median)
}
