package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"itoffers/services/dashboard/internal/aggregate"
	"itoffers/services/dashboard/internal/errors"
	"itoffers/services/dashboard/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"offers":    s.dataset.All.Len(),
		"loaded_at": s.dataset.LoadedAt,
	})
}

// table picks the snapshot named by ?view=all|latest.
func (s *Server) table(r *http.Request, fallback string) (*models.Table, error) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = fallback
	}
	switch view {
	case "all":
		return s.dataset.All, nil
	case "latest":
		return s.dataset.Latest, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("view must be all or latest, got %q", view), nil)
	}
}

func limit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.InvalidInput(fmt.Sprintf("limit must be a positive integer, got %q", raw), err)
	}
	return n, nil
}

func (s *Server) handleSummary(*http.Request) (any, error) {
	return aggregate.Summarize(s.dataset), nil
}

func (s *Server) handleCities(r *http.Request) (any, error) {
	table, err := s.table(r, "all")
	if err != nil {
		return nil, err
	}
	return aggregate.CityCounts(table), nil
}

func (s *Server) handleCityMap(r *http.Request) (any, error) {
	table, err := s.table(r, "all")
	if err != nil {
		return nil, err
	}
	return aggregate.CityMap(table), nil
}

func (s *Server) handleSalaryByContractType(*http.Request) (any, error) {
	return aggregate.SalaryByContractType(s.dataset.All), nil
}

func (s *Server) handleSalaryByCompanySize(r *http.Request) (any, error) {
	contract := models.ContractType(r.URL.Query().Get("contract"))
	if contract == "" {
		contract = models.ContractB2B
	}
	groups, err := aggregate.SalaryByCompanySize(s.dataset.All, contract)
	if err != nil {
		return nil, errors.InvalidInput("company size salaries", err)
	}
	return groups, nil
}

func (s *Server) handleSegmentSalaries(r *http.Request) (any, error) {
	q := r.URL.Query()

	raw := q.Get("segment")
	if raw == "" {
		raw = string(aggregate.SegmentTechnology)
	}
	segment, err := aggregate.ParseSegment(raw)
	if err != nil {
		return nil, errors.InvalidInput("salary segments", err)
	}

	var fixed []string
	switch {
	case q.Get("segments") != "":
		for _, name := range strings.Split(q.Get("segments"), ",") {
			if name = strings.TrimSpace(name); name != "" {
				fixed = append(fixed, name)
			}
		}
	case q.Get("auto") == "true":
	case segment == aggregate.SegmentTechnology:
		fixed = aggregate.DefaultTechnologySegments
	default:
		fixed = aggregate.DefaultLocationSegments
	}

	return aggregate.SegmentSalaryGrid(s.dataset.Latest, segment, fixed, s.opts.BothPolicy), nil
}

func (s *Server) handleSenioritySalaries(*http.Request) (any, error) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return aggregate.SenioritySalaryDistribution(s.dataset.Latest, s.opts.Generator, s.opts.SampleSize), nil
}

func (s *Server) handleSeniorityDistribution(*http.Request) (any, error) {
	return aggregate.SeniorityDistribution(s.dataset.All), nil
}

func (s *Server) handleSeniorityTrends(*http.Request) (any, error) {
	return aggregate.SeniorityTrends(s.dataset.All), nil
}

func (s *Server) handleSeniorityByCity(r *http.Request) (any, error) {
	n, err := limit(r, aggregate.SeniorityCityLimit)
	if err != nil {
		return nil, err
	}
	return aggregate.SeniorityByCity(s.dataset.All, n), nil
}

func (s *Server) handleTechnologySeniority(r *http.Request) (any, error) {
	n, err := limit(r, aggregate.SeniorityTechnologyLimit)
	if err != nil {
		return nil, err
	}
	return aggregate.TechnologySeniorityShares(s.dataset.Latest, n), nil
}

func (s *Server) handleTechnologyDistribution(r *http.Request) (any, error) {
	n, err := limit(r, aggregate.TechnologyLimit)
	if err != nil {
		return nil, err
	}
	return aggregate.TechnologyDistribution(s.dataset.All, n), nil
}

func (s *Server) handleContractByTechnology(r *http.Request) (any, error) {
	n, err := limit(r, aggregate.TechnologyContractLimit)
	if err != nil {
		return nil, err
	}
	return aggregate.ContractTypeByTechnology(s.dataset.All, n), nil
}

func (s *Server) handleTechnologyTrends(r *http.Request) (any, error) {
	n, err := limit(r, aggregate.TechnologyTrendLimit)
	if err != nil {
		return nil, err
	}
	return aggregate.TechnologyTrends(s.dataset.All, n), nil
}

func (s *Server) handleTechnologyTreemap(r *http.Request) (any, error) {
	table, err := s.table(r, "all")
	if err != nil {
		return nil, err
	}
	return aggregate.LocationTechnologyTree(table), nil
}

func (s *Server) handleContractShareByCity(*http.Request) (any, error) {
	return aggregate.ContractTypeShareByCity(s.dataset.All), nil
}

func (s *Server) handleRemoteContracts(*http.Request) (any, error) {
	return aggregate.RemoteContractTypes(s.dataset.All), nil
}
