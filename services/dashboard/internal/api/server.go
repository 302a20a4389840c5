package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"itoffers/common/cache"
	"itoffers/common/telemetry"
	"itoffers/services/dashboard/internal/derive"
	"itoffers/services/dashboard/internal/models"
	"itoffers/services/dashboard/internal/sampling"
)

type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
	BothPolicy   derive.BothPolicy
	SampleSize   int
	Generator    *sampling.Generator
}

// Server exposes the read-only dataset as JSON chart data.
type Server struct {
	logger  *zap.Logger
	dataset models.Dataset
	cache   cache.Cache
	opts    Options
	tracer  trace.Tracer
	mux     *http.ServeMux

	// guards the generator, which is not safe for concurrent use
	genMu sync.Mutex

	httpServer *http.Server
}

func New(logger *zap.Logger, dataset models.Dataset, c cache.Cache, opts Options) *Server {
	if opts.SampleSize <= 0 {
		opts.SampleSize = sampling.DefaultSampleSize
	}
	if opts.Generator == nil {
		opts.Generator = sampling.NewUnseeded()
	}
	if opts.BothPolicy == "" {
		opts.BothPolicy = derive.BothPolicyZeroFill
	}

	s := &Server{
		logger:  logger,
		dataset: dataset,
		cache:   c,
		opts:    opts,
		tracer:  telemetry.GetTracer("itoffers/dashboard/api"),
		mux:     http.NewServeMux(),
	}
	s.routes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/summary", s.cached(s.handleSummary))

	s.mux.HandleFunc("GET /api/v1/offers/cities", s.cached(s.handleCities))
	s.mux.HandleFunc("GET /api/v1/offers/map", s.cached(s.handleCityMap))

	s.mux.HandleFunc("GET /api/v1/salaries/contract-types", s.cached(s.handleSalaryByContractType))
	s.mux.HandleFunc("GET /api/v1/salaries/company-size", s.cached(s.handleSalaryByCompanySize))
	s.mux.HandleFunc("GET /api/v1/salaries/segments", s.cached(s.handleSegmentSalaries))
	s.mux.HandleFunc("GET /api/v1/salaries/seniority", s.cached(s.handleSenioritySalaries))

	s.mux.HandleFunc("GET /api/v1/seniority/distribution", s.cached(s.handleSeniorityDistribution))
	s.mux.HandleFunc("GET /api/v1/seniority/trends", s.cached(s.handleSeniorityTrends))
	s.mux.HandleFunc("GET /api/v1/seniority/cities", s.cached(s.handleSeniorityByCity))
	s.mux.HandleFunc("GET /api/v1/seniority/technologies", s.cached(s.handleTechnologySeniority))

	s.mux.HandleFunc("GET /api/v1/technologies/distribution", s.cached(s.handleTechnologyDistribution))
	s.mux.HandleFunc("GET /api/v1/technologies/contracts", s.cached(s.handleContractByTechnology))
	s.mux.HandleFunc("GET /api/v1/technologies/trends", s.cached(s.handleTechnologyTrends))
	s.mux.HandleFunc("GET /api/v1/technologies/treemap", s.cached(s.handleTechnologyTreemap))

	s.mux.HandleFunc("GET /api/v1/contracts/cities", s.cached(s.handleContractShareByCity))
	s.mux.HandleFunc("GET /api/v1/contracts/remote", s.cached(s.handleRemoteContracts))
}

// Handler returns the routes wrapped in tracing and CORS.
func (s *Server) Handler() http.Handler {
	return cors(s.traced(s.mux))
}

func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) traced(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(
			telemetry.String("http.route", r.URL.Path),
			telemetry.Int("http.status_code", rec.status),
		)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
