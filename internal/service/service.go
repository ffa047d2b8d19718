// Package service implements the pairwise alignment HTTP service: the
// alignment route, the health route, and the delayed-job routes for
// try-later dispatch.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ivcap-works/pairwise-align/internal/metrics"
)

const janitorInterval = time.Minute

// Config holds service construction parameters.
type Config struct {
	// Delay is the artificial latency applied by /long and advertised in
	// Retry-Later headers.
	Delay time.Duration
	// JobTTL is how long delayed jobs are retained.
	JobTTL time.Duration
	// MaxAlignments caps co-optimal enumeration per request; zero uses the
	// aligner default.
	MaxAlignments int
	Log           *logrus.Entry
}

// Service bundles the HTTP endpoints of the alignment service.
type Service struct {
	log   *logrus.Entry
	delay time.Duration
	jobs  *jobStore

	maxAlignments int

	router *mux.Router

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates the service and registers its routes.
func New(cfg Config) *Service {
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	ttl := cfg.JobTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	s := &Service{
		log:           log,
		delay:         cfg.Delay,
		jobs:          newJobStore(ttl),
		maxAlignments: cfg.MaxAlignments,
		router:        mux.NewRouter(),
		stopCh:        make(chan struct{}),
	}
	s.registerRoutes()
	return s
}

func (s *Service) registerRoutes() {
	s.router.HandleFunc("/", s.handleAlign).Methods("POST")
	s.router.HandleFunc("/immediate", s.handleAlign).Methods("POST")
	s.router.HandleFunc("/long", s.handleLong).Methods("POST")
	s.router.HandleFunc("/delayed", s.handleDelayed).Methods("POST")
	s.router.HandleFunc("/jobs/{id}", s.handleJob).Methods("GET")
	s.router.HandleFunc("/_healtz", s.handleHealtz).Methods("GET")
	s.router.Handle("/metrics", metrics.Handler()).Methods("GET")
}

// Router exposes the service routes.
func (s *Service) Router() *mux.Router {
	return s.router
}

// Start launches the delayed-job janitor.
func (s *Service) Start(ctx context.Context) error {
	go s.runJanitor(ctx)
	return nil
}

// Stop signals background workers. Safe to call more than once.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	return nil
}

func (s *Service) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if n := s.jobs.evictExpired(time.Now()); n > 0 {
				s.log.WithField("evicted", n).Info("expired delayed jobs removed")
			}
		}
	}
}
