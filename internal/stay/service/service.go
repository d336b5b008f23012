// Package service orchestrates the stay ledger: it loads a traveler's records,
// evaluates them with the compliance calculator and records new stays.
//
// The reference date for every evaluation is requestcontext.Now truncated to a
// calendar day, so handlers and tests can pin "today" through the context.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"sojourn/internal/stay/cache"
	"sojourn/internal/stay/compliance"
	"sojourn/internal/stay/events"
	"sojourn/internal/stay/metrics"
	"sojourn/internal/stay/models"
	"sojourn/internal/stay/trip"
	id "sojourn/pkg/domain"
)

const tracerName = "sojourn/internal/stay/service"

// RecordStore persists stay records per traveler.
type RecordStore interface {
	Create(ctx context.Context, record *models.StayRecord) error
	FindByID(ctx context.Context, travelerID id.TravelerID, recordID id.RecordID) (*models.StayRecord, error)
	ListByTraveler(ctx context.Context, travelerID id.TravelerID) ([]models.StayRecord, error)
	UpdateExit(ctx context.Context, travelerID id.TravelerID, recordID id.RecordID, exit time.Time) error
}

// RecordStoreTx serialises ledger writes for one traveler. The overlap check
// and the write it guards run inside the same fn.
type RecordStoreTx interface {
	RunInTx(ctx context.Context, travelerID id.TravelerID, fn func(ctx context.Context, store RecordStore) error) error
}

// PolicyRegistry resolves jurisdiction policies.
type PolicyRegistry interface {
	GetPolicy(code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, bool)
	Codes() []id.JurisdictionCode
}

// StatusCache memoises evaluation results by ledger version.
type StatusCache interface {
	Get(ctx context.Context, key cache.Key) (*models.CountryResult, bool, error)
	Set(ctx context.Context, key cache.Key, result *models.CountryResult) error
}

// Publisher receives an evaluation after every ledger write.
type Publisher interface {
	PublishEvaluation(ctx context.Context, e events.Evaluation) error
}

// Service is the host around the pure compliance core.
type Service struct {
	records   RecordStore
	tx        RecordStoreTx
	policies  PolicyRegistry
	calc      *compliance.Calculator
	validator *trip.Validator
	cache     StatusCache
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c StatusCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithTx replaces the in-process traveler lock, typically with a database
// transaction.
func WithTx(tx RecordStoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service.
func New(records RecordStore, policies PolicyRegistry, opts ...Option) *Service {
	calc := compliance.New(policies)
	s := &Service{
		records:   records,
		policies:  policies,
		calc:      calc,
		validator: trip.New(calc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.tx == nil {
		s.tx = newShardedTx(records, defaultTxTimeout)
	}
	return s
}
