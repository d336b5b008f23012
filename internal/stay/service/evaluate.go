package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sojourn/internal/stay/cache"
	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/ledger"
	"sojourn/internal/stay/models"
	"sojourn/internal/stay/trip"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
	"sojourn/pkg/requestcontext"
)

// maxOverviewParallelism caps concurrent evaluations for one overview.
const maxOverviewParallelism = 8

// Policy returns the effective policy for a jurisdiction and nationality.
func (s *Service) Policy(_ context.Context, code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, error) {
	p, ok := s.policies.GetPolicy(code, nationality)
	if !ok {
		return models.StayPolicy{}, unknownJurisdiction(code)
	}
	return p, nil
}

// Policies lists the effective policy of every catalogued jurisdiction.
func (s *Service) Policies(_ context.Context, nationality id.Nationality) []models.StayPolicy {
	var out []models.StayPolicy
	for _, code := range s.policies.Codes() {
		if p, ok := s.policies.GetPolicy(code, nationality); ok {
			out = append(out, p)
		}
	}
	return out
}

// Status evaluates one jurisdiction as of today.
func (s *Service) Status(ctx context.Context, q StatusQuery) (*models.CountryResult, error) {
	if _, ok := s.policies.GetPolicy(q.Code, q.Nationality); !ok {
		return nil, unknownJurisdiction(q.Code)
	}
	l, err := s.loadLedger(ctx, q.TravelerID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, q.TravelerID, l, q.Code, q.Nationality, referenceDate(ctx), q.AuthorizationIssued)
}

// Overview evaluates every jurisdiction the traveler has records in, sorted by
// code. Jurisdictions without a policy are skipped and logged.
func (s *Service) Overview(ctx context.Context, travelerID id.TravelerID, nationality id.Nationality) ([]*models.CountryResult, error) {
	ctx, span := s.tracer.Start(ctx, "stay.overview")
	defer span.End()

	l, err := s.loadLedger(ctx, travelerID)
	if err != nil {
		return nil, err
	}
	ref := referenceDate(ctx)

	var tracked []id.JurisdictionCode
	for _, code := range jurisdictionsOf(l) {
		if _, ok := s.policies.GetPolicy(code, nationality); !ok {
			s.logger.WarnContext(ctx, "no stay policy for recorded jurisdiction",
				"traveler_id", travelerID,
				"jurisdiction", code,
			)
			continue
		}
		tracked = append(tracked, code)
	}
	span.SetAttributes(attribute.Int("jurisdictions", len(tracked)))

	results := make([]*models.CountryResult, len(tracked))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOverviewParallelism)
	for i, code := range tracked {
		g.Go(func() error {
			res, err := s.evaluate(gctx, travelerID, l, code, nationality, ref, nil)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "overview failed")
		return nil, err
	}
	return results, nil
}

// ValidateTrip projects a planned visit over the traveler's ledger.
func (s *Service) ValidateTrip(ctx context.Context, q TripQuery) (*trip.Result, error) {
	ctx, span := s.tracer.Start(ctx, "stay.validate_trip",
		trace.WithAttributes(attribute.String("jurisdiction", q.Code.String())))
	defer span.End()

	if q.PlannedEntry.IsZero() || q.PlannedExit.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "planned entry and exit dates are required")
	}
	l, err := s.loadLedger(ctx, q.TravelerID)
	if err != nil {
		return nil, err
	}
	res, ok := s.validator.Validate(l, q.PlannedEntry, q.PlannedExit, q.Code, q.Nationality, evalOptions(q.AuthorizationIssued)...)
	if !ok {
		return nil, unknownJurisdiction(q.Code)
	}
	s.metrics.IncrementTripValidation(res.IsValid)
	span.SetAttributes(
		attribute.Bool("valid", res.IsValid),
		attribute.Int("projected_days_used", res.ProjectedDaysUsed),
	)
	return res, nil
}

// evaluate runs the calculator for one jurisdiction, consulting the cache
// first. Cache failures degrade to a fresh evaluation.
func (s *Service) evaluate(ctx context.Context, travelerID id.TravelerID, l *ledger.Ledger, code id.JurisdictionCode, nationality id.Nationality, ref time.Time, issued *time.Time) (*models.CountryResult, error) {
	ctx, span := s.tracer.Start(ctx, "stay.evaluate",
		trace.WithAttributes(
			attribute.String("jurisdiction", code.String()),
			attribute.String("reference_date", ref.Format(time.DateOnly)),
		))
	defer span.End()

	key := cache.Key{
		TravelerID:          travelerID,
		LedgerVersion:       l.Version(),
		Code:                code,
		Nationality:         nationality,
		ReferenceDate:       ref,
		AuthorizationIssued: issued,
	}
	if cached, ok := s.cacheGet(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	start := time.Now()
	res, ok := s.calc.Evaluate(l, code, nationality, ref, evalOptions(issued)...)
	if !ok {
		return nil, unknownJurisdiction(code)
	}
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	s.metrics.IncrementEvaluation(res.Policy.CalculationMethod.String(), string(res.Status.WarningLevel))
	span.SetAttributes(
		attribute.Int("days_used", res.Status.DaysUsed),
		attribute.String("warning_level", string(res.Status.WarningLevel)),
		attribute.Int("violations", len(res.Violations)),
	)

	for _, issue := range res.IntegrityIssues {
		s.metrics.AddIntegrityIssue(string(issue.Kind))
		s.logger.WarnContext(ctx, "stay ledger integrity issue",
			"traveler_id", travelerID,
			"jurisdiction", code,
			"record_id", issue.RecordID,
			"kind", issue.Kind,
			"detail", issue.Detail,
		)
	}

	s.cacheSet(ctx, key, res)
	return res, nil
}

func (s *Service) cacheGet(ctx context.Context, key cache.Key) (*models.CountryResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "status cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		s.metrics.IncrementCacheLookup("miss")
		return nil, false
	}
	s.metrics.IncrementCacheLookup("hit")
	return res, true
}

func (s *Service) cacheSet(ctx context.Context, key cache.Key, res *models.CountryResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, res); err != nil {
		s.logger.WarnContext(ctx, "status cache write failed", "error", err)
	}
}

func (s *Service) loadLedger(ctx context.Context, travelerID id.TravelerID) (*ledger.Ledger, error) {
	records, err := s.records.ListByTraveler(ctx, travelerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stay records")
	}
	return ledger.New(records), nil
}

// referenceDate is the calendar day evaluations are computed for.
func referenceDate(ctx context.Context) time.Time {
	return datewindow.Truncate(requestcontext.Now(ctx))
}

func jurisdictionsOf(l *ledger.Ledger) []id.JurisdictionCode {
	seen := make(map[id.JurisdictionCode]bool)
	var out []id.JurisdictionCode
	for _, r := range l.Records() {
		if !seen[r.JurisdictionCode] {
			seen[r.JurisdictionCode] = true
			out = append(out, r.JurisdictionCode)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unknownJurisdiction(code id.JurisdictionCode) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no stay policy for jurisdiction %s", code))
}
