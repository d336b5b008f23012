package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/events"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
	"sojourn/pkg/platform/sentinel"
	"sojourn/pkg/requestcontext"
)

// openEnd stands in for the exit of an ongoing stay when checking overlaps.
var openEnd = datewindow.Date(9999, time.December, 31)

const (
	triggerEntered = "stay_entered"
	triggerExited  = "stay_exited"
)

// ListRecords returns the traveler's stays ascending by entry date.
func (s *Service) ListRecords(ctx context.Context, travelerID id.TravelerID) ([]models.StayRecord, error) {
	l, err := s.loadLedger(ctx, travelerID)
	if err != nil {
		return nil, err
	}
	return l.Records(), nil
}

// LogEntry records an arrival, or a completed stay when ExitDate is set. A
// stay that would overlap another stay in the same jurisdiction is rejected.
func (s *Service) LogEntry(ctx context.Context, cmd EntryCommand) (*models.StayRecord, error) {
	ctx, span := s.tracer.Start(ctx, "stay.log_entry",
		trace.WithAttributes(attribute.String("jurisdiction", cmd.Code.String())))
	defer span.End()

	if _, ok := s.policies.GetPolicy(cmd.Code, cmd.Nationality); !ok {
		return nil, unknownJurisdiction(cmd.Code)
	}
	record, err := models.NewStayRecord(cmd.TravelerID, cmd.Code, cmd.EntryDate, cmd.ExitDate, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, cmd.TravelerID, func(ctx context.Context, store RecordStore) error {
		existing, err := store.ListByTraveler(ctx, cmd.TravelerID)
		if err != nil {
			return err
		}
		if other := overlapping(existing, *record); other != nil {
			return overlapError(other)
		}
		return store.Create(ctx, record)
	})
	if err != nil {
		return nil, translateWriteError(err, "failed to record stay entry")
	}

	s.metrics.IncrementLedgerWrite("entry")
	s.logger.InfoContext(ctx, "stay entry recorded",
		"traveler_id", record.TravelerID,
		"record_id", record.ID,
		"jurisdiction", record.JurisdictionCode,
		"entry_date", record.EntryDate.Format(time.DateOnly),
	)
	s.publishEvaluation(ctx, cmd.TravelerID, cmd.Code, cmd.Nationality, triggerEntered)
	return record, nil
}

// LogExit closes an open stay.
func (s *Service) LogExit(ctx context.Context, cmd ExitCommand) (*models.StayRecord, error) {
	ctx, span := s.tracer.Start(ctx, "stay.log_exit")
	defer span.End()

	if cmd.ExitDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "exit date is required")
	}

	var closed *models.StayRecord
	err := s.tx.RunInTx(ctx, cmd.TravelerID, func(ctx context.Context, store RecordStore) error {
		record, err := store.FindByID(ctx, cmd.TravelerID, cmd.RecordID)
		if err != nil {
			return err
		}
		if !record.IsOpen() {
			return dErrors.New(dErrors.CodeConflict, "stay already has an exit date")
		}
		if err := record.RecordExit(cmd.ExitDate); err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		existing, err := store.ListByTraveler(ctx, cmd.TravelerID)
		if err != nil {
			return err
		}
		if other := overlapping(existing, *record); other != nil {
			return overlapError(other)
		}
		if err := store.UpdateExit(ctx, cmd.TravelerID, cmd.RecordID, *record.ExitDate); err != nil {
			return err
		}
		closed = record
		return nil
	})
	if err != nil {
		return nil, translateWriteError(err, "failed to record stay exit")
	}

	span.SetAttributes(attribute.String("jurisdiction", closed.JurisdictionCode.String()))
	s.metrics.IncrementLedgerWrite("exit")
	s.logger.InfoContext(ctx, "stay exit recorded",
		"traveler_id", closed.TravelerID,
		"record_id", closed.ID,
		"jurisdiction", closed.JurisdictionCode,
		"exit_date", closed.ExitDate.Format(time.DateOnly),
	)
	s.publishEvaluation(ctx, cmd.TravelerID, closed.JurisdictionCode, cmd.Nationality, triggerExited)
	return closed, nil
}

// publishEvaluation re-evaluates the jurisdiction a write touched and hands
// the snapshot to the publisher. Failures are logged; the write has already
// committed.
func (s *Service) publishEvaluation(ctx context.Context, travelerID id.TravelerID, code id.JurisdictionCode, nationality id.Nationality, trigger string) {
	if s.publisher == nil {
		return
	}
	l, err := s.loadLedger(ctx, travelerID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping evaluation event", "traveler_id", travelerID, "error", err)
		s.metrics.IncrementPublishFailure()
		return
	}
	res, err := s.evaluate(ctx, travelerID, l, code, nationality, referenceDate(ctx), nil)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping evaluation event", "traveler_id", travelerID, "error", err)
		s.metrics.IncrementPublishFailure()
		return
	}
	e := events.NewEvaluation(travelerID, trigger, res, requestcontext.Now(ctx))
	if err := s.publisher.PublishEvaluation(ctx, e); err != nil {
		s.metrics.IncrementPublishFailure()
		s.logger.ErrorContext(ctx, "failed to publish evaluation",
			"traveler_id", travelerID,
			"jurisdiction", code,
			"error", err,
		)
	}
}

// overlapping returns a stay in r's jurisdiction, other than r itself, that
// shares at least one day with r. Ongoing stays extend indefinitely.
func overlapping(existing []models.StayRecord, r models.StayRecord) *models.StayRecord {
	span := r.Span(openEnd)
	for i := range existing {
		other := existing[i]
		if other.ID == r.ID || other.JurisdictionCode != r.JurisdictionCode {
			continue
		}
		if datewindow.Overlaps(other.Span(openEnd), span) {
			return &other
		}
	}
	return nil
}

func overlapError(other *models.StayRecord) error {
	return dErrors.New(dErrors.CodeConflict,
		fmt.Sprintf("stay overlaps the %s stay entered on %s",
			other.JurisdictionCode, other.EntryDate.Format(time.DateOnly)))
}

func translateWriteError(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "stay record not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "stay record already exists")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "stay already has an exit date")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
