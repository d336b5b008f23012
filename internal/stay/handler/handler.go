package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	"sojourn/internal/stay/service"
	"sojourn/internal/stay/trip"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
	"sojourn/pkg/platform/httputil"
	"sojourn/pkg/requestcontext"
)

// Service defines the interface for stay operations.
type Service interface {
	Policy(ctx context.Context, code id.JurisdictionCode, nationality id.Nationality) (models.StayPolicy, error)
	Policies(ctx context.Context, nationality id.Nationality) []models.StayPolicy
	ListRecords(ctx context.Context, travelerID id.TravelerID) ([]models.StayRecord, error)
	LogEntry(ctx context.Context, cmd service.EntryCommand) (*models.StayRecord, error)
	LogExit(ctx context.Context, cmd service.ExitCommand) (*models.StayRecord, error)
	Status(ctx context.Context, q service.StatusQuery) (*models.CountryResult, error)
	Overview(ctx context.Context, travelerID id.TravelerID, nationality id.Nationality) ([]*models.CountryResult, error)
	ValidateTrip(ctx context.Context, q service.TripQuery) (*trip.Result, error)
}

// Handler wires stay endpoints to the stay service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a stay handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts stay endpoints on the router. Every read accepts
// ?as_of=YYYY-MM-DD to evaluate as of another day.
func (h *Handler) Register(r chi.Router) {
	r.Get("/policies", h.HandleListPolicies)
	r.Get("/policies/{code}", h.HandleGetPolicy)
	r.Route("/travelers/{travelerID}", func(r chi.Router) {
		r.Get("/stays", h.HandleListStays)
		r.Post("/stays", h.HandleLogEntry)
		r.Post("/stays/{recordID}/exit", h.HandleLogExit)
		r.Get("/status/{code}", h.HandleStatus)
		r.Get("/overview", h.HandleOverview)
		r.Post("/trips/validate", h.HandleValidateTrip)
	})
}

// HandleListPolicies handles GET /policies.
func (h *Handler) HandleListPolicies(w http.ResponseWriter, r *http.Request) {
	nationality, err := id.ParseNationality(r.URL.Query().Get("nationality"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPolicies(h.service.Policies(r.Context(), nationality)))
}

// HandleGetPolicy handles GET /policies/{code}.
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code, err := id.ParseJurisdictionCode(chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	nationality, err := id.ParseNationality(r.URL.Query().Get("nationality"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Policy(ctx, code, nationality)
	if err != nil {
		h.fail(ctx, w, "policy lookup failed", err, "jurisdiction", code)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPolicy(p))
}

// HandleListStays handles GET /travelers/{travelerID}/stays.
func (h *Handler) HandleListStays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	records, err := h.service.ListRecords(ctx, travelerID)
	if err != nil {
		h.fail(ctx, w, "list stays failed", err, "traveler_id", travelerID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(records))
}

// HandleLogEntry handles POST /travelers/{travelerID}/stays.
func (h *Handler) HandleLogEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[LogEntryRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.LogEntry(ctx, service.EntryCommand{
		TravelerID:  travelerID,
		Code:        req.ParsedCode(),
		Nationality: req.ParsedNationality(),
		EntryDate:   req.ParsedEntryDate(),
		ExitDate:    req.ParsedExitDate(),
	})
	if err != nil {
		h.fail(ctx, w, "log entry failed", err,
			"traveler_id", travelerID,
			"jurisdiction", req.ParsedCode(),
		)
		return
	}

	h.logger.InfoContext(ctx, "stay entry logged",
		"request_id", requestID,
		"traveler_id", travelerID,
		"record_id", record.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(record))
}

// HandleLogExit handles POST /travelers/{travelerID}/stays/{recordID}/exit.
func (h *Handler) HandleLogExit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[LogExitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.LogExit(ctx, service.ExitCommand{
		TravelerID:  travelerID,
		RecordID:    recordID,
		Nationality: req.ParsedNationality(),
		ExitDate:    req.ParsedExitDate(),
	})
	if err != nil {
		h.fail(ctx, w, "log exit failed", err,
			"traveler_id", travelerID,
			"record_id", recordID,
		)
		return
	}

	h.logger.InfoContext(ctx, "stay exit logged",
		"request_id", requestID,
		"traveler_id", travelerID,
		"record_id", record.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleStatus handles GET /travelers/{travelerID}/status/{code}.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	ctx, ok := withAsOf(w, r)
	if !ok {
		return
	}
	code, err := id.ParseJurisdictionCode(chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	nationality, err := id.ParseNationality(q.Get("nationality"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var issued *time.Time
	if raw := q.Get("authorization_issued"); raw != "" {
		d, err := parseDate("authorization_issued", raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		issued = &d
	}

	res, err := h.service.Status(ctx, service.StatusQuery{
		TravelerID:          travelerID,
		Code:                code,
		Nationality:         nationality,
		AuthorizationIssued: issued,
	})
	if err != nil {
		h.fail(ctx, w, "status evaluation failed", err,
			"traveler_id", travelerID,
			"jurisdiction", code,
		)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCountryResult(res))
}

// HandleOverview handles GET /travelers/{travelerID}/overview.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	ctx, ok := withAsOf(w, r)
	if !ok {
		return
	}
	nationality, err := id.ParseNationality(r.URL.Query().Get("nationality"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	results, err := h.service.Overview(ctx, travelerID, nationality)
	if err != nil {
		h.fail(ctx, w, "overview evaluation failed", err, "traveler_id", travelerID)
		return
	}
	ref := datewindow.Truncate(requestcontext.Now(ctx))
	httputil.WriteJSON(w, http.StatusOK, FromOverview(ref, results))
}

// HandleValidateTrip handles POST /travelers/{travelerID}/trips/validate.
func (h *Handler) HandleValidateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	travelerID, ok := h.travelerFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ValidateTripRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.ValidateTrip(ctx, service.TripQuery{
		TravelerID:          travelerID,
		Code:                req.ParsedCode(),
		Nationality:         req.ParsedNationality(),
		PlannedEntry:        req.ParsedPlannedEntry(),
		PlannedExit:         req.ParsedPlannedExit(),
		AuthorizationIssued: req.ParsedAuthorizationIssued(),
	})
	if err != nil {
		h.fail(ctx, w, "trip validation failed", err,
			"traveler_id", travelerID,
			"jurisdiction", req.ParsedCode(),
		)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromTrip(res))
}

func (h *Handler) travelerFromPath(w http.ResponseWriter, r *http.Request) (id.TravelerID, bool) {
	travelerID, err := id.ParseTravelerID(chi.URLParam(r, "travelerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.TravelerID{}, false
	}
	return travelerID, true
}

// fail logs and writes err. Client errors log at warn, everything else at error.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append([]any{"request_id", requestcontext.RequestID(ctx)}, attrs...)
	attrs = append(attrs, "error", err)
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

// withAsOf pins the request's reference date from ?as_of=YYYY-MM-DD.
func withAsOf(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	ctx := r.Context()
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return ctx, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "as_of must be a date in YYYY-MM-DD format"))
		return nil, false
	}
	return requestcontext.WithTime(ctx, d), true
}
