package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/motorpool-trip-tickets/internal/config"
	"github.com/nurpe/motorpool-trip-tickets/internal/metrics"
	"github.com/nurpe/motorpool-trip-tickets/internal/model"
	"github.com/nurpe/motorpool-trip-tickets/internal/sink"
)

// RecordSink accepts a finished trip ticket.
type RecordSink interface {
	Send(ctx context.Context, ticket model.TripTicket) error
}

type TripTicketService struct {
	forms          *FormStore
	sink           RecordSink
	defaultOfficer string
	log            zerolog.Logger
	now            func() time.Time
}

type SubmitInput struct {
	Raw       map[string]any
	Principal model.Principal
}

type SubmitResult struct {
	Record  model.TripTicket `json:"record"`
	Message string           `json:"message"`
}

func NewTripTicketService(forms *FormStore, recordSink RecordSink, cfg *config.Config, log zerolog.Logger) *TripTicketService {
	return &TripTicketService{
		forms:          forms,
		sink:           recordSink,
		defaultOfficer: cfg.Form.DefaultOfficer,
		log:            log.With().Str("component", "trip_tickets").Logger(),
		now:            time.Now,
	}
}

func (s *TripTicketService) Schema() []model.FieldSpec {
	return Schema()
}

func (s *TripTicketService) Validate(raw map[string]any) (model.TripTicket, ValidationErrors) {
	return Validate(raw, s.defaultOfficer)
}

// Totals computes the derived fuel fields from raw calculator inputs.
// Malformed inputs are reported instead of producing a non-numeric total.
func (s *TripTicketService) Totals(raw map[string]any) (FuelTotals, ValidationErrors) {
	var errs ValidationErrors
	for name := range fuelInputFields {
		if _, ok := decodeNumber(raw[name]); !ok {
			errs = errs.merge(ValidationErrors{name: MsgExpectedNumber})
		}
	}
	if len(errs) > 0 {
		return FuelTotals{}, errs
	}

	inputs := FuelInputsFromRaw(raw)
	if errs := fuelTotalsErrors(inputs); len(errs) > 0 {
		return FuelTotals{}, errs
	}
	return CalculateFuel(inputs), nil
}

// Submit validates raw input and sends it to the sink in one call.
// The returned error is ValidationErrors, *sink.TransportError or *sink.ApplicationError.
func (s *TripTicketService) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	record, errs := s.Validate(input.Raw)
	if len(errs) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, errs
	}

	if err := s.send(ctx, record, input.Principal); err != nil {
		return nil, err
	}
	return &SubmitResult{Record: record, Message: "Saved!"}, nil
}

func (s *TripTicketService) CreateForm(values map[string]any) (model.FormSnapshot, error) {
	form := s.forms.Create(s.defaultOfficer)
	if len(values) == 0 {
		return form.Snapshot(), nil
	}
	snap, err := form.Set(values, s.now())
	if err != nil {
		_ = s.forms.Delete(form.ID())
		return model.FormSnapshot{}, err
	}
	return snap, nil
}

func (s *TripTicketService) GetForm(id uuid.UUID) (model.FormSnapshot, error) {
	form, err := s.forms.Get(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}
	return form.Snapshot(), nil
}

func (s *TripTicketService) UpdateForm(id uuid.UUID, values map[string]any) (model.FormSnapshot, error) {
	form, err := s.forms.Get(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}
	return form.Set(values, s.now())
}

func (s *TripTicketService) DeleteForm(id uuid.UUID) error {
	return s.forms.Delete(id)
}

// SubmitForm runs the submission flow for a session. The snapshot reflects the
// outcome even when an error is returned; the record itself is never cleared.
func (s *TripTicketService) SubmitForm(ctx context.Context, id uuid.UUID, principal model.Principal) (model.FormSnapshot, error) {
	form, err := s.forms.Get(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}

	record, errs, err := form.beginSubmit(s.now())
	if err != nil {
		return form.Snapshot(), err
	}
	if len(errs) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return form.Snapshot(), errs
	}

	sendErr := s.send(ctx, record, principal)

	result := model.SubmissionResult{
		Outcome:     model.SubmissionOutcomeSucceeded,
		Message:     "Saved!",
		CompletedAt: s.now(),
	}
	if sendErr != nil {
		result.Outcome = model.SubmissionOutcomeFailed
		result.Message = FailureMessage(sendErr)
	}
	form.finishSubmit(result)

	return form.Snapshot(), sendErr
}

func (s *TripTicketService) send(ctx context.Context, record model.TripTicket, principal model.Principal) error {
	log := s.log.With().
		Str("ticket_no", record.TripTicketNo).
		Str("plate_no", record.PlateNo).
		Str("submitted_by", principal.Subject).
		Logger()

	start := time.Now()
	err := s.sink.Send(ctx, record)
	metrics.SinkRequestDuration.Observe(time.Since(start).Seconds())

	var appErr *sink.ApplicationError
	switch {
	case err == nil:
		metrics.SubmissionsTotal.WithLabelValues("succeeded").Inc()
		log.Info().Msg("trip ticket saved")
	case errors.As(err, &appErr):
		metrics.SubmissionsTotal.WithLabelValues("failed_application").Inc()
		log.Warn().Int("status", appErr.StatusCode).Msg("record sink rejected trip ticket")
	default:
		metrics.SubmissionsTotal.WithLabelValues("failed_transport").Inc()
		log.Error().Err(err).Msg("record sink unreachable")
	}
	return err
}

// FailureMessage is the user-facing text for a failed submit. Sink error text
// is passed through verbatim; transport failures get a generic notice.
func FailureMessage(err error) string {
	var appErr *sink.ApplicationError
	if errors.As(err, &appErr) {
		return "Failed to save: " + appErr.Body
	}
	return "Failed to save: the record service could not be reached"
}
