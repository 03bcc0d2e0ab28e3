package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
)

// Form is one in-progress trip ticket. Raw user input is the source of truth;
// the typed record, the derived fuel fields and the error mapping are rebuilt
// from it on every edit.
type Form struct {
	mu         sync.Mutex
	id         uuid.UUID
	raw        map[string]any
	record     model.TripTicket
	errors     ValidationErrors
	state      model.SubmissionState
	lastResult *model.SubmissionResult
	createdAt  time.Time
	updatedAt  time.Time
}

func newForm(id uuid.UUID, defaultOfficer string, now time.Time) *Form {
	f := &Form{
		id:        id,
		raw:       map[string]any{"authorizingOfficerName": defaultOfficer},
		record:    model.NewTripTicket(defaultOfficer),
		state:     model.SubmissionStateIdle,
		createdAt: now,
		updatedAt: now,
	}
	f.rebuild(true)
	return f
}

func (f *Form) ID() uuid.UUID {
	return f.id
}

// Set applies user edits. Unknown and read-only fields reject the whole edit.
// Totals are recomputed before Set returns when a fuel input was touched.
func (f *Form) Set(values map[string]any, now time.Time) (model.FormSnapshot, error) {
	for name := range values {
		def, ok := lookupField(name)
		if !ok {
			return model.FormSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if def.spec.ReadOnly {
			return model.FormSnapshot{}, fmt.Errorf("%w: %s", ErrReadOnlyField, name)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recalc := false
	for name, value := range values {
		f.raw[name] = value
		if _, ok := fuelInputFields[name]; ok {
			recalc = true
		}
	}
	f.rebuild(recalc)
	f.updatedAt = now
	return f.snapshotLocked(), nil
}

func (f *Form) Snapshot() model.FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// beginSubmit moves the form through Validating. It returns the record to send,
// or the validation errors when the form is Invalid.
func (f *Form) beginSubmit(now time.Time) (model.TripTicket, ValidationErrors, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == model.SubmissionStateSubmitting {
		return model.TripTicket{}, nil, ErrSubmitInProgress
	}
	f.state = model.SubmissionStateValidating

	if len(f.errors) > 0 {
		errs := copyErrors(f.errors)
		f.state = model.SubmissionStateIdle
		f.lastResult = &model.SubmissionResult{
			Outcome:     model.SubmissionOutcomeInvalid,
			Message:     "validation failed",
			Fields:      copyErrors(errs),
			CompletedAt: now,
		}
		return model.TripTicket{}, errs, nil
	}

	f.state = model.SubmissionStateSubmitting
	return f.record.Clone(), nil, nil
}

func (f *Form) finishSubmit(result model.SubmissionResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = model.SubmissionStateIdle
	f.lastResult = &result
	f.updatedAt = result.CompletedAt
}

func (f *Form) lastTouched() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt
}

func (f *Form) submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == model.SubmissionStateSubmitting
}

// rebuild must be called with mu held. Derived fields keep their previous
// values unless recalc is set; an overflowing total is reported either way.
func (f *Form) rebuild(recalc bool) {
	record, decodeErrs := decode(f.raw)
	record.FuelTotal = f.record.FuelTotal
	record.FuelBalanceEnd = f.record.FuelBalanceEnd
	inputs := FuelInputsFromRaw(f.raw)
	if recalc {
		applyFuelTotals(&record, inputs)
	}
	f.record = record
	f.errors = checkRules(f.raw).merge(decodeErrs).merge(fuelTotalsErrors(inputs))
}

func (f *Form) snapshotLocked() model.FormSnapshot {
	snap := model.FormSnapshot{
		ID:        f.id,
		Record:    f.record.Clone(),
		Errors:    copyErrors(f.errors),
		State:     f.state,
		CreatedAt: f.createdAt,
		UpdatedAt: f.updatedAt,
	}
	if snap.Errors == nil {
		snap.Errors = map[string]string{}
	}
	if f.lastResult != nil {
		result := *f.lastResult
		result.Fields = copyErrors(f.lastResult.Fields)
		snap.LastResult = &result
	}
	return snap
}

func copyErrors[M ~map[string]string](in M) M {
	if in == nil {
		return nil
	}
	out := make(M, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
