package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
)

var testNow = time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

func TestNewForm_Defaults(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)
	snap := form.Snapshot()

	assert.Equal(t, model.SubmissionStateIdle, snap.State)
	assert.Equal(t, testOfficer, snap.Record.AuthorizingOfficerName)
	require.NotNil(t, snap.Record.FuelTotal)
	require.NotNil(t, snap.Record.FuelBalanceEnd)
	assert.Equal(t, 0.0, *snap.Record.FuelTotal)
	assert.Equal(t, 0.0, *snap.Record.FuelBalanceEnd)
	assert.Len(t, snap.Errors, len(requiredFields))
	assert.Nil(t, snap.LastResult)
}

func TestForm_SetRecomputesTotals(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)

	snap, err := form.Set(map[string]any{"fuelBalanceInTank": "10"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *snap.Record.FuelTotal)
	assert.Equal(t, 10.0, *snap.Record.FuelBalanceEnd)

	snap, err = form.Set(map[string]any{"fuelIssuedFromStock": 5.0, "fuelUsedDuringTrip": "8"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 15.0, *snap.Record.FuelTotal)
	assert.Equal(t, 7.0, *snap.Record.FuelBalanceEnd)

	snap, err = form.Set(map[string]any{"fuelIssuedFromStock": ""}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 10.0, *snap.Record.FuelTotal)
	assert.Equal(t, 2.0, *snap.Record.FuelBalanceEnd)
}

func TestForm_MalformedFuelInputKeepsTotals(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)
	_, err := form.Set(map[string]any{"fuelBalanceInTank": 10.0, "fuelUsedDuringTrip": 4.0}, testNow)
	require.NoError(t, err)

	snap, err := form.Set(map[string]any{"fuelPurchasedDuringTrip": "abc"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, MsgExpectedNumber, snap.Errors["fuelPurchasedDuringTrip"])
	assert.Equal(t, 10.0, *snap.Record.FuelTotal)
	assert.Equal(t, 6.0, *snap.Record.FuelBalanceEnd)
}

func TestForm_FuelOverflowBlocksSubmit(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)
	_, err := form.Set(validRaw(), testNow)
	require.NoError(t, err)

	snap, err := form.Set(map[string]any{"fuelBalanceInTank": "1e308", "fuelIssuedFromStock": "1e308"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, MsgExpectedNumber, snap.Errors["fuelTotal"])
	assert.Equal(t, MsgExpectedNumber, snap.Errors["fuelBalanceEnd"])
	assert.Equal(t, 15.0, *snap.Record.FuelTotal, "previous totals are kept")

	// an unrelated edit must not clear the overflow
	snap, err = form.Set(map[string]any{"remarks": "long trip"}, testNow)
	require.NoError(t, err)
	assert.Contains(t, snap.Errors, "fuelTotal")

	_, errs, err := form.beginSubmit(testNow)
	require.NoError(t, err)
	assert.Equal(t, ValidationErrors{"fuelTotal": MsgExpectedNumber, "fuelBalanceEnd": MsgExpectedNumber}, errs)
	assert.Equal(t, model.SubmissionStateIdle, form.Snapshot().State)

	snap, err = form.Set(map[string]any{"fuelIssuedFromStock": "5"}, testNow)
	require.NoError(t, err)
	assert.Empty(t, snap.Errors)
	assert.Equal(t, 1e308+5, *snap.Record.FuelTotal)
}

func TestForm_SetRejectsReadOnlyAndUnknown(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)

	_, err := form.Set(map[string]any{"fuelTotal": 100.0, "driverName": "Ramon"}, testNow)
	assert.True(t, errors.Is(err, ErrReadOnlyField))

	_, err = form.Set(map[string]any{"odometer": 1.0}, testNow)
	assert.True(t, errors.Is(err, ErrUnknownField))

	snap := form.Snapshot()
	assert.Equal(t, "", snap.Record.DriverName, "rejected edit must not be partially applied")
	assert.Equal(t, 0.0, *snap.Record.FuelTotal)
}

func TestForm_ErrorsUpdateWhileEditing(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)

	snap, err := form.Set(map[string]any{"driverName": "Ramon", "approxDistanceKm": "far"}, testNow)
	require.NoError(t, err)
	_, stillRequired := snap.Errors["driverName"]
	assert.False(t, stillRequired)
	assert.Equal(t, MsgExpectedNumber, snap.Errors["approxDistanceKm"])

	snap, err = form.Set(map[string]any{"approxDistanceKm": ""}, testNow)
	require.NoError(t, err)
	_, hasErr := snap.Errors["approxDistanceKm"]
	assert.False(t, hasErr)
}

func TestForm_SubmitFlow(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)

	_, errs, err := form.beginSubmit(testNow)
	require.NoError(t, err)
	assert.Len(t, errs, len(requiredFields))
	snap := form.Snapshot()
	assert.Equal(t, model.SubmissionStateIdle, snap.State)
	require.NotNil(t, snap.LastResult)
	assert.Equal(t, model.SubmissionOutcomeInvalid, snap.LastResult.Outcome)

	_, err = form.Set(validRaw(), testNow)
	require.NoError(t, err)

	record, errs, err := form.beginSubmit(testNow)
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "100-20-01-019", record.TripTicketNo)
	assert.Equal(t, model.SubmissionStateSubmitting, form.Snapshot().State)

	_, _, err = form.beginSubmit(testNow)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	form.finishSubmit(model.SubmissionResult{Outcome: model.SubmissionOutcomeSucceeded, CompletedAt: testNow})
	snap = form.Snapshot()
	assert.Equal(t, model.SubmissionStateIdle, snap.State)
	assert.Equal(t, model.SubmissionOutcomeSucceeded, snap.LastResult.Outcome)
	assert.Equal(t, "Ramon Santos", snap.Record.DriverName, "form stays populated after success")
}

func TestForm_SnapshotIsDetached(t *testing.T) {
	form := newForm(uuid.New(), testOfficer, testNow)
	snap := form.Snapshot()

	*snap.Record.FuelTotal = 99
	snap.Errors["plateNo"] = "tampered"

	fresh := form.Snapshot()
	assert.Equal(t, 0.0, *fresh.Record.FuelTotal)
	assert.Equal(t, MsgRequired, fresh.Errors["plateNo"])
}

func TestFormStore_Lifecycle(t *testing.T) {
	store := NewFormStore(time.Hour)
	now := testNow
	store.now = func() time.Time { return now }

	form := store.Create(testOfficer)
	got, err := store.Get(form.ID())
	require.NoError(t, err)
	assert.Same(t, form, got)

	now = now.Add(30 * time.Minute)
	_, err = got.Set(map[string]any{"plateNo": "SKA 123"}, now)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	_, err = store.Get(form.ID())
	require.NoError(t, err, "edits extend the session")

	now = now.Add(2 * time.Hour)
	_, err = store.Get(form.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())

	assert.ErrorIs(t, store.Delete(form.ID()), ErrNotFound)
}

func TestFormStore_SweepKeepsInFlightSubmission(t *testing.T) {
	store := NewFormStore(time.Minute)
	now := testNow
	store.now = func() time.Time { return now }

	form := store.Create(testOfficer)
	_, err := form.Set(validRaw(), now)
	require.NoError(t, err)
	_, _, err = form.beginSubmit(now)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.Len())
	got, err := store.Get(form.ID())
	require.NoError(t, err)
	assert.Same(t, form, got)

	form.finishSubmit(model.SubmissionResult{Outcome: model.SubmissionOutcomeSucceeded, CompletedAt: now})
	_, err = store.Get(form.ID())
	require.NoError(t, err, "finishing the submit touches the session")
	now = now.Add(2 * time.Minute)
	_, err = store.Get(form.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}
