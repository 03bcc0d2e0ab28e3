package service

import (
	"math"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
)

// FuelInputs holds the four calculator inputs. Nil members count as zero.
type FuelInputs struct {
	BalanceInTank       *float64
	IssuedFromStock     *float64
	PurchasedDuringTrip *float64
	UsedDuringTrip      *float64
}

type FuelTotals struct {
	Total      float64 `json:"fuelTotal"`
	BalanceEnd float64 `json:"fuelBalanceEnd"`
}

// CalculateFuel returns total = balance + issued + purchased and balanceEnd = total - used.
// A NaN input propagates to the affected outputs.
func CalculateFuel(in FuelInputs) FuelTotals {
	total := orZero(in.BalanceInTank) + orZero(in.IssuedFromStock) + orZero(in.PurchasedDuringTrip)
	return FuelTotals{
		Total:      total,
		BalanceEnd: total - orZero(in.UsedDuringTrip),
	}
}

func FuelInputsOf(t model.TripTicket) FuelInputs {
	return FuelInputs{
		BalanceInTank:       t.FuelBalanceInTank,
		IssuedFromStock:     t.FuelIssuedFromStock,
		PurchasedDuringTrip: t.FuelPurchasedDuringTrip,
		UsedDuringTrip:      t.FuelUsedDuringTrip,
	}
}

// ApplyFuelTotals recomputes the derived fuel fields of t from its own inputs.
func ApplyFuelTotals(t *model.TripTicket) {
	applyFuelTotals(t, FuelInputsOf(*t))
}

// applyFuelTotals writes only finite results; a non-finite output leaves the field as it was.
func applyFuelTotals(t *model.TripTicket, in FuelInputs) {
	totals := CalculateFuel(in)
	if isFinite(totals.Total) {
		t.FuelTotal = model.Float(totals.Total)
	}
	if isFinite(totals.BalanceEnd) {
		t.FuelBalanceEnd = model.Float(totals.BalanceEnd)
	}
}

// fuelTotalsErrors flags the derived fields whose result is not finite even
// though every input is a valid number. A malformed input is reported on its own field.
func fuelTotalsErrors(in FuelInputs) ValidationErrors {
	for _, v := range []*float64{in.BalanceInTank, in.IssuedFromStock, in.PurchasedDuringTrip, in.UsedDuringTrip} {
		if v != nil && !isFinite(*v) {
			return nil
		}
	}
	totals := CalculateFuel(in)
	var errs ValidationErrors
	if !isFinite(totals.Total) {
		errs = errs.merge(ValidationErrors{"fuelTotal": MsgExpectedNumber})
	}
	if !isFinite(totals.BalanceEnd) {
		errs = errs.merge(ValidationErrors{"fuelBalanceEnd": MsgExpectedNumber})
	}
	return errs
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
