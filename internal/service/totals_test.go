package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/motorpool-trip-tickets/internal/model"
)

func TestCalculateFuel(t *testing.T) {
	tests := []struct {
		name           string
		in             FuelInputs
		wantTotal      float64
		wantBalanceEnd float64
	}{
		{
			name:           "all present",
			in:             FuelInputs{model.Float(10), model.Float(5), model.Float(0), model.Float(8)},
			wantTotal:      15,
			wantBalanceEnd: 7,
		},
		{
			name:           "balance and used absent",
			in:             FuelInputs{nil, model.Float(3), model.Float(2), nil},
			wantTotal:      5,
			wantBalanceEnd: 5,
		},
		{
			name:           "all absent",
			in:             FuelInputs{},
			wantTotal:      0,
			wantBalanceEnd: 0,
		},
		{
			name:           "used exceeds total",
			in:             FuelInputs{model.Float(4.5), nil, model.Float(1.25), model.Float(10)},
			wantTotal:      5.75,
			wantBalanceEnd: -4.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateFuel(tt.in)
			assert.InDelta(t, tt.wantTotal, got.Total, 1e-9)
			assert.InDelta(t, tt.wantBalanceEnd, got.BalanceEnd, 1e-9)
		})
	}
}

func TestApplyFuelTotals_Idempotent(t *testing.T) {
	ticket := model.TripTicket{
		FuelBalanceInTank:       model.Float(12),
		FuelIssuedFromStock:     model.Float(20),
		FuelPurchasedDuringTrip: model.Float(3.5),
		FuelUsedDuringTrip:      model.Float(18),
	}

	ApplyFuelTotals(&ticket)
	first := ticket.Clone()
	ApplyFuelTotals(&ticket)

	require.NotNil(t, ticket.FuelTotal)
	require.NotNil(t, ticket.FuelBalanceEnd)
	assert.Equal(t, *first.FuelTotal, *ticket.FuelTotal)
	assert.Equal(t, *first.FuelBalanceEnd, *ticket.FuelBalanceEnd)
	assert.InDelta(t, 35.5, *ticket.FuelTotal, 1e-9)
	assert.InDelta(t, 17.5, *ticket.FuelBalanceEnd, 1e-9)
}

func TestApplyFuelTotals_NonNumericLeavesOutputsUnchanged(t *testing.T) {
	nan := math.NaN()
	ticket := model.TripTicket{
		FuelTotal:      model.Float(15),
		FuelBalanceEnd: model.Float(7),
	}

	applyFuelTotals(&ticket, FuelInputs{BalanceInTank: &nan, IssuedFromStock: model.Float(5)})

	assert.Equal(t, 15.0, *ticket.FuelTotal)
	assert.Equal(t, 7.0, *ticket.FuelBalanceEnd)
}

func TestApplyFuelTotals_OnlyUsedMalformed(t *testing.T) {
	nan := math.NaN()
	ticket := model.TripTicket{FuelBalanceEnd: model.Float(1)}

	applyFuelTotals(&ticket, FuelInputs{BalanceInTank: model.Float(10), UsedDuringTrip: &nan})

	require.NotNil(t, ticket.FuelTotal)
	assert.Equal(t, 10.0, *ticket.FuelTotal)
	assert.Equal(t, 1.0, *ticket.FuelBalanceEnd)
}

func TestApplyFuelTotals_Overflow(t *testing.T) {
	ticket := model.TripTicket{}

	applyFuelTotals(&ticket, FuelInputs{
		BalanceInTank:   model.Float(math.MaxFloat64),
		IssuedFromStock: model.Float(math.MaxFloat64),
	})

	assert.Nil(t, ticket.FuelTotal)
	assert.Nil(t, ticket.FuelBalanceEnd)
}
