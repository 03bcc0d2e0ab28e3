package service

import "github.com/nurpe/motorpool-trip-tickets/internal/model"

const (
	sectionHeader = "HEADER"
	sectionA      = "A"
	sectionB      = "B"
)

type fieldDef struct {
	spec model.FieldSpec
	str  func(t *model.TripTicket) *string
	num  func(t *model.TripTicket) **float64
}

func stringField(name, label, section string, kind model.FieldKind, required bool, ref func(t *model.TripTicket) *string) fieldDef {
	return fieldDef{
		spec: model.FieldSpec{Name: name, Label: label, Section: section, Kind: kind, Required: required},
		str:  ref,
	}
}

func numberField(name, label, section, unit string, readOnly bool, ref func(t *model.TripTicket) **float64) fieldDef {
	return fieldDef{
		spec: model.FieldSpec{Name: name, Label: label, Section: section, Kind: model.FieldKindNumber, ReadOnly: readOnly, Unit: unit},
		num:  ref,
	}
}

// fields follows the order of the paper form.
var fields = []fieldDef{
	stringField("formDate", "Date", sectionHeader, model.FieldKindDate, true, func(t *model.TripTicket) *string { return &t.FormDate }),
	stringField("tripTicketNo", "TRIP TICKET No.", sectionHeader, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.TripTicketNo }),

	stringField("driverName", "1. Name of driver of the vehicle", sectionA, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.DriverName }),
	stringField("plateNo", "2. Government car to be used, Plate No.", sectionA, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.PlateNo }),
	stringField("authorizedPassenger", "3. Name of authorized passenger", sectionA, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.AuthorizedPassenger }),
	stringField("placesVisited", "4. Place or places to be visited/inspected", sectionA, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.PlacesVisited }),
	stringField("purpose", "5. Purpose", sectionA, model.FieldKindString, true, func(t *model.TripTicket) *string { return &t.Purpose }),
	stringField("authorizingOfficerName", "OIC, OGS - Motorpool Division", sectionA, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.AuthorizingOfficerName }),

	stringField("timeDeparture", "1. Time of Departure from Office/Garage", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.TimeDeparture }),
	stringField("timeArrivalAtPlace", "2. Time of arrival at (per No. 4 below)", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.TimeArrivalAtPlace }),
	stringField("timeDepartureFromPlace", "3. Time and departure from (per No. 4)", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.TimeDepartureFromPlace }),
	stringField("timeArrivalBack", "4. Time of arrival back to Office/Garage", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.TimeArrivalBack }),
	numberField("approxDistanceKm", "5. Approximate distance travelled (to and from)", sectionB, "km", false, func(t *model.TripTicket) **float64 { return &t.ApproxDistanceKm }),

	numberField("fuelBalanceInTank", "a. Balance in tank", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.FuelBalanceInTank }),
	numberField("fuelIssuedFromStock", "b. Issued by office from stock", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.FuelIssuedFromStock }),
	numberField("fuelPurchasedDuringTrip", "c. Add-purchased during trip", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.FuelPurchasedDuringTrip }),
	numberField("fuelTotal", "TOTAL", sectionB, "liters", true, func(t *model.TripTicket) **float64 { return &t.FuelTotal }),
	numberField("fuelUsedDuringTrip", "d. Deduct: Used during the trip", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.FuelUsedDuringTrip }),
	numberField("fuelBalanceEnd", "e. Balance in tank at the end of the trip", sectionB, "liters", true, func(t *model.TripTicket) **float64 { return &t.FuelBalanceEnd }),

	numberField("gearOilIssued", "7. Gear oil issued", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.GearOilIssued }),
	numberField("lubOilIssued", "8. Lub. Oil issued", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.LubOilIssued }),
	numberField("greaseIssued", "9. Grease issued", sectionB, "liters", false, func(t *model.TripTicket) **float64 { return &t.GreaseIssued }),

	numberField("speedometerBegin", "at the beginning of trip", sectionB, "km", false, func(t *model.TripTicket) **float64 { return &t.SpeedometerBegin }),
	numberField("speedometerEnd", "at the end of the trip", sectionB, "km", false, func(t *model.TripTicket) **float64 { return &t.SpeedometerEnd }),
	numberField("speedometerDistance", "distance travelled (per 5 above)", sectionB, "km", false, func(t *model.TripTicket) **float64 { return &t.SpeedometerDistance }),

	stringField("remarks", "11. Remarks", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.Remarks }),

	stringField("driverSignatureName", "(Driver)", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.DriverSignatureName }),
	stringField("passengerSignatureName", "(Name of Passenger)", sectionB, model.FieldKindString, false, func(t *model.TripTicket) *string { return &t.PassengerSignatureName }),
}

var fieldIndex = func() map[string]int {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.spec.Name] = i
	}
	return index
}()

// fuelInputFields are the calculator dependencies. Editing any of them triggers recomputation.
var fuelInputFields = map[string]struct{}{
	"fuelBalanceInTank":       {},
	"fuelIssuedFromStock":     {},
	"fuelPurchasedDuringTrip": {},
	"fuelUsedDuringTrip":      {},
}

// Schema returns the field specifications in form order.
func Schema() []model.FieldSpec {
	out := make([]model.FieldSpec, len(fields))
	for i, f := range fields {
		out[i] = f.spec
	}
	return out
}

func lookupField(name string) (fieldDef, bool) {
	i, ok := fieldIndex[name]
	if !ok {
		return fieldDef{}, false
	}
	return fields[i], true
}
