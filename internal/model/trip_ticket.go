package model

type TripTicket struct {
	FormDate     string `json:"formDate"`
	TripTicketNo string `json:"tripTicketNo"`

	// A. Administrative official
	DriverName             string `json:"driverName"`
	PlateNo                string `json:"plateNo"`
	AuthorizedPassenger    string `json:"authorizedPassenger"`
	PlacesVisited          string `json:"placesVisited"`
	Purpose                string `json:"purpose"`
	AuthorizingOfficerName string `json:"authorizingOfficerName,omitempty"`

	// B. Driver
	TimeDeparture          string   `json:"timeDeparture,omitempty"`
	TimeArrivalAtPlace     string   `json:"timeArrivalAtPlace,omitempty"`
	TimeDepartureFromPlace string   `json:"timeDepartureFromPlace,omitempty"`
	TimeArrivalBack        string   `json:"timeArrivalBack,omitempty"`
	ApproxDistanceKm       *float64 `json:"approxDistanceKm,omitempty"`

	FuelBalanceInTank       *float64 `json:"fuelBalanceInTank,omitempty"`
	FuelIssuedFromStock     *float64 `json:"fuelIssuedFromStock,omitempty"`
	FuelPurchasedDuringTrip *float64 `json:"fuelPurchasedDuringTrip,omitempty"`
	FuelTotal               *float64 `json:"fuelTotal,omitempty"`
	FuelUsedDuringTrip      *float64 `json:"fuelUsedDuringTrip,omitempty"`
	FuelBalanceEnd          *float64 `json:"fuelBalanceEnd,omitempty"`

	GearOilIssued *float64 `json:"gearOilIssued,omitempty"`
	LubOilIssued  *float64 `json:"lubOilIssued,omitempty"`
	GreaseIssued  *float64 `json:"greaseIssued,omitempty"`

	SpeedometerBegin    *float64 `json:"speedometerBegin,omitempty"`
	SpeedometerEnd      *float64 `json:"speedometerEnd,omitempty"`
	SpeedometerDistance *float64 `json:"speedometerDistance,omitempty"`

	Remarks string `json:"remarks,omitempty"`

	DriverSignatureName    string `json:"driverSignatureName,omitempty"`
	PassengerSignatureName string `json:"passengerSignatureName,omitempty"`
}

// NewTripTicket returns an empty ticket carrying the authorizing officer default.
func NewTripTicket(defaultOfficer string) TripTicket {
	return TripTicket{AuthorizingOfficerName: defaultOfficer}
}

// Clone returns a deep copy; number pointers are not shared with the source.
func (t TripTicket) Clone() TripTicket {
	out := t
	for _, p := range []struct {
		dst **float64
		src *float64
	}{
		{&out.ApproxDistanceKm, t.ApproxDistanceKm},
		{&out.FuelBalanceInTank, t.FuelBalanceInTank},
		{&out.FuelIssuedFromStock, t.FuelIssuedFromStock},
		{&out.FuelPurchasedDuringTrip, t.FuelPurchasedDuringTrip},
		{&out.FuelTotal, t.FuelTotal},
		{&out.FuelUsedDuringTrip, t.FuelUsedDuringTrip},
		{&out.FuelBalanceEnd, t.FuelBalanceEnd},
		{&out.GearOilIssued, t.GearOilIssued},
		{&out.LubOilIssued, t.LubOilIssued},
		{&out.GreaseIssued, t.GreaseIssued},
		{&out.SpeedometerBegin, t.SpeedometerBegin},
		{&out.SpeedometerEnd, t.SpeedometerEnd},
		{&out.SpeedometerDistance, t.SpeedometerDistance},
	} {
		if p.src != nil {
			v := *p.src
			*p.dst = &v
		}
	}
	return out
}

func Float(v float64) *float64 {
	return &v
}
