package booking

import (
	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

// CurrentUser is the authenticated renter, passed explicitly into assembly.
type CurrentUser struct {
	ID   string
	Name string
}

// Vehicle is the listing identity plus its rate snapshot.
type Vehicle struct {
	ID      string
	OwnerID string
	Rates   pricing.RateInfo
}

// VehicleFromListing snapshots the rates of a marketplace listing.
func VehicleFromListing(v *marketplace.Vehicle) Vehicle {
	return Vehicle{
		ID:      v.ID,
		OwnerID: v.OwnerID,
		Rates: pricing.RateInfo{
			DailyRate:       v.DailyRate,
			HourlyRate:      v.HourlyRate,
			SecurityDeposit: v.SecurityDeposit,
		},
	}
}

// Route is the optional trip plan. Coordinates are kept as entered; blank
// ones are left out of the intent.
type Route struct {
	IncludeRoute         bool
	OriginCity           string
	DestinationCity      string
	OriginLatitude       string
	OriginLongitude      string
	DestinationLatitude  string
	DestinationLongitude string
}

// Intent is an unsaved booking proposal. It is held in memory until the
// checkout consumes it once.
type Intent struct {
	LesseeID             string       `json:"lesseeId"`
	LessorID             string       `json:"lessorId"`
	VehicleID            string       `json:"vehicleId"`
	StartDate            string       `json:"startDate"`
	EndDate              string       `json:"endDate"`
	DailyRate            money.Amount `json:"dailyRate"`
	HourlyRate           money.Amount `json:"hourlyRate"`
	SecurityDeposit      money.Amount `json:"securityDeposit"`
	OriginCity           string       `json:"originCity,omitempty"`
	DestinationCity      string       `json:"destinationCity,omitempty"`
	OriginLatitude       *float64     `json:"originLatitude,omitempty"`
	OriginLongitude      *float64     `json:"originLongitude,omitempty"`
	DestinationLatitude  *float64     `json:"destinationLatitude,omitempty"`
	DestinationLongitude *float64     `json:"destinationLongitude,omitempty"`

	// Breakdown is shown on the payment page; it is not sent to the backend.
	Breakdown pricing.Breakdown `json:"-"`
}

// Request converts the intent into the booking creation payload.
func (i *Intent) Request() marketplace.CreateBookingRequest {
	return marketplace.CreateBookingRequest{
		LesseeID:             i.LesseeID,
		LessorID:             i.LessorID,
		VehicleID:            i.VehicleID,
		StartDate:            i.StartDate,
		EndDate:              i.EndDate,
		DailyRate:            i.DailyRate,
		HourlyRate:           i.HourlyRate,
		SecurityDeposit:      i.SecurityDeposit,
		OriginCity:           i.OriginCity,
		DestinationCity:      i.DestinationCity,
		OriginLatitude:       i.OriginLatitude,
		OriginLongitude:      i.OriginLongitude,
		DestinationLatitude:  i.DestinationLatitude,
		DestinationLongitude: i.DestinationLongitude,
	}
}

// Quote is the state of the booking form for one window. CalendarHit is the
// first selected date the blocked-dates calendar marks; it never blocks.
type Quote struct {
	VehicleID    string                 `json:"vehicleId"`
	Window       pricing.Window         `json:"window"`
	Breakdown    *pricing.Breakdown     `json:"breakdown,omitempty"`
	PriceError   string                 `json:"priceError,omitempty"`
	Availability availability.Result    `json:"availability"`
	Stale        bool                   `json:"stale,omitempty"`
	Calendar     *availability.Calendar `json:"calendar,omitempty"`
	CalendarHit  string                 `json:"calendarHit,omitempty"`
	CanSubmit    bool                   `json:"canSubmit"`
	BlockReason  string                 `json:"blockReason,omitempty"`
}

// PreparedIntent is an assembled intent parked in navigation state.
type PreparedIntent struct {
	IntentID string  `json:"intentId"`
	Intent   *Intent `json:"intent"`
	Quote    *Quote  `json:"quote"`
}
