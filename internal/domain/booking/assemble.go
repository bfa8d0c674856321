package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
)

// Draft is everything the renter has chosen on the booking form.
type Draft struct {
	User         CurrentUser
	Vehicle      Vehicle
	Window       pricing.Window
	Breakdown    *pricing.Breakdown
	Availability availability.State
	Route        Route
}

// AssembleIntent builds the booking intent for d. It performs no I/O.
// Start and end are formatted as RFC 3339 instants in loc.
func AssembleIntent(d Draft, loc *time.Location) (*Intent, error) {
	if strings.TrimSpace(d.User.ID) == "" {
		return nil, ErrNotAuthenticated
	}
	if d.Vehicle.OwnerID != "" && d.Vehicle.OwnerID == d.User.ID {
		return nil, ErrOwnVehicle
	}
	if d.Availability.Blocks() {
		return nil, ErrUnavailable
	}
	if d.Breakdown == nil {
		return nil, ErrNoPrice
	}

	start, end, err := d.Window.Instants(loc)
	if err != nil {
		return nil, err
	}

	intent := &Intent{
		LesseeID:        d.User.ID,
		LessorID:        d.Vehicle.OwnerID,
		VehicleID:       d.Vehicle.ID,
		StartDate:       start.Format(time.RFC3339),
		EndDate:         end.Format(time.RFC3339),
		DailyRate:       d.Vehicle.Rates.DailyRate,
		HourlyRate:      d.Vehicle.Rates.EffectiveHourlyRate(),
		SecurityDeposit: d.Breakdown.SecurityDeposit,
		Breakdown:       *d.Breakdown,
	}

	if d.Route.IncludeRoute {
		if err := applyRoute(intent, d.Route); err != nil {
			return nil, err
		}
	}
	return intent, nil
}

func applyRoute(intent *Intent, r Route) error {
	intent.OriginCity = strings.TrimSpace(r.OriginCity)
	intent.DestinationCity = strings.TrimSpace(r.DestinationCity)

	coords := []struct {
		raw   string
		limit float64
		dst   **float64
	}{
		{r.OriginLatitude, 90, &intent.OriginLatitude},
		{r.OriginLongitude, 180, &intent.OriginLongitude},
		{r.DestinationLatitude, 90, &intent.DestinationLatitude},
		{r.DestinationLongitude, 180, &intent.DestinationLongitude},
	}
	for _, c := range coords {
		v, ok, err := parseCoordinate(c.raw, c.limit)
		if err != nil {
			return err
		}
		if ok {
			*c.dst = &v
		}
	}
	return nil
}

// parseCoordinate reads an optional coordinate; blank means absent.
func parseCoordinate(raw string, limit float64) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidCoordinate, raw)
	}
	return v, true, nil
}
