package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	"github.com/alugacar/alugacar-web/internal/pkg/memstore"
)

// VehicleSource reads vehicle listings.
type VehicleSource interface {
	GetVehicle(ctx context.Context, vehicleID string) (*marketplace.Vehicle, error)
}

// AvailabilityChecker is the availability stage as seen from the booking form.
type AvailabilityChecker interface {
	CheckWindow(ctx context.Context, vehicleID string, w pricing.Window) availability.Result
	BlockedDates(ctx context.Context, vehicleID string) availability.Calendar
}

// Config holds booking form settings.
type Config struct {
	Location  *time.Location
	IntentTTL time.Duration
}

// Service drives the booking form: quotes and intent assembly.
type Service struct {
	vehicles     VehicleSource
	availability AvailabilityChecker
	loc          *time.Location
	trackersMu   sync.Mutex
	trackers     *memstore.Store[*availability.Tracker]
	intents      *memstore.Store[*Intent]
}

// NewService creates the booking service.
func NewService(vehicles VehicleSource, checker AvailabilityChecker, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.IntentTTL <= 0 {
		cfg.IntentTTL = 30 * time.Minute
	}
	return &Service{
		vehicles:     vehicles,
		availability: checker,
		loc:          cfg.Location,
		trackers:     memstore.New[*availability.Tracker]("availability-trackers", cfg.IntentTTL),
		intents:      memstore.New[*Intent]("booking-intents", cfg.IntentTTL),
	}
}

// Calendar returns the vehicle's blocked dates for the date picker.
func (s *Service) Calendar(ctx context.Context, vehicleID string) availability.Calendar {
	return s.availability.BlockedDates(ctx, vehicleID)
}

// Quote prices window and probes availability for it. Availability results
// of a superseded quote for the same renter and vehicle are not applied;
// the quote is then marked stale, its availability is unknown and it cannot
// be submitted.
func (s *Service) Quote(ctx context.Context, user CurrentUser, vehicleID string, w pricing.Window, withCalendar bool) (*Quote, error) {
	vehicle, err := s.vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	tracker := s.tracker(user.ID, vehicleID)
	var ticket availability.Ticket
	if w.HasDates() {
		ticket = tracker.Begin()
	} else {
		tracker.Reset()
	}

	q, err := s.quote(ctx, vehicle, w, withCalendar)
	if err != nil {
		return nil, err
	}

	if w.HasDates() {
		if tracker.Resolve(ticket, q.Availability) {
			q.Availability = tracker.Current()
		} else {
			q.Stale = true
			q.Availability = availability.Result{}
			logger.LogDebug(ctx, "stale availability result discarded", "vehicle_id", vehicleID)
		}
	}
	s.finish(user, vehicle, q)
	return q, nil
}

// PrepareIntent recomputes the quote, assembles the intent and parks it in
// navigation state. The returned id is valid for a single checkout. The
// availability probe gates the intent; the calendar is only cross-checked.
func (s *Service) PrepareIntent(ctx context.Context, user CurrentUser, vehicleID string, w pricing.Window, route Route) (*PreparedIntent, error) {
	vehicle, err := s.vehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	q, err := s.quote(ctx, vehicle, w, true)
	if err != nil {
		return nil, err
	}
	if q.CalendarHit != "" && !q.Availability.State.Blocks() {
		logger.LogWarn(ctx, "blocked-dates calendar disagrees with availability probe",
			"vehicle_id", vehicleID,
			"date", q.CalendarHit,
			"availability", q.Availability.State.String(),
		)
	}
	s.finish(user, vehicle, q)

	intent, err := AssembleIntent(Draft{
		User:         user,
		Vehicle:      vehicle,
		Window:       w,
		Breakdown:    q.Breakdown,
		Availability: q.Availability.State,
		Route:        route,
	}, s.loc)
	if err != nil {
		return nil, err
	}

	id := s.intents.Put(intent)
	logger.LogInfo(ctx, "booking intent prepared",
		"intent_id", id,
		"vehicle_id", vehicleID,
		"lessee_id", user.ID,
		"availability", q.Availability.State.String(),
		"total_amount", q.Breakdown.TotalAmount.String(),
	)
	return &PreparedIntent{IntentID: id, Intent: intent, Quote: q}, nil
}

// TakeIntent hands an intent to the checkout and forgets it.
func (s *Service) TakeIntent(intentID string) (*Intent, bool) {
	if intentID == "" {
		return nil, false
	}
	return s.intents.Take(intentID)
}

// Run expires parked intents and idle trackers until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	go s.trackers.Run(ctx, interval)
	s.intents.Run(ctx, interval)
}

func (s *Service) vehicle(ctx context.Context, vehicleID string) (Vehicle, error) {
	listing, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return Vehicle{}, fmt.Errorf("load vehicle %s: %w", vehicleID, err)
	}
	v := VehicleFromListing(listing)
	if v.ID == "" {
		v.ID = vehicleID
	}
	return v, nil
}

// quote computes price, availability and optionally the calendar concurrently.
func (s *Service) quote(ctx context.Context, vehicle Vehicle, w pricing.Window, withCalendar bool) (*Quote, error) {
	q := &Quote{VehicleID: vehicle.ID, Window: w}

	breakdown, err := pricing.Compute(w, vehicle.Rates)
	if err != nil {
		q.PriceError = UserMessage(err)
	} else {
		q.Breakdown = breakdown
	}

	g, gctx := errgroup.WithContext(ctx)
	if w.HasDates() {
		g.Go(func() error {
			q.Availability = s.availability.CheckWindow(gctx, vehicle.ID, w)
			return nil
		})
	}
	if withCalendar {
		g.Go(func() error {
			cal := s.availability.BlockedDates(gctx, vehicle.ID)
			q.Calendar = &cal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if q.Calendar != nil {
		q.CalendarHit, _ = availability.FirstExcluded(q.Calendar.Ranges, w)
	}
	return q, nil
}

// finish decides whether the form may be submitted.
func (s *Service) finish(user CurrentUser, vehicle Vehicle, q *Quote) {
	switch {
	case q.Stale:
		q.BlockReason = UserMessage(ErrStaleQuote)
	case q.Availability.State.Blocks():
		q.BlockReason = UserMessage(ErrUnavailable)
	case q.Breakdown == nil:
		q.BlockReason = q.PriceError
		if q.BlockReason == "" {
			q.BlockReason = UserMessage(ErrNoPrice)
		}
	case user.ID == "":
		q.BlockReason = UserMessage(ErrNotAuthenticated)
	case vehicle.OwnerID != "" && vehicle.OwnerID == user.ID:
		q.BlockReason = UserMessage(ErrOwnVehicle)
	}
	q.CanSubmit = q.BlockReason == ""
}

func (s *Service) tracker(userID, vehicleID string) *availability.Tracker {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()

	key := userID + "|" + vehicleID
	if t, ok := s.trackers.Get(key); ok {
		s.trackers.Set(key, t)
		return t
	}
	t := availability.NewTracker()
	s.trackers.Set(key, t)
	return t
}
