package availability

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alugacar/alugacar-web/internal/domain/pricing"
	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
)

// Backend is the part of the marketplace API this stage needs.
type Backend interface {
	GetBlockedDates(ctx context.Context, vehicleID string) ([]marketplace.BlockedDateRange, error)
	CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)
}

// Service answers availability probes and blocked-date calendars.
type Service struct {
	backend Backend
	cache   SnapshotCache
	loc     *time.Location
	group   singleflight.Group
}

// NewService creates the availability service. Window instants are read in loc.
func NewService(backend Backend, cache SnapshotCache, loc *time.Location) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{backend: backend, cache: cache, loc: loc}
}

// CheckWindow probes a window. Without both dates (and times) it answers unknown
// without calling the backend.
func (s *Service) CheckWindow(ctx context.Context, vehicleID string, w pricing.Window) Result {
	start, end, err := w.Instants(s.loc)
	if err != nil {
		return Result{State: StateUnknown}
	}
	return s.Check(ctx, vehicleID, start, end)
}

// Check asks the backend whether [start, end) is free.
// Failures never report available: a missing endpoint is silently unknown,
// anything else is unknown with a message.
func (s *Service) Check(ctx context.Context, vehicleID string, start, end time.Time) Result {
	available, err := s.backend.CheckAvailability(ctx, vehicleID, start, end)
	if err != nil {
		if marketplace.IsNotImplemented(err) {
			logger.LogDebug(ctx, "availability endpoint not served", "vehicle_id", vehicleID)
			return Result{State: StateUnknown}
		}
		logger.LogWarn(ctx, "availability check failed", "vehicle_id", vehicleID, "error", err.Error())
		return Result{State: StateUnknown, Message: MessageCheckFailed}
	}
	if !available {
		return Result{State: StateUnavailable, Message: MessageUnavailable}
	}
	return Result{State: StateAvailable}
}

// BlockedDates returns the vehicle calendar. Fetch failures degrade to an
// empty calendar.
func (s *Service) BlockedDates(ctx context.Context, vehicleID string) Calendar {
	ranges, err := s.blockedRanges(ctx, vehicleID)
	if err != nil {
		logger.LogWarn(ctx, "blocked dates fetch failed", "vehicle_id", vehicleID, "error", err.Error())
		ranges = nil
	}
	if ranges == nil {
		ranges = []BlockedDateRange{}
	}
	return Calendar{
		VehicleID:     vehicleID,
		Ranges:        ranges,
		ExcludedDates: ExpandBlockedDates(ranges),
	}
}

func (s *Service) blockedRanges(ctx context.Context, vehicleID string) ([]BlockedDateRange, error) {
	if cached, ok, err := s.cache.Get(ctx, vehicleID); err != nil {
		logger.LogWarn(ctx, "blocked dates cache read failed", "vehicle_id", vehicleID, "error", err.Error())
	} else if ok {
		return cached, nil
	}

	v, err, _ := s.group.Do(vehicleID, func() (interface{}, error) {
		ranges, err := s.backend.GetBlockedDates(context.WithoutCancel(ctx), vehicleID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, vehicleID, ranges); err != nil {
			logger.LogWarn(ctx, "blocked dates cache write failed", "vehicle_id", vehicleID, "error", err.Error())
		}
		return ranges, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]BlockedDateRange), nil
}
