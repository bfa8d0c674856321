package booking

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

type stubVehicles struct {
	vehicle *marketplace.Vehicle
	err     error
}

func (s *stubVehicles) GetVehicle(ctx context.Context, vehicleID string) (*marketplace.Vehicle, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vehicle, nil
}

type funcChecker struct {
	check  func() availability.Result
	ranges []availability.BlockedDateRange
}

func (c *funcChecker) CheckWindow(ctx context.Context, vehicleID string, w pricing.Window) availability.Result {
	return c.check()
}

func (c *funcChecker) BlockedDates(ctx context.Context, vehicleID string) availability.Calendar {
	ranges := c.ranges
	if ranges == nil {
		ranges = []availability.BlockedDateRange{}
	}
	return availability.Calendar{VehicleID: vehicleID, Ranges: ranges, ExcludedDates: availability.ExpandBlockedDates(ranges)}
}

func fixedChecker(state availability.State) *funcChecker {
	return &funcChecker{check: func() availability.Result { return availability.Result{State: state} }}
}

func newTestService(checker AvailabilityChecker) *Service {
	vehicles := &stubVehicles{vehicle: &marketplace.Vehicle{ID: "car-9", OwnerID: "owner-7", DailyRate: money.FromInt(150)}}
	return NewService(vehicles, checker, Config{Location: time.UTC, IntentTTL: time.Minute})
}

var (
	renter   = CurrentUser{ID: "renter-1", Name: "Ana"}
	twoDays  = pricing.Window{StartDate: "2024-06-01", StartTime: "10:00", EndDate: "2024-06-03", EndTime: "10:00"}
	sameDay  = pricing.Window{StartDate: "2024-06-01", StartTime: "10:00", EndDate: "2024-06-01", EndTime: "16:00"}
	noWindow = pricing.Window{}
)

func TestPrepareIntentIsTakenOnce(t *testing.T) {
	svc := newTestService(fixedChecker(availability.StateAvailable))

	prepared, err := svc.PrepareIntent(context.Background(), renter, "car-9", twoDays, Route{})
	require.NoError(t, err)
	require.NotEmpty(t, prepared.IntentID)
	assert.True(t, prepared.Quote.CanSubmit)

	intent, ok := svc.TakeIntent(prepared.IntentID)
	require.True(t, ok)
	assert.Equal(t, "car-9", intent.VehicleID)

	_, ok = svc.TakeIntent(prepared.IntentID)
	assert.False(t, ok)
}

func TestPrepareIntentCalendarIsOnlyAHint(t *testing.T) {
	checker := fixedChecker(availability.StateAvailable)
	checker.ranges = []availability.BlockedDateRange{{StartDate: "2024-06-02", EndDate: "2024-06-02", Status: "confirmed"}}
	svc := newTestService(checker)

	prepared, err := svc.PrepareIntent(context.Background(), renter, "car-9", twoDays, Route{})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", prepared.Quote.CalendarHit)
	assert.True(t, prepared.Quote.CanSubmit)

	_, ok := svc.TakeIntent(prepared.IntentID)
	assert.True(t, ok)
}

func TestPrepareIntentRefusedWhenUnavailable(t *testing.T) {
	svc := newTestService(fixedChecker(availability.StateUnavailable))

	_, err := svc.PrepareIntent(context.Background(), renter, "car-9", twoDays, Route{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPrepareIntentRefusedForOwner(t *testing.T) {
	svc := newTestService(fixedChecker(availability.StateAvailable))

	_, err := svc.PrepareIntent(context.Background(), CurrentUser{ID: "owner-7"}, "car-9", twoDays, Route{})
	assert.ErrorIs(t, err, ErrOwnVehicle)
}

func TestPrepareIntentVehicleLoadFailure(t *testing.T) {
	svc := NewService(&stubVehicles{err: marketplace.ErrNetwork}, fixedChecker(availability.StateAvailable), Config{})

	_, err := svc.PrepareIntent(context.Background(), renter, "car-9", twoDays, Route{})
	assert.ErrorIs(t, err, marketplace.ErrNetwork)
}

func TestQuoteUnknownAvailabilityStillSubmits(t *testing.T) {
	svc := newTestService(fixedChecker(availability.StateUnknown))

	q, err := svc.Quote(context.Background(), renter, "car-9", sameDay, true)
	require.NoError(t, err)
	require.NotNil(t, q.Breakdown)
	assert.True(t, q.Breakdown.BilledHourly)
	assert.Equal(t, availability.StateUnknown, q.Availability.State)
	assert.True(t, q.CanSubmit)
	require.NotNil(t, q.Calendar)
}

func TestQuoteWithoutDates(t *testing.T) {
	svc := newTestService(&funcChecker{check: func() availability.Result {
		t.Error("availability must not be probed without dates")
		return availability.Result{}
	}})

	q, err := svc.Quote(context.Background(), renter, "car-9", noWindow, false)
	require.NoError(t, err)
	assert.Nil(t, q.Breakdown)
	assert.NotEmpty(t, q.PriceError)
	assert.False(t, q.CanSubmit)
}

func TestQuoteDiscardsSupersededAvailability(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	svc := newTestService(&funcChecker{check: func() availability.Result {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
			return availability.Result{State: availability.StateUnavailable, Message: availability.MessageUnavailable}
		}
		return availability.Result{State: availability.StateAvailable}
	}})

	done := make(chan *Quote, 1)
	go func() {
		q, err := svc.Quote(context.Background(), renter, "car-9", twoDays, false)
		if err != nil {
			done <- nil
			return
		}
		done <- q
	}()

	<-entered
	latest, err := svc.Quote(context.Background(), renter, "car-9", sameDay, false)
	require.NoError(t, err)
	close(release)
	first := <-done
	require.NotNil(t, first)

	assert.False(t, latest.Stale)
	assert.Equal(t, availability.StateAvailable, latest.Availability.State)
	assert.True(t, latest.CanSubmit)

	assert.True(t, first.Stale)
	assert.Equal(t, twoDays, first.Window)
	require.NotNil(t, first.Breakdown)
	assert.Equal(t, int64(2), first.Breakdown.TotalDays)
	assert.Equal(t, availability.StateUnknown, first.Availability.State)
	assert.False(t, first.CanSubmit)
	assert.Equal(t, UserMessage(ErrStaleQuote), first.BlockReason)
}
