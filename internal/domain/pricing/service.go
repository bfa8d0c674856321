package pricing

import (
	"time"

	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

// Compute prices a window. Instants are naive wall-clock times, so the
// duration ignores any zone offset change between start and end.
func Compute(w Window, rates RateInfo) (*Breakdown, error) {
	start, end, err := w.Instants(time.UTC)
	if err != nil {
		return nil, err
	}
	return ComputeInstants(start, end, rates)
}

// ComputeInstants prices the interval [start, end).
//
// Duration is rounded up to whole hours, days are hours/24 rounded up.
// More than one day bills by day, otherwise by hour. Amounts are held at
// currency precision, and the lessor amount is the base minus the fee so the
// split always sums to the base.
func ComputeInstants(start, end time.Time, rates RateInfo) (*Breakdown, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingDates
	}
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	if rates.DailyRate.IsNegative() ||
		(rates.HourlyRate != nil && rates.HourlyRate.IsNegative()) ||
		(rates.SecurityDeposit != nil && rates.SecurityDeposit.IsNegative()) {
		return nil, ErrInvalidRates
	}

	hours := ceilHours(end.Sub(start))
	days := (hours + 23) / 24

	var base money.Amount
	hourly := days <= 1
	if hourly {
		base = rates.EffectiveHourlyRate().MulInt(hours)
	} else {
		base = rates.DailyRate.MulInt(days)
	}
	base = base.Round()

	fee := base.Mul(PlatformFeeRate).Round()
	deposit := rates.EffectiveSecurityDeposit().Round()

	return &Breakdown{
		TotalDurationHours: hours,
		TotalDays:          days,
		BilledHourly:       hourly,
		BaseAmount:         base,
		PlatformFee:        fee,
		LessorAmount:       base.Sub(fee),
		SecurityDeposit:    deposit,
		TotalAmount:        base.Add(deposit),
	}, nil
}

func ceilHours(d time.Duration) int64 {
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}
