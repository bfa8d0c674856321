package pricing

import (
	"math/big"
	"strings"
	"time"

	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// PlatformFeeRate is the marketplace share of the base amount. The lessor keeps the rest.
var PlatformFeeRate = big.NewRat(30, 100)

// RateInfo is a snapshot of the vehicle's rates taken at quote time.
type RateInfo struct {
	DailyRate       money.Amount  `json:"dailyRate"`
	HourlyRate      *money.Amount `json:"hourlyRate,omitempty"`
	SecurityDeposit *money.Amount `json:"securityDeposit,omitempty"`
}

// EffectiveHourlyRate returns the hourly rate, derived as dailyRate/24 when
// absent. The derived rate is held at currency precision, the same value the
// booking payload carries, so hourly prices can be recomputed from it.
func (r RateInfo) EffectiveHourlyRate() money.Amount {
	if r.HourlyRate != nil {
		return *r.HourlyRate
	}
	return r.DailyRate.QuoInt(24).Round()
}

// EffectiveSecurityDeposit returns the deposit, 2*dailyRate when absent.
func (r RateInfo) EffectiveSecurityDeposit() money.Amount {
	if r.SecurityDeposit != nil {
		return *r.SecurityDeposit
	}
	return r.DailyRate.MulInt(2)
}

// Window is the renter's date and time selection.
type Window struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// HasDates reports whether both calendar dates are set.
func (w Window) HasDates() bool {
	return strings.TrimSpace(w.StartDate) != "" && strings.TrimSpace(w.EndDate) != ""
}

// Instants combines dates and times into naive timestamps in loc.
func (w Window) Instants(loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if !w.HasDates() || strings.TrimSpace(w.StartTime) == "" || strings.TrimSpace(w.EndTime) == "" {
		return time.Time{}, time.Time{}, ErrMissingDates
	}
	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, strings.TrimSpace(w.StartDate)+" "+strings.TrimSpace(w.StartTime), loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	end, err := time.ParseInLocation(DateLayout+" "+ClockLayout, strings.TrimSpace(w.EndDate)+" "+strings.TrimSpace(w.EndTime), loc)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	return start, end, nil
}

// Breakdown is the itemized cost for one window. It is never reused for another window.
type Breakdown struct {
	TotalDurationHours int64        `json:"totalDurationHours"`
	TotalDays          int64        `json:"totalDays"`
	BilledHourly       bool         `json:"billedHourly"`
	BaseAmount         money.Amount `json:"baseAmount"`
	PlatformFee        money.Amount `json:"platformFee"`
	LessorAmount       money.Amount `json:"lessorAmount"`
	SecurityDeposit    money.Amount `json:"securityDeposit"`
	TotalAmount        money.Amount `json:"totalAmount"`
}
