package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

// Booking statuses as reported by the backend.
const (
	BookingStatusPending        = "pending"
	BookingStatusConfirmed      = "confirmed"
	BookingStatusActive         = "active"
	BookingStatusAwaitingReturn = "awaiting_return"
	BookingStatusCompleted      = "completed"
	BookingStatusCancelled      = "cancelled"
	BookingStatusRejected       = "rejected"
	BookingStatusExpired        = "expired"
)

// Payment statuses the booking flow distinguishes. Anything else is opaque.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// BlockedDateRange is a server-reported interval the vehicle cannot be booked.
type BlockedDateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// CreateBookingRequest is the booking creation payload.
// Route keys are omitted when empty.
type CreateBookingRequest struct {
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
}

// CreatedBooking is the creation answer; only the id is read.
type CreatedBooking struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// Booking is the server-owned booking record.
type Booking struct {
	ID              string       `json:"id"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"paymentStatus"`
	TotalAmount     money.Amount `json:"totalAmount"`
	PlatformFee     money.Amount `json:"platformFee"`
	SecurityDeposit money.Amount `json:"securityDeposit"`
	DailyRate       money.Amount `json:"dailyRate"`
	StartDate       string       `json:"startDate"`
	EndDate         string       `json:"endDate"`
	Vehicle         *Vehicle     `json:"vehicle,omitempty"`
}

// CardDetails is forwarded untouched for card payments.
type CardDetails struct {
	Number     string `json:"number"`
	HolderName string `json:"holderName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

// PayBookingRequest is the payment submission payload.
type PayBookingRequest struct {
	Method      string       `json:"method"`
	CardDetails *CardDetails `json:"cardDetails,omitempty"`
}

// PaymentResult is the payment answer. A PaymentURL means a gateway-hosted checkout.
type PaymentResult struct {
	Message    string `json:"message,omitempty"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

type blockedDatesResponse struct {
	BlockedDates []BlockedDateRange `json:"blockedDates"`
}

type availabilityResponse struct {
	Available *bool `json:"available"`
}

// GetBlockedDates returns the vehicle's blocked date ranges.
func (c *Client) GetBlockedDates(ctx context.Context, vehicleID string) ([]BlockedDateRange, error) {
	if strings.TrimSpace(vehicleID) == "" {
		return nil, fmt.Errorf("marketplace blocked-dates request error: vehicle id is empty")
	}

	var resp blockedDatesResponse
	path := "/vehicles/" + url.PathEscape(vehicleID) + "/blocked-dates"
	if err := c.do(ctx, "blocked-dates", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.BlockedDates == nil {
		return []BlockedDateRange{}, nil
	}
	return resp.BlockedDates, nil
}

// CheckAvailability asks whether the vehicle is free in [start, end).
func (c *Client) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	if strings.TrimSpace(vehicleID) == "" {
		return false, fmt.Errorf("marketplace availability request error: vehicle id is empty")
	}

	q := url.Values{}
	q.Set("vehicleId", vehicleID)
	q.Set("startDate", start.Format(time.RFC3339))
	q.Set("endDate", end.Format(time.RFC3339))

	var resp availabilityResponse
	if err := c.do(ctx, "availability", http.MethodGet, "/bookings/availability?"+q.Encode(), nil, &resp); err != nil {
		return false, err
	}
	if resp.Available == nil {
		return false, errors.New("marketplace availability decode error: available field missing")
	}
	return *resp.Available, nil
}

// CreateBooking persists a booking from an intent payload.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreatedBooking, error) {
	var resp CreatedBooking
	if err := c.do(ctx, "create-booking", http.MethodPost, "/bookings", req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, errors.New("marketplace create-booking decode error: id missing")
	}
	return &resp, nil
}

// GetBooking fetches a booking by id.
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, fmt.Errorf("marketplace get-booking request error: booking id is empty")
	}

	var resp Booking
	if err := c.do(ctx, "get-booking", http.MethodGet, "/bookings/"+url.PathEscape(bookingID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PayBooking submits payment for an existing booking.
func (c *Client) PayBooking(ctx context.Context, bookingID string, req PayBookingRequest) (*PaymentResult, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, fmt.Errorf("marketplace pay-booking request error: booking id is empty")
	}

	var resp PaymentResult
	path := "/bookings/" + url.PathEscape(bookingID) + "/pay"
	if err := c.do(ctx, "pay-booking", http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
