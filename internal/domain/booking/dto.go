package booking

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alugacar/alugacar-web/internal/domain/pricing"
)

// Coordinate accepts a JSON number or string; blank means not provided.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Coordinate(n.String())
	return nil
}

// QuoteRequest represents a booking form change.
type QuoteRequest struct {
	StartDate       string `json:"startDate" validate:"omitempty,iso_date"`
	EndDate         string `json:"endDate" validate:"omitempty,iso_date"`
	StartTime       string `json:"startTime" validate:"omitempty,clock"`
	EndTime         string `json:"endTime" validate:"omitempty,clock"`
	IncludeCalendar bool   `json:"includeCalendar"`
}

func (r QuoteRequest) Window() pricing.Window {
	return pricing.Window{StartDate: r.StartDate, EndDate: r.EndDate, StartTime: r.StartTime, EndTime: r.EndTime}
}

// IntentRequest represents the "book now" action.
type IntentRequest struct {
	StartDate            string     `json:"startDate" validate:"required,iso_date"`
	EndDate              string     `json:"endDate" validate:"required,iso_date"`
	StartTime            string     `json:"startTime" validate:"required,clock"`
	EndTime              string     `json:"endTime" validate:"required,clock"`
	IncludeRoute         bool       `json:"includeRoute"`
	OriginCity           string     `json:"originCity" validate:"max=120"`
	DestinationCity      string     `json:"destinationCity" validate:"max=120"`
	OriginLatitude       Coordinate `json:"originLatitude" validate:"omitempty,latitude"`
	OriginLongitude      Coordinate `json:"originLongitude" validate:"omitempty,longitude"`
	DestinationLatitude  Coordinate `json:"destinationLatitude" validate:"omitempty,latitude"`
	DestinationLongitude Coordinate `json:"destinationLongitude" validate:"omitempty,longitude"`
}

func (r IntentRequest) Window() pricing.Window {
	return pricing.Window{StartDate: r.StartDate, EndDate: r.EndDate, StartTime: r.StartTime, EndTime: r.EndTime}
}

func (r IntentRequest) Route() Route {
	return Route{
		IncludeRoute:         r.IncludeRoute,
		OriginCity:           r.OriginCity,
		DestinationCity:      r.DestinationCity,
		OriginLatitude:       string(r.OriginLatitude),
		OriginLongitude:      string(r.OriginLongitude),
		DestinationLatitude:  string(r.DestinationLatitude),
		DestinationLongitude: string(r.DestinationLongitude),
	}
}
