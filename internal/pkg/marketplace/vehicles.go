package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alugacar/alugacar-web/internal/pkg/money"
)

// Vehicle carries the fields of a listing the booking flow reads.
type Vehicle struct {
	ID              string        `json:"id"`
	OwnerID         string        `json:"ownerId"`
	Brand           string        `json:"brand,omitempty"`
	Model           string        `json:"model,omitempty"`
	Year            int           `json:"year,omitempty"`
	DailyRate       money.Amount  `json:"dailyRate"`
	HourlyRate      *money.Amount `json:"hourlyRate,omitempty"`
	SecurityDeposit *money.Amount `json:"securityDeposit,omitempty"`
}

// GetVehicle fetches a vehicle listing by id.
func (c *Client) GetVehicle(ctx context.Context, vehicleID string) (*Vehicle, error) {
	if strings.TrimSpace(vehicleID) == "" {
		return nil, fmt.Errorf("marketplace get-vehicle request error: vehicle id is empty")
	}

	var resp Vehicle
	if err := c.do(ctx, "get-vehicle", http.MethodGet, "/vehicles/"+url.PathEscape(vehicleID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
