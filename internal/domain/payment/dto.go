package payment

import "github.com/alugacar/alugacar-web/internal/pkg/marketplace"

// OpenRequest carries the two possible checkout entries.
type OpenRequest struct {
	IntentID  string `json:"intentId" validate:"omitempty,uuid"`
	BookingID string `json:"bookingId" validate:"max=128"`
}

type SelectMethodRequest struct {
	Method string `json:"method" validate:"required,payment_method"`
}

type ConfirmRequest struct {
	CardDetails *CardDetailsRequest `json:"cardDetails"`
}

type CardDetailsRequest struct {
	Number     string `json:"number" validate:"required,max=23"`
	HolderName string `json:"holderName" validate:"required,max=120"`
	Expiry     string `json:"expiry" validate:"required,max=7"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

func (r ConfirmRequest) Card() *marketplace.CardDetails {
	if r.CardDetails == nil {
		return nil
	}
	return &marketplace.CardDetails{
		Number:     r.CardDetails.Number,
		HolderName: r.CardDetails.HolderName,
		Expiry:     r.CardDetails.Expiry,
		CVV:        r.CardDetails.CVV,
	}
}
