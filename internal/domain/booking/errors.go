package booking

import (
	"errors"

	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/pricing"
)

var (
	ErrNotAuthenticated  = errors.New("no current user")
	ErrOwnVehicle        = errors.New("owner cannot book own vehicle")
	ErrNoPrice           = errors.New("no price breakdown for the selected window")
	ErrUnavailable       = errors.New("vehicle unavailable for the selected window")
	ErrInvalidCoordinate = errors.New("invalid route coordinate")
	ErrIntentNotFound    = errors.New("booking intent not found or already used")
	ErrStaleQuote        = errors.New("quote superseded by a newer selection")
)

// UserMessage returns the message shown to the renter for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "Faça login para continuar com a reserva."
	case errors.Is(err, ErrOwnVehicle):
		return "Você não pode reservar o seu próprio veículo."
	case errors.Is(err, ErrUnavailable):
		return availability.MessageUnavailable
	case errors.Is(err, pricing.ErrInvalidWindow):
		return "A data de devolução deve ser posterior à de retirada."
	case errors.Is(err, pricing.ErrMissingDates), errors.Is(err, pricing.ErrInvalidDates), errors.Is(err, ErrNoPrice):
		return "Selecione as datas e horários para calcular o valor."
	case errors.Is(err, pricing.ErrInvalidRates):
		return "Não foi possível calcular o valor deste veículo."
	case errors.Is(err, ErrInvalidCoordinate):
		return "Coordenadas da rota inválidas."
	case errors.Is(err, ErrStaleQuote):
		return "As datas foram alteradas. Aguarde a atualização da disponibilidade."
	case errors.Is(err, ErrIntentNotFound):
		return "Os dados da reserva expiraram. Refaça a seleção de datas."
	default:
		return "Não foi possível preparar a reserva. Tente novamente."
	}
}
