package availability

import (
	"fmt"

	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
)

// State is the tri-state result of an availability probe.
type State int

const (
	StateUnknown State = iota
	StateAvailable
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "available":
		*s = StateAvailable
	case "unavailable":
		*s = StateUnavailable
	case "unknown", "":
		*s = StateUnknown
	default:
		return fmt.Errorf("invalid availability state %q", string(text))
	}
	return nil
}

// Blocks reports whether the state forbids submitting a booking.
func (s State) Blocks() bool {
	return s == StateUnavailable
}

// User-facing messages.
const (
	MessageUnavailable = "Veículo indisponível para as datas selecionadas. Escolha outro período."
	MessageCheckFailed = "Não foi possível verificar a disponibilidade agora."
)

// Result is the outcome of one probe.
type Result struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// BlockedDateRange mirrors the backend range.
type BlockedDateRange = marketplace.BlockedDateRange

// Calendar is the blocked ranges of a vehicle plus the derived excluded dates.
type Calendar struct {
	VehicleID     string             `json:"vehicleId"`
	Ranges        []BlockedDateRange `json:"ranges"`
	ExcludedDates []string           `json:"excludedDates"`
}
