package booking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alugacar/alugacar-web/internal/domain/pricing"
	"github.com/alugacar/alugacar-web/internal/middleware"
	"github.com/alugacar/alugacar-web/internal/pkg/errorhandler"
	"github.com/alugacar/alugacar-web/internal/pkg/response"
	"github.com/alugacar/alugacar-web/internal/pkg/validator"
)

// Handler handles booking form HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BlockedDates handles GET /api/v1/vehicles/{id}/blocked-dates
func (h *Handler) BlockedDates(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.Calendar(r.Context(), chi.URLParam(r, "id")))
}

// Quote handles POST /api/v1/vehicles/{id}/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	q, err := h.service.Quote(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Window(), req.IncludeCalendar)
	if err != nil {
		errorhandler.HandleUpstreamError(r.Context(), w, "Não foi possível carregar o veículo.", err)
		return
	}
	response.OK(w, q)
}

// PrepareIntent handles POST /api/v1/vehicles/{id}/intents
func (h *Handler) PrepareIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	prepared, err := h.service.PrepareIntent(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Window(), req.Route())
	if err != nil {
		h.handleIntentError(w, r, err)
		return
	}
	response.Created(w, prepared)
}

func (h *Handler) handleIntentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		response.Unauthorized(w, UserMessage(err))
	case errors.Is(err, ErrOwnVehicle):
		response.Forbidden(w, UserMessage(err))
	case errors.Is(err, ErrUnavailable):
		response.Conflict(w, UserMessage(err))
	case errors.Is(err, ErrNoPrice), errors.Is(err, ErrInvalidCoordinate),
		errors.Is(err, pricing.ErrMissingDates), errors.Is(err, pricing.ErrInvalidDates),
		errors.Is(err, pricing.ErrInvalidWindow), errors.Is(err, pricing.ErrInvalidRates):
		response.Unprocessable(w, "INVALID_BOOKING", UserMessage(err))
	default:
		errorhandler.HandleUpstreamError(r.Context(), w, UserMessage(err), err)
	}
}

func currentUser(r *http.Request) CurrentUser {
	return CurrentUser{
		ID:   middleware.GetUserID(r.Context()),
		Name: middleware.GetUserName(r.Context()),
	}
}
