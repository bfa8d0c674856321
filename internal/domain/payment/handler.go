package payment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/alugacar/alugacar-web/internal/middleware"
	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	"github.com/alugacar/alugacar-web/internal/pkg/response"
	"github.com/alugacar/alugacar-web/internal/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Handler handles checkout and payment status HTTP requests
type Handler struct {
	service    *Service
	reconciler *Reconciler
	upgrader   websocket.Upgrader
}

// NewHandler creates payment handler
func NewHandler(service *Service, reconciler *Reconciler, allowedOrigins []string) *Handler {
	return &Handler{
		service:    service,
		reconciler: reconciler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || origin == allowed {
						return true
					}
				}
				logger.LogWarn(r.Context(), "WebSocket origin rejected", "origin", origin)
				return false
			},
		},
	}
}

// Open handles POST /checkout
// @Summary Abrir checkout
// @Description Abre a página de pagamento a partir de uma intenção de reserva ou de uma reserva existente
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body OpenRequest true "Entrada do checkout"
// @Success 201 {object} response.Response{data=View}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /checkout [post]
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	view := h.service.Open(r.Context(), middleware.GetUserID(r.Context()), req)
	response.Created(w, view)
}

// Get handles GET /checkout/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, view)
}

// SelectMethod handles PUT /checkout/{id}/method
func (h *Handler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req SelectMethodRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	view, err := h.service.SelectMethod(middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Method)
	if err != nil {
		h.handleError(w, err)
		return
	}
	response.OK(w, view)
}

// Confirm handles POST /checkout/{id}/confirm
// @Summary Confirmar pagamento
// @Description Cria a reserva (se necessário) e envia o pagamento. Um paymentUrl indica checkout hospedado pelo gateway
// @Tags Checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do checkout"
// @Param request body ConfirmRequest false "Dados do cartão"
// @Success 200 {object} response.Response{data=Outcome}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /checkout/{id}/confirm [post]
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	out, err := h.service.Confirm(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Card())
	if err != nil {
		h.handleError(w, err)
		return
	}
	if out.State == StateFailed {
		details := map[string]string{"state": string(StateFailed)}
		if out.BookingID != "" {
			details["bookingId"] = out.BookingID
		}
		response.ErrorWithDetails(w, failureStatus(out.Err), "PAYMENT_FAILED", out.Message, details)
		return
	}
	response.OK(w, out)
}

// PaymentStatus handles GET /bookings/{id}/payment-status
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	rec := h.reconciler.Check(r.Context(), chi.URLParam(r, "id"))
	if rec.Status == ReconcileError {
		status := http.StatusBadGateway
		if marketplace.IsNotFound(rec.Err) {
			status = http.StatusNotFound
		}
		response.ErrorWithDetails(w, status, "RECONCILE_FAILED", rec.Message, map[string]string{"navigateTo": rec.NavigateTo})
		return
	}
	response.OK(w, rec)
}

// PaymentStatusStream handles WS /bookings/{id}/payment-status/ws
func (h *Handler) PaymentStatusStream(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.LogError(r.Context(), err, "WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client only ever closes; reading keeps control frames flowing.
	go func() {
		defer cancel()
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Time{})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = h.reconciler.Watch(ctx, bookingID, func(rec Reconciliation) error {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(rec)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.LogWarn(r.Context(), "payment status stream ended", "booking_id", bookingID, "error", err.Error())
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(w, "Checkout não encontrado ou expirado.")
	case errors.Is(err, ErrPaymentInProgress):
		response.Conflict(w, "Pagamento em andamento. Aguarde.")
	case errors.Is(err, ErrAlreadyPaid):
		response.Conflict(w, "Esta reserva já foi paga.")
	case errors.Is(err, ErrMethodFrozen):
		response.Conflict(w, "A forma de pagamento não pode ser alterada agora.")
	case errors.Is(err, ErrNoBookingData):
		response.Unprocessable(w, "NO_BOOKING_DATA", MessageNoBookingData)
	case errors.Is(err, ErrUnknownMethod):
		response.Unprocessable(w, "UNKNOWN_METHOD", "Forma de pagamento não suportada.")
	case errors.Is(err, ErrInvalidPaymentDetails):
		response.Unprocessable(w, "INVALID_PAYMENT_DETAILS", "Dados do cartão inválidos.")
	default:
		response.InternalError(w)
	}
}

// failureStatus maps a backend failure onto the status of a failed confirm.
func failureStatus(err error) int {
	var apiErr *marketplace.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return http.StatusUnprocessableEntity
	case errors.Is(err, marketplace.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
