package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"flowershop/internal/domain"
	"flowershop/internal/orders"
)

const orderCreatedMessage = "Thank you! Your order was created successfully. A florist will get back to you in a few business days."

type createOrderResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type listOrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []domain.Order `json:"orders"`
}

type orderResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (a *App) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	a.log(r).Info().Str("image_url", truncate(req.ImageURL, 120)).Str("prompt", truncate(req.Prompt, 120)).Msg("order request received")

	order, err := a.Orders.Create(r.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			a.json(w, http.StatusBadRequest, validationResponse{
				Error:  verr.Error(),
				Fields: map[string]string{"imageUrl": req.ImageURL, "prompt": req.Prompt},
			})
			return
		}
		a.log(r).Error().Err(err).Msg("create order failed")
		a.error(w, http.StatusInternalServerError, "Failed to create order", err.Error())
		return
	}
	a.log(r).Info().Int64("order_id", order.ID).Msg("order created")
	a.json(w, http.StatusCreated, createOrderResponse{Success: true, Order: order, Message: orderCreatedMessage})
}

func (a *App) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.Orders.List(r.Context())
	if err != nil {
		a.log(r).Error().Err(err).Msg("list orders failed")
		a.error(w, http.StatusInternalServerError, "Failed to fetch orders", "")
		return
	}
	a.json(w, http.StatusOK, listOrdersResponse{Success: true, Orders: list})
}

func (a *App) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Missing required fields", "")
		return
	}

	order, err := a.Orders.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case err == nil:
		a.log(r).Info().Int64("order_id", order.ID).Str("status", string(order.Status)).Msg("order status updated")
		a.json(w, http.StatusOK, orderResponse{Success: true, Order: order})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "Order not found", "")
	case domain.IsValidation(err):
		var verr *domain.ValidationError
		errors.As(err, &verr)
		a.error(w, http.StatusBadRequest, verr.Message, "")
	default:
		a.log(r).Error().Err(err).Int64("order_id", id).Msg("update order failed")
		a.error(w, http.StatusInternalServerError, "Failed to update order", "")
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
