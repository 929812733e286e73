package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"food-track/internal/domain/order"
	"food-track/internal/general/jwt"
	"food-track/internal/ports"
)

type createOrderRequest struct {
	CustomerID   string       `json:"customer_id,omitempty"`
	RestaurantID string       `json:"restaurant_id"`
	Items        []order.Item `json:"items,omitempty"`
	TotalAmount  float64      `json:"total_amount,omitempty"`
}

// ----- Handler: POST /orders -----

func (handler *TrackingHTTPHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	var req createOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	// Customers create orders for themselves; admins may create for anyone.
	customerID := req.CustomerID
	if claims.Role.IsCustomer() {
		customerID = claims.Subject
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.CreateOrder(ctxWithTimeout, ports.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: req.RestaurantID,
		Items:        req.Items,
		TotalAmount:  req.TotalAmount,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, res)
}
