package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"food-track/internal/general/jwt"
	"food-track/internal/ports"
)

// ----- Handler: POST /orders/{order_id}/delivered -----

func (handler *TrackingHTTPHandler) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	orderID := orderIDFromPath(r)
	if orderID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing order_id in path", nil)
		return
	}

	claims := jwt.RequireClaims(r)
	if claims == nil {
		handler.httpError(ctx, w, http.StatusUnauthorized, "missing auth claims", errors.New("no claims"))
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The reporting courier comes from the token, never the body.
	res, err := handler.svc.MarkDelivered(ctxWithTimeout, ports.MarkDeliveredInput{
		OrderID:   orderID,
		CourierID: claims.Subject,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
