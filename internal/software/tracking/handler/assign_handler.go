package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"food-track/internal/ports"
)

type assignCourierRequest struct {
	CourierID string `json:"courier_id"`
}

// ----- Handler: POST /orders/{order_id}/assign -----

func (handler *TrackingHTTPHandler) handleAssignCourier(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	orderID := orderIDFromPath(r)
	if orderID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing order_id in path", nil)
		return
	}

	var req assignCourierRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if strings.TrimSpace(req.CourierID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "courier_id is required", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := handler.svc.AssignCourier(ctxWithTimeout, ports.AssignCourierInput{
		OrderID:   orderID,
		CourierID: req.CourierID,
	})
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, res)
}
