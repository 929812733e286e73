package handler

import (
	"context"
	"net/http"
	"time"
)

// ----- Handler: GET /orders/{order_id}/tracking -----

func (handler *TrackingHTTPHandler) handleTrackingSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	orderID := orderIDFromPath(r)
	if orderID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "missing order_id in path", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := handler.svc.GetTrackingSnapshot(ctxWithTimeout, orderID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, snap)
}
