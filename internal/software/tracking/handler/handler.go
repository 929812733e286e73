package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"
	"food-track/internal/domain/user"
	"food-track/internal/general/jwt"
	"food-track/internal/general/logger"
	"food-track/internal/ports"
	"food-track/internal/software/tracking/service"
)

// TrackingHTTPHandler adapts HTTP requests to the TrackingService.
type TrackingHTTPHandler struct {
	svc    ports.TrackingService
	logger *logger.Logger
	auth   *jwt.Manager
	users  ports.UserRepository
	uow    ports.UnitOfWork
}

// NewTrackingHTTPHandler wires an HTTP handler around the TrackingService.
func NewTrackingHTTPHandler(
	svc ports.TrackingService,
	logger *logger.Logger,
	auth *jwt.Manager,
	users ports.UserRepository,
	uow ports.UnitOfWork,
) *TrackingHTTPHandler {
	return &TrackingHTTPHandler{svc: svc, logger: logger, auth: auth, users: users, uow: uow}
}

// RegisterRoutes mounts tracking endpoints on the provided mux.
func (handler *TrackingHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCustomer, user.RoleAdmin)(handler.handleCreateOrder),
	)
	mux.HandleFunc("POST /couriers",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleAdmin)(handler.handleCreateCourier),
	)
	mux.HandleFunc("POST /orders/{order_id}/status",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleRestaurant, user.RoleAdmin)(handler.handleUpdateStatus),
	)
	mux.HandleFunc("POST /orders/{order_id}/assign",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleRestaurant, user.RoleAdmin)(handler.handleAssignCourier),
	)
	mux.HandleFunc("POST /orders/{order_id}/location",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCourier)(handler.handleReportLocation),
	)
	mux.HandleFunc("POST /orders/{order_id}/delivered",
		jwt.AuthMiddlewareFunc(handler.auth, user.RoleCourier)(handler.handleMarkDelivered),
	)
	mux.HandleFunc("GET /orders/{order_id}/tracking",
		jwt.AuthMiddlewareFunc(handler.auth,
			user.RoleCustomer, user.RoleCourier, user.RoleRestaurant, user.RoleAdmin,
		)(handler.handleTrackingSnapshot),
	)

	mux.HandleFunc("GET /tracking/health", handler.handleHealth)
	mux.HandleFunc("POST /tokens", handler.handleCreateToken)
}

// handleHealth reports liveness.
func (handler *TrackingHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ----- token issuance (testing surface) -----

type TokenRequest struct {
	UserID       string    `json:"user_id"`
	Role         user.Role `json:"role,omitempty"`
	RestaurantID string    `json:"restaurant_id,omitempty"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      user.Role `json:"role"`
}

// handleCreateToken mints JWTs. With an explicit role the token is issued
// as-is; without one the user record decides role and restaurant binding.
func (handler *TrackingHTTPHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	role := req.Role
	restaurantID := req.RestaurantID
	if role == "" {
		err := handler.uow.WithinTx(ctx, func(ctx context.Context) error {
			account, err := handler.users.GetByID(ctx, req.UserID)
			if err != nil {
				return err
			}
			role = account.Role
			if account.RestaurantID != nil {
				restaurantID = *account.RestaurantID
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				handler.httpError(ctx, w, http.StatusNotFound, "user not found", err)
				return
			}
			handler.httpError(ctx, w, http.StatusInternalServerError, "failed to resolve user", err)
			return
		}
	}

	tokenString, claims, err := handler.auth.IssueUserToken(req.UserID, role, restaurantID)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "Failed to generate token", err)
		return
	}

	handler.logger.Info(ctx, "token_generated", "JWT token generated successfully",
		map[string]any{"user_id": req.UserID, "role": role.String()})

	handler.jsonResponse(ctx, w, http.StatusCreated, TokenResponse{
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    req.UserID,
		Role:      role,
	})
}

// ----- general helpers -----

// jsonResponse takes any type of data and encode it to HTTP response.
func (handler *TrackingHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *TrackingHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// serviceError maps domain errors onto HTTP statuses. Unknown errors are 500.
func (handler *TrackingHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, courier.ErrNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, order.ErrTerminalState),
		errors.Is(err, order.ErrNoCourierAssigned),
		errors.Is(err, courier.ErrUnavailable):
		handler.httpError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.Is(err, service.ErrCourierMismatch):
		handler.httpError(ctx, w, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrCustomerRequired),
		errors.Is(err, order.ErrRestaurantRequired),
		errors.Is(err, order.ErrCourierRequired),
		errors.Is(err, courier.ErrNameRequired),
		errors.Is(err, geo.ErrInvalidLatitude),
		errors.Is(err, geo.ErrInvalidLongitude):
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		handler.httpError(ctx, w, http.StatusInternalServerError, "internal error", err)
	}
}

// orderIDFromPath fetches and trims the order_id path parameter.
func orderIDFromPath(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("order_id"))
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *TrackingHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
