package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nexbuildhq/nexbuild-backend/internal/authctx"
	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderResponse struct {
	ID                uint64  `json:"id"`
	TrackingCode      string  `json:"trackingCode"`
	Status            string  `json:"status"`
	StatusMessage     string  `json:"statusMessage"`
	ComponentCost     int64   `json:"componentCost"`
	BuildCharge       int64   `json:"buildCharge"`
	DeliveryCharge    int64   `json:"deliveryCharge"`
	GST               int64   `json:"gst"`
	Total             int64   `json:"total"`
	PaymentOrderID    string  `json:"paymentOrderId,omitempty"`
	InvoiceURL        string  `json:"invoiceUrl,omitempty"`
	EstimatedDelivery *string `json:"estimatedDelivery,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	var eta *string
	if o.EstimatedDelivery != nil {
		val := o.EstimatedDelivery.Format(time.RFC3339)
		eta = &val
	}
	return OrderResponse{
		ID:                o.ID,
		TrackingCode:      o.TrackingCode,
		Status:            string(o.Status),
		StatusMessage:     o.Status.DefaultMessage(),
		ComponentCost:     o.ComponentCost,
		BuildCharge:       o.BuildCharge,
		DeliveryCharge:    o.DeliveryCharge,
		GST:               o.GST,
		Total:             o.Total,
		PaymentOrderID:    o.PaymentOrderID,
		InvoiceURL:        o.InvoiceURL,
		EstimatedDelivery: eta,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         o.UpdatedAt.Format(time.RFC3339),
	}
}

type OrderUpdateResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func toOrderUpdateResponses(updates []model.OrderUpdate) []OrderUpdateResponse {
	resp := make([]OrderUpdateResponse, 0, len(updates))
	for _, u := range updates {
		resp = append(resp, OrderUpdateResponse{
			Status:    string(u.Status),
			Message:   u.Message,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

type checkoutRequest struct {
	Email      string `json:"email"`
	Components []struct {
		Category    string `json:"category"`
		ComponentID uint64 `json:"componentId"`
	} `json:"components"`
	ExtraStorageIDs []uint64 `json:"extraStorageIds"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	sess, ok := authctx.SessionFrom(c.Request().Context())
	if !ok || sess.UID == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var body checkoutRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request body"))
	}
	email := body.Email
	if email == "" {
		email = sess.Email
	}
	in := service.CheckoutInput{
		CustomerUID:     sess.UID,
		CustomerEmail:   email,
		ExtraStorageIDs: body.ExtraStorageIDs,
	}
	for _, sel := range body.Components {
		in.Selections = append(in.Selections, service.SelectionInput{
			Category:    model.ComponentCategory(sel.Category),
			ComponentID: sel.ComponentID,
		})
	}
	o, err := h.svc.Checkout(c.Request().Context(), in)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

// Track is the public, unauthenticated order lookup by tracking code.
func (h *OrderHandler) Track(c echo.Context) error {
	tracked, err := h.svc.Track(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no order with that tracking code"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to look up order"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"order":   toOrderResponse(&tracked.Order),
		"updates": toOrderUpdateResponses(tracked.Updates),
	})
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	sess, ok := authctx.SessionFrom(c.Request().Context())
	if !ok || sess.UID == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByCustomer(c.Request().Context(), sess.UID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch orders"))
	}
	resp := make([]OrderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) Get(c echo.Context) error {
	sess, _ := authctx.SessionFrom(c.Request().Context())
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	o, sels, updates, err := h.svc.GetWithDetails(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch order"))
	}
	if sess.Role != authctx.RoleAdmin && sess.Role != authctx.RoleVendor && sess.UID != o.CustomerUID {
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
	}
	type selectionResponse struct {
		Category      string `json:"category"`
		ComponentID   uint64 `json:"componentId"`
		ComponentName string `json:"componentName"`
		UnitPrice     int64  `json:"unitPrice"`
		Quantity      int    `json:"quantity"`
	}
	selResp := make([]selectionResponse, 0, len(sels))
	for _, s := range sels {
		selResp = append(selResp, selectionResponse{
			Category:      string(s.Category),
			ComponentID:   s.ComponentID,
			ComponentName: s.ComponentName,
			UnitPrice:     s.UnitPrice,
			Quantity:      s.Quantity,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"order":      toOrderResponse(o),
		"selections": selResp,
		"updates":    toOrderUpdateResponses(updates),
	})
}

func (h *OrderHandler) List(c echo.Context) error {
	status := model.OrderStatus(c.QueryParam("status"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	list, total, err := h.svc.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	resp := make([]OrderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": resp,
		"total":  total,
	})
}

type statusChangeRequest struct {
	Message string `json:"message"`
}

func (h *OrderHandler) Advance(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	var body statusChangeRequest
	_ = c.Bind(&body)
	o, err := h.svc.Advance(c.Request().Context(), id, body.Message)
	if err != nil {
		return h.statusChangeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	var body statusChangeRequest
	_ = c.Bind(&body)
	o, err := h.svc.Cancel(c.Request().Context(), id, body.Message)
	if err != nil {
		return h.statusChangeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) statusChangeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
	case errors.Is(err, model.ErrTerminalStatus):
		return c.JSON(http.StatusConflict, NewErrorResponse("terminal_status", "cannot change a delivered or cancelled order"))
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, NewErrorResponse("conflict", err.Error()))
	default:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
}
