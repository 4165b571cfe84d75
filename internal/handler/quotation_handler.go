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

type QuotationHandler struct {
	svc service.QuotationService
}

func NewQuotationHandler(svc service.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

type QuotationResponse struct {
	ID        uint64 `json:"id"`
	VendorUID string `json:"vendorUid"`
	OrderID   uint64 `json:"orderId"`
	Price     int64  `json:"price"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toQuotationResponse(vq *model.VendorQuotation) QuotationResponse {
	return QuotationResponse{
		ID:        vq.ID,
		VendorUID: vq.VendorUID,
		OrderID:   vq.OrderID,
		Price:     vq.Price,
		Status:    string(vq.Status),
		CreatedAt: vq.CreatedAt.Format(time.RFC3339),
		UpdatedAt: vq.UpdatedAt.Format(time.RFC3339),
	}
}

type submitQuotationRequest struct {
	Lines []struct {
		ComponentID uint64 `json:"componentId"`
		UnitPrice   int64  `json:"unitPrice"`
		Quantity    int    `json:"quantity"`
	} `json:"lines"`
}

func (h *QuotationHandler) Submit(c echo.Context) error {
	sess, ok := authctx.SessionFrom(c.Request().Context())
	if !ok || sess.UID == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	var body submitQuotationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid request body"))
	}
	lines := make([]service.LineInput, 0, len(body.Lines))
	for _, ln := range body.Lines {
		lines = append(lines, service.LineInput{
			ComponentID: ln.ComponentID,
			UnitPrice:   ln.UnitPrice,
			Quantity:    ln.Quantity,
		})
	}
	vq, err := h.svc.Submit(c.Request().Context(), sess.UID, orderID, lines)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "order not found"))
		case errors.Is(err, service.ErrAlreadyQuoted):
			return c.JSON(http.StatusConflict, NewErrorResponse("already_quoted", "quotation already submitted for this order"))
		case errors.Is(err, service.ErrOrderClosed):
			return c.JSON(http.StatusConflict, NewErrorResponse("order_closed", "order is no longer open for quotations"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, toQuotationResponse(vq))
}

func (h *QuotationHandler) ListMine(c echo.Context) error {
	sess, ok := authctx.SessionFrom(c.Request().Context())
	if !ok || sess.UID == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	list, err := h.svc.ListByVendor(c.Request().Context(), sess.UID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch quotations"))
	}
	resp := make([]QuotationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toQuotationResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *QuotationHandler) Stats(c echo.Context) error {
	sess, ok := authctx.SessionFrom(c.Request().Context())
	if !ok || sess.UID == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	stats, err := h.svc.Stats(c.Request().Context(), sess.UID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch stats"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"vendorUid":  stats.VendorUID,
		"ordersWon":  stats.OrdersWon,
		"ordersLost": stats.OrdersLost,
	})
}

func (h *QuotationHandler) ListByOrder(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	list, err := h.svc.ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch quotations"))
	}
	resp := make([]QuotationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toQuotationResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *QuotationHandler) Accept(c echo.Context) error {
	return h.decide(c, true)
}

func (h *QuotationHandler) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *QuotationHandler) decide(c echo.Context, accept bool) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid order id"))
	}
	vendorUID := c.Param("vendor")
	if vendorUID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing vendor uid"))
	}
	vq, err := h.svc.Decide(c.Request().Context(), vendorUID, orderID, accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyDecided):
			return c.JSON(http.StatusConflict, NewErrorResponse("already_decided", "quotation was already decided"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "quotation not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to record decision"))
		}
	}
	return c.JSON(http.StatusOK, toQuotationResponse(vq))
}
