package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/service"
)

type ComponentHandler struct {
	svc service.CatalogService
}

func NewComponentHandler(svc service.CatalogService) *ComponentHandler {
	return &ComponentHandler{svc: svc}
}

type ComponentResponse struct {
	ID       uint64 `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Price    int64  `json:"price"`
	InStock  bool   `json:"inStock"`
}

func toComponentResponse(c *model.Component) ComponentResponse {
	return ComponentResponse{
		ID:       c.ID,
		Category: string(c.Category),
		Name:     c.Name,
		Brand:    c.Brand,
		Price:    c.Price,
		InStock:  c.InStock,
	}
}

func (h *ComponentHandler) List(c echo.Context) error {
	category := model.ComponentCategory(c.QueryParam("category"))
	list, err := h.svc.List(c.Request().Context(), category)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	resp := make([]ComponentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toComponentResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ComponentHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid component id"))
	}
	comp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "component not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch component"))
	}
	return c.JSON(http.StatusOK, toComponentResponse(comp))
}
