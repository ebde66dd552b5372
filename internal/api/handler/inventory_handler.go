package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/restauranthub/inventory-system/internal/api/metrics"
	"github.com/restauranthub/inventory-system/internal/core/domain"
	"github.com/restauranthub/inventory-system/internal/core/ports"
)

// InventoryHandler handles HTTP requests for inventory items.
type InventoryHandler struct {
	service ports.InventoryService
	log     zerolog.Logger
}

func NewInventoryHandler(service ports.InventoryService, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, log: log}
}

// List handles GET /api/inventory.
//
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Case-insensitive name filter"
// @Param        category  query     string  false  "Category filter"
// @Param        status    query     string  false  "all, low or in_stock"
// @Success      200       {array}   itemResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context(), ports.ListItemsInput{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemsResponse(items))
}

// Stats handles GET /api/inventory/stats.
//
// @Summary      Dashboard statistics
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/inventory/stats [get]
func (h *InventoryHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Get handles GET /api/inventory/:id.
//
// @Summary      Get an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Create handles POST /api/inventory.
//
// @Summary      Create an inventory item
// @Tags         inventory
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body   body      createItemRequest  false  "Item (JSON)"
// @Param        image  formData  file               false  "Item image (multipart only)"
// @Success      201    {object}  itemResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	var req createItemRequest
	if isForm(c) {
		if err := parseForm(c); err != nil {
			return err
		}
		req.Name = c.FormValue("name")
		req.Category = c.FormValue("category")
		req.Unit = c.FormValue("unit")
		if req.Quantity, err = formFloat(c, "quantity"); err != nil {
			return err
		}
		if req.ReorderLevel, err = formFloat(c, "reorderLevel"); err != nil {
			return err
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, cleanup, err := stageImage(c, h.log)
	if err != nil {
		return err
	}
	defer cleanup()

	item, err := h.service.Create(c.Request().Context(), who, ports.CreateItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		Image:        image,
	})
	if err != nil {
		return err
	}

	metrics.ItemsMutatedTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

// Update handles PUT /api/inventory/:id. Only supplied fields are changed.
//
// @Summary      Update an inventory item
// @Tags         inventory
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string             true   "Item id"
// @Param        body   body      updateItemRequest  false  "Fields to change (JSON)"
// @Param        image  formData  file               false  "Replacement image (multipart only)"
// @Success      200    {object}  itemResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if isForm(c) {
		if err := parseForm(c); err != nil {
			return err
		}
		req.Name = formString(c, "name")
		req.Category = formString(c, "category")
		req.Unit = formString(c, "unit")
		req.Image = formString(c, "image")
		if req.Quantity, err = formFloat(c, "quantity"); err != nil {
			return err
		}
		if req.ReorderLevel, err = formFloat(c, "reorderLevel"); err != nil {
			return err
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	image, cleanup, err := stageImage(c, h.log)
	if err != nil {
		return err
	}
	defer cleanup()

	item, err := h.service.Update(c.Request().Context(), who, c.Param("id"), ports.UpdateItemInput{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		ImageRef:     req.Image,
		Image:        image,
	})
	if err != nil {
		return err
	}

	metrics.ItemsMutatedTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete handles DELETE /api/inventory/:id.
//
// @Summary      Delete an inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}

	metrics.ItemsMutatedTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Item removed"})
}

// AdjustStock handles PATCH /api/inventory/:id/stock.
//
// @Summary      Apply a signed quantity delta
// @Description  Positive amounts restock, negative amounts record usage. Fails without
// @Description  writing when the result would be negative.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string              true   "Item id"
// @Param        Idempotency-Key  header    string              false  "Retry key; repeats return the first result"
// @Param        body             body      adjustStockRequest  true   "Delta"
// @Success      200              {object}  itemResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /api/inventory/{id}/stock [patch]
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	direction := string(domain.MovementKindForDelta(*req.Amount))
	item, err := h.service.AdjustStock(c.Request().Context(), who, ports.StockAdjustment{
		ItemID:         c.Param("id"),
		Amount:         *req.Amount,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		metrics.StockAdjustmentsTotal.WithLabelValues(direction, adjustmentResult(err)).Inc()
		return err
	}

	metrics.StockAdjustmentsTotal.WithLabelValues(direction, "applied").Inc()
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Movements handles GET /api/inventory/:id/movements.
//
// @Summary      Stock movement log for an item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Item id"
// @Param        limit  query     int     false  "Maximum entries (default 50, max 200)"
// @Success      200    {array}   movementResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) Movements(c echo.Context) error {
	who, err := actor(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	movements, err := h.service.Movements(c.Request().Context(), who, c.Param("id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMovementsResponse(movements))
}

func adjustmentResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrForbidden):
		return "invalid"
	default:
		return "error"
	}
}
