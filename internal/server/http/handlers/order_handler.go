package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/server/http/dto"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	actorID := CurrentUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	input := usecase.CreateOrderInput{
		CustomerID:      actorID,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		ShippingMethod:  model.ShippingMethod(req.ShippingMethod),
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, usecase.CreateOrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		var (
			productErr *domainErrors.ProductNotFoundError
			variantErr *domainErrors.VariantNotFoundError
			stockErr   *domainErrors.InsufficientStockError
		)
		switch {
		case errors.Is(err, domainErrors.ErrEmptyOrder),
			errors.Is(err, domainErrors.ErrInvalidQuantity),
			errors.Is(err, domainErrors.ErrInvalidShipping):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &productErr), errors.As(err, &variantErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	actorID := CurrentUserID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.Order(c.Request.Context(), orderID, actorID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	actorID := CurrentUserID(c)

	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	filter, err := toSearchFilter(query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := h.facade.Orders(c.Request.Context(), filter, actorID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	resp := dto.ListOrdersResponse{
		Orders:   make([]dto.OrderResponse, 0, len(orders)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actorID := CurrentUserID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	next := model.OrderStatus(req.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}

	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), orderID, next, actorID, usecase.UpdateStatusInput{
		TrackingNumber: req.TrackingNumber,
		Location:       req.Location,
		Note:           req.Note,
	})
	if err != nil {
		var transitionErr *domainErrors.InvalidTransitionError
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrOrderTerminal), errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	actorID := CurrentUserID(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.CancelOrder(c.Request.Context(), orderID, req.Reason, actorID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

// Stats handles GET /api/orders/stats.
func (h *OrderHandler) Stats(c *gin.Context) {
	actorID := CurrentUserID(c)

	var vendorID *int64
	if raw := c.Query("vendor_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		vendorID = &id
	}

	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	stats, err := h.facade.OrderStats(c.Request.Context(), actorID, vendorID, from, to)
	if err != nil {
		if errors.Is(err, domainErrors.ErrForbidden) {
			c.Status(http.StatusForbidden)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(stats))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:              order.ID,
		Number:          order.Number,
		Status:          string(order.Status),
		PaymentStatus:   string(order.PaymentStatus),
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		TaxAmount:       order.TaxAmount,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		ShippingMethod:  string(order.ShippingMethod),
		TrackingNumber:  order.TrackingNumber,
		Notes:           order.Notes,
		CancelReason:    order.CancelReason,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Items:           make([]dto.OrderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			VendorID:    item.VendorID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			VariantName: item.VariantName,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	for _, entry := range order.Tracking {
		resp.Tracking = append(resp.Tracking, dto.TrackingResponse{
			Status:         string(entry.Status),
			Note:           entry.Note,
			TrackingNumber: entry.TrackingNumber,
			Location:       entry.Location,
			CreatedAt:      entry.CreatedAt,
		})
	}
	return resp
}

func toStatsResponse(stats *model.OrderStats) dto.StatsResponse {
	resp := dto.StatsResponse{
		StatusCounts:      make(map[string]int64, len(stats.StatusCounts)),
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.TotalRevenue,
		AverageOrderValue: stats.AverageOrderValue,
		Daily:             make([]dto.DailyStatResponse, 0, len(stats.Daily)),
	}
	for status, count := range stats.StatusCounts {
		resp.StatusCounts[string(status)] = count
	}
	for _, day := range stats.Daily {
		resp.Daily = append(resp.Daily, dto.DailyStatResponse{
			Day:     day.Day.Format("2006-01-02"),
			Orders:  day.Orders,
			Revenue: day.Revenue,
		})
	}
	return resp
}

func toSearchFilter(query dto.SearchQuery) (repository.SearchFilter, error) {
	filter := repository.SearchFilter{
		NumberContains: query.Q,
		CustomerID:     query.CustomerID,
		VendorID:       query.VendorID,
		Page:           query.Page,
		PageSize:       query.PageSize,
		SortAsc:        query.Order == "asc",
	}

	if query.Status != "" {
		status := model.OrderStatus(query.Status)
		if !status.Valid() {
			return filter, errors.New("unknown status " + query.Status)
		}
		filter.Status = &status
	}

	switch query.Sort {
	case "", "date":
		filter.SortBy = repository.SortByDate
	case "total":
		filter.SortBy = repository.SortByTotal
	case "status":
		filter.SortBy = repository.SortByStatus
	default:
		return filter, errors.New("unknown sort key " + query.Sort)
	}

	var err error
	if filter.From, err = parseTimeParam(query.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseTimeParam(query.To); err != nil {
		return filter, err
	}

	if query.MinTotal != "" {
		min, err := decimal.NewFromString(query.MinTotal)
		if err != nil {
			return filter, errors.New("invalid min_total")
		}
		filter.MinTotal = &min
	}
	if query.MaxTotal != "" {
		max, err := decimal.NewFromString(query.MaxTotal)
		if err != nil {
			return filter, errors.New("invalid max_total")
		}
		filter.MaxTotal = &max
	}

	return filter, nil
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("invalid time value " + raw)
	}
	return &t, nil
}
