package http

import (
	"net/http"

	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/expressimports/backend/pkg/money"
)

type StockOrderHandler struct {
	orderUsecase usecase.StockOrderUC
	logger       logger.Logger
}

func NewStockOrderHandler(orderUsecase usecase.StockOrderUC, logger logger.Logger) *StockOrderHandler {
	return &StockOrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// listStockOrders
//
//	@Summary	Заказы со склада
//	@Tags		stock-orders
//	@Produce	json
//	@Success	200	{array}		StockOrderResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/stock-orders [get]
func (h *StockOrderHandler) listStockOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.ListStockOrders(r.Context())
	if err != nil {
		h.logger.Errorf(err, "failed to list stock orders")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStockOrderResponses(orders))
}

// placeOrder
//
//	@Summary		Оформление заказа со склада
//	@Description	Остатки списываются атомарно: либо весь заказ, либо ничего.
//	@Tags			stock-orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		PlaceOrderRequest	true	"Заказ"
//	@Success		201		{object}	OrderCreatedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Товара нет или не хватает остатка"
//	@Router			/stock-orders [post]
func (h *StockOrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.orderUsecase.PlaceOrder(r.Context(), req.toReq())
	if err != nil {
		logResult(h.logger, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, OrderCreatedResponse{
		ID:      res.ID,
		Total:   money.Format(res.Total),
		Message: msgOrderCreated,
	})
}

// updateOrderStatus
//
//	@Summary	Смена статуса заказа и трек-номера
//	@Tags		stock-orders
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID заказа"
//	@Param		status	body		UpdateStatusRequest	true	"pending, processing, shipped или delivered"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/stock-orders/{id}/status [put]
func (h *StockOrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	err = h.orderUsecase.UpdateOrderStatus(r.Context(), id, &usecase.UpdateOrderStatusReq{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		logResult(h.logger, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msgStatusUpdated})
}
