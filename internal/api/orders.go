package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/checkout"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/invoice"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
)

var errOrderNotFound = errors.New("Order not found")

func checkoutLines(items []models.OrderLine) []checkout.Line {
	lines := make([]checkout.Line, len(items))

	for i, item := range items {
		lines[i] = checkout.Line{Book_id: item.Book_id, Quantity: item.Quantity}
	}

	return lines
}

// checkoutStatus maps checkout failures onto response codes. Anything it does
// not recognise is a 500.
func checkoutStatus(err error) int {
	var (
		notFound     *checkout.BookNotFoundError
		insufficient *checkout.InsufficientStockError
		transition   *checkout.TransitionError
	)

	switch {
	case errors.Is(err, checkout.ErrNoItems),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidBookId),
		errors.Is(err, checkout.ErrMissingTotal),
		errors.Is(err, checkout.ErrMissingPaymentFields),
		errors.Is(err, checkout.ErrInvalidSignature),
		errors.Is(err, checkout.ErrAmountMismatch):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusBadRequest
	case errors.As(err, &notFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrInvalidId):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrUserBlocked),
		errors.Is(err, checkout.ErrNotOrderOwner):
		return http.StatusForbidden
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrPaymentsNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *Api) respondWithCheckoutError(w http.ResponseWriter, err error, service string) {
	code := checkoutStatus(err)

	if code == http.StatusInternalServerError {
		a.logger.Error(err.Error(), "service", service)
	} else {
		a.logger.Warn(err.Error(), "service", service)
	}

	switch {
	case errors.Is(err, store.ErrOrderNotFound), errors.Is(err, store.ErrInvalidId):
		err = errOrderNotFound
	case errors.Is(err, store.ErrUserNotFound):
		err = errUserNotFound
	case errors.Is(err, checkout.ErrUserBlocked):
		err = errAccountBlocked
	}

	respondWithError(w, code, err)
}

// HandlePlaceOrder godoc
//
//	@Summary		Place a cash-on-delivery order
//	@Description	Prices are taken from the catalog. The submitted total is only compared against the computed one.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			order	body		models.HandlePlaceOrderParams	true	"order"
//	@Success		201		{object}	models.HandlePlaceOrderResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		403		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/orders/place [post]
func (a *Api) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var params models.HandlePlaceOrderParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandlePlaceOrder")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandlePlaceOrder")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	identity := identityFrom(r)

	order, err := a.checkout.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
		User_id:      identity.Id,
		Items:        checkoutLines(params.Items),
		Total_amount: params.Total_amount,
		Address:      params.Address,
		Phone:        params.Phone,
	})

	if err != nil {
		a.countOrder(models.PaymentMethodCOD, "rejected")
		a.respondWithCheckoutError(w, err, "HandlePlaceOrder")
		return
	}

	a.countOrder(models.PaymentMethodCOD, "placed")
	a.logger.Info("order placed", "service", "HandlePlaceOrder", "order_id", order.Id.Hex(), "user_id", identity.Id)

	a.publish(r.Context(), events.Event{
		Type:     events.TypeOrderPlaced,
		User_id:  identity.Id,
		Order_id: order.Id.Hex(),
		Status:   order.Status,
		Message:  "Your order has been placed",
	})

	respondWithSuccess(w, http.StatusCreated, &models.HandlePlaceOrderResponse{
		Message:  "Order placed successfully",
		Order_id: order.Id.Hex(),
	})
}

// HandleGetOrderHistory godoc
//
//	@Summary	List the caller's orders, newest first
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	models.Order
//	@Router		/api/orders/history [get]
func (a *Api) HandleGetOrderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := a.store.GetOrdersByUser(r.Context(), identityFrom(r).Id)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetOrderHistory")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, orders)
}

// HandleGetAllOrders godoc
//
//	@Summary	List every order
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Order
//	@Failure	403	{object}	models.ErrorResponse
//	@Router		/api/orders/all [get]
func (a *Api) HandleGetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.store.GetAllOrders(r.Context())

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetAllOrders")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, orders)
}

// orderFor loads an order the caller may read: their own, or any order for
// an admin. It writes the error response itself.
func (a *Api) orderFor(w http.ResponseWriter, r *http.Request, service string) (*models.Order, bool) {
	order, err := a.store.GetOrder(r.Context(), chi.URLParam(r, "id"))

	if err != nil {
		a.respondWithCheckoutError(w, err, service)
		return nil, false
	}

	identity := identityFrom(r)

	if identity.Role != models.RoleAdmin && order.User_id.Hex() != identity.Id {
		a.logger.Warn("order does not belong to caller", "service", service, "order_id", order.Id.Hex(), "user_id", identity.Id)
		respondWithError(w, http.StatusForbidden, errAccessDenied)
		return nil, false
	}

	return order, true
}

// HandleGetOrder godoc
//
//	@Summary	Get an order
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"order id"
//	@Success	200	{object}	models.Order
//	@Failure	403	{object}	models.ErrorResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/orders/{id} [get]
func (a *Api) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := a.orderFor(w, r, "HandleGetOrder")

	if !ok {
		return
	}

	respondWithSuccess(w, http.StatusOK, order)
}

// HandleUpdateOrderStatus godoc
//
//	@Summary		Change an order's status
//	@Description	Allowed moves: Pending to Paid, Shipped or Cancelled. Paid to Shipped or Cancelled. Shipped to Delivered.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string								true	"order id"
//	@Param			status	body		models.HandleUpdateOrderStatusParams	true	"new status"
//	@Success		200		{object}	models.Order
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Router			/api/orders/{id} [put]
func (a *Api) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var params models.HandleUpdateOrderStatusParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleUpdateOrderStatus")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleUpdateOrderStatus")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	order, err := a.checkout.UpdateStatus(r.Context(), chi.URLParam(r, "id"), params.Status)

	if err != nil {
		a.respondWithCheckoutError(w, err, "HandleUpdateOrderStatus")
		return
	}

	a.publish(r.Context(), events.Event{
		Type:     events.TypeOrderStatusChanged,
		User_id:  order.User_id.Hex(),
		Order_id: order.Id.Hex(),
		Status:   order.Status,
		Message:  fmt.Sprintf("Your order is now %s", order.Status),
	})

	respondWithSuccess(w, http.StatusOK, order)
}

// HandleCancelOrder godoc
//
//	@Summary	Cancel one of the caller's orders
//	@Tags		orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"order id"
//	@Success	200	{object}	models.Order
//	@Failure	403	{object}	models.ErrorResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Failure	409	{object}	models.ErrorResponse
//	@Router		/api/orders/{id}/cancel [post]
func (a *Api) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	order, err := a.checkout.Cancel(r.Context(), chi.URLParam(r, "id"), identity.Id)

	if err != nil {
		a.respondWithCheckoutError(w, err, "HandleCancelOrder")
		return
	}

	a.publish(r.Context(), events.Event{
		Type:     events.TypeOrderStatusChanged,
		User_id:  identity.Id,
		Order_id: order.Id.Hex(),
		Status:   order.Status,
		Message:  "Your order has been cancelled",
	})

	respondWithSuccess(w, http.StatusOK, order)
}

// HandleGetInvoice godoc
//
//	@Summary	Download an order invoice
//	@Tags		orders
//	@Produce	application/pdf
//	@Security	BearerAuth
//	@Param		id	path		string	true	"order id"
//	@Success	200	{file}		binary
//	@Failure	403	{object}	models.ErrorResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/orders/{id}/invoice [get]
func (a *Api) HandleGetInvoice(w http.ResponseWriter, r *http.Request) {
	order, ok := a.orderFor(w, r, "HandleGetInvoice")

	if !ok {
		return
	}

	var buf bytes.Buffer

	if err := invoice.Write(&buf, order); err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetInvoice", "order_id", order.Id.Hex())
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, order.Id.Hex()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
