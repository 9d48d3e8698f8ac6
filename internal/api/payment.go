package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oseayemenre/bookstore/internal/checkout"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/payment"
)

const defaultCurrency = "INR"

// HandleCreatePaymentOrder godoc
//
//	@Summary		Open a gateway order for online payment
//	@Description	The amount is computed from catalog prices and sent to the gateway in minor units.
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			order	body		models.HandleCreatePaymentOrderParams	true	"items"
//	@Success		200		{object}	models.GatewayOrder
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		503		{object}	models.ErrorResponse
//	@Router			/api/payment/create-order [post]
func (a *Api) HandleCreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	var params models.HandleCreatePaymentOrderParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleCreatePaymentOrder")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleCreatePaymentOrder")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	quote, err := a.checkout.Price(r.Context(), checkoutLines(params.Items))

	if err != nil {
		a.respondWithCheckoutError(w, err, "HandleCreatePaymentOrder")
		return
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))

	if currency == "" {
		currency = defaultCurrency
	}

	order, err := a.gateway.CreateOrder(r.Context(), quote.Total, currency, "receipt_"+uuid.NewString())

	if err != nil {
		if errors.Is(err, payment.ErrGatewayNotConfigured) {
			a.logger.Warn(err.Error(), "service", "HandleCreatePaymentOrder")
			respondWithError(w, http.StatusServiceUnavailable, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleCreatePaymentOrder")
		respondWithError(w, http.StatusInternalServerError, errors.New("Failed to create payment order"))
		return
	}

	respondWithSuccess(w, http.StatusOK, order)
}

// HandleVerifyPayment godoc
//
//	@Summary		Verify a gateway payment and record the order
//	@Description	Verifying the same payment again returns the order recorded the first time.
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			payment	body		models.HandleVerifyPaymentParams	true	"gateway callback fields and items"
//	@Success		200		{object}	models.HandleVerifyPaymentResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		403		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Failure		503		{object}	models.ErrorResponse
//	@Router			/api/payment/verify-payment [post]
func (a *Api) HandleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var params models.HandleVerifyPaymentParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleVerifyPayment")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleVerifyPayment")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	identity := identityFrom(r)

	order, existing, err := a.checkout.VerifyPayment(r.Context(), checkout.VerifyPaymentInput{
		User_id:          identity.Id,
		Gateway_order_id: params.Razorpay_order_id,
		Payment_id:       params.Razorpay_payment_id,
		Signature:        params.Razorpay_signature,
		Items:            checkoutLines(params.Items),
		Total_amount:     params.Total_amount,
		Address:          params.Address,
		Phone:            params.Phone,
	})

	if err != nil {
		var insufficient *checkout.InsufficientStockError

		a.countOrder(models.PaymentMethodOnline, "rejected")

		// Payment already went through, so this is a conflict rather than a bad request.
		if errors.As(err, &insufficient) {
			a.logger.Warn(err.Error(), "service", "HandleVerifyPayment", "payment_id", params.Razorpay_payment_id)
			respondWithError(w, http.StatusConflict, err)
			return
		}

		a.respondWithCheckoutError(w, err, "HandleVerifyPayment")
		return
	}

	if existing {
		respondWithSuccess(w, http.StatusOK, &models.HandleVerifyPaymentResponse{
			Success:  true,
			Message:  "Payment already verified",
			Order_id: order.Id.Hex(),
		})
		return
	}

	a.countOrder(models.PaymentMethodOnline, "placed")
	a.logger.Info("payment verified", "service", "HandleVerifyPayment", "order_id", order.Id.Hex(), "payment_id", params.Razorpay_payment_id)

	a.publish(r.Context(), events.Event{
		Type:     events.TypeOrderPaid,
		User_id:  identity.Id,
		Order_id: order.Id.Hex(),
		Status:   order.Status,
		Message:  "Your payment was received and your order is confirmed",
	})

	respondWithSuccess(w, http.StatusOK, &models.HandleVerifyPaymentResponse{
		Success:  true,
		Message:  "Payment verified successfully",
		Order_id: order.Id.Hex(),
	})
}
