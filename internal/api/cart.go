package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
)

// HandleGetCart godoc
//
//	@Summary	Get the caller's cart
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.Cart
//	@Router		/api/user/cart [get]
func (a *Api) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := a.store.GetCart(r.Context(), identityFrom(r).Id)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetCart")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, cart)
}

// HandleAddToCart godoc
//
//	@Summary		Add a book to the cart
//	@Description	Adding a book already in the cart increases its quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			item	body		models.HandleCartParams	true	"item, quantity defaults to 1"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/user/cart [post]
func (a *Api) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	var params models.HandleCartParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleAddToCart")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleAddToCart")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	if params.Quantity == 0 {
		params.Quantity = 1
	}

	if _, err := a.store.GetBook(r.Context(), params.Book_id); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAddToCart")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	cart, err := a.store.AddToCart(r.Context(), identityFrom(r).Id, params.Book_id, params.Quantity)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleAddToCart")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, cart)
}

// HandleUpdateCart godoc
//
//	@Summary	Set the quantity of a cart line
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		item	body		models.HandleUpdateCartParams	true	"item"
//	@Success	200		{object}	models.Cart
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Router		/api/user/cart [put]
func (a *Api) HandleUpdateCart(w http.ResponseWriter, r *http.Request) {
	var params models.HandleUpdateCartParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleUpdateCart")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleUpdateCart")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	cart, err := a.store.SetCartItemQuantity(r.Context(), identityFrom(r).Id, params.Book_id, params.Quantity)

	if err != nil {
		if errors.Is(err, store.ErrCartItemNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleUpdateCart")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, cart)
}

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a book from the cart
//	@Tags		cart
//	@Produce	json
//	@Security	BearerAuth
//	@Param		bookId	path		string	true	"book id"
//	@Success	200		{object}	models.Cart
//	@Failure	404		{object}	models.ErrorResponse
//	@Router		/api/user/cart/{bookId} [delete]
func (a *Api) HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cart, err := a.store.RemoveFromCart(r.Context(), identityFrom(r).Id, chi.URLParam(r, "bookId"))

	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) || errors.Is(err, store.ErrCartItemNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleRemoveFromCart")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, cart)
}
