package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/bcrypt"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errUserNotFound = errors.New("User not found")

// HandleGetProfile godoc
//
//	@Summary		Get the caller's profile
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	models.User
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/user/profile [get]
func (a *Api) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	user, err := a.store.GetUserById(r.Context(), identity.Id)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.logger.Warn(err.Error(), "service", "HandleGetProfile")
			respondWithError(w, http.StatusNotFound, errUserNotFound)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleGetProfile")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, user)
}

// HandleUpdateProfile godoc
//
//	@Summary		Update the caller's profile
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			profile	body		models.HandleUpdateProfileParams	true	"fields to change"
//	@Success		200		{object}	models.HandleUpdateProfileResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Router			/api/user/profile [put]
func (a *Api) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	var params models.HandleUpdateProfileParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleUpdateProfile")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleUpdateProfile")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	update := &models.UserProfileUpdate{}

	if params.Username != "" {
		update.Username = &params.Username
	}

	if params.Phoneno != "" {
		update.Phoneno = &params.Phoneno
	}

	if params.Address != "" {
		update.Address = &params.Address
	}

	if params.Password != "" {
		hash, err := bcrypt.HashPassword(params.Password)

		if err != nil {
			a.respondWithHashError(w, err, "HandleUpdateProfile")
			return
		}

		update.Password = &hash
	}

	user, err := a.store.UpdateUserProfile(r.Context(), identity.Id, update)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			a.logger.Warn(err.Error(), "service", "HandleUpdateProfile")
			respondWithError(w, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, store.ErrUserExists):
			a.logger.Warn(err.Error(), "service", "HandleUpdateProfile")
			respondWithError(w, http.StatusConflict, err)
		default:
			a.logger.Error(err.Error(), "service", "HandleUpdateProfile")
			respondWithError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleUpdateProfileResponse{
		Message:  "Profile updated successfully",
		Username: user.Username,
		Phoneno:  user.Phoneno,
		Address:  user.Address,
	})
}

// HandleGetWishlist godoc
//
//	@Summary		List wishlisted books
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		models.Book
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/user/wishlist [get]
func (a *Api) HandleGetWishlist(w http.ResponseWriter, r *http.Request) {
	books, err := a.store.GetWishlistBooks(r.Context(), identityFrom(r).Id)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, errUserNotFound)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleGetWishlist")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, books)
}

func hexIds(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))

	for i, id := range ids {
		out[i] = id.Hex()
	}

	return out
}

// HandleAddToWishlist godoc
//
//	@Summary		Add a book to the wishlist
//	@Description	Adding a book that is already wishlisted leaves the wishlist unchanged
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			book	body		models.HandleWishlistParams	true	"book"
//	@Success		200		{object}	models.HandleWishlistResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/user/wishlist [post]
func (a *Api) HandleAddToWishlist(w http.ResponseWriter, r *http.Request) {
	var params models.HandleWishlistParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleAddToWishlist")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleAddToWishlist")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	if _, err := a.store.GetBook(r.Context(), params.Book_id); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAddToWishlist")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	wishlist, err := a.store.AddToWishlist(r.Context(), identityFrom(r).Id, params.Book_id)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, errUserNotFound)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAddToWishlist")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleWishlistResponse{
		Message:  "Book added to wishlist",
		Wishlist: hexIds(wishlist),
	})
}

// HandleRemoveFromWishlist godoc
//
//	@Summary		Remove a book from the wishlist
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			bookId	path		string	true	"book id"
//	@Success		200		{object}	models.MessageResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/api/user/wishlist/{bookId} [delete]
func (a *Api) HandleRemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	removed, err := a.store.RemoveFromWishlist(r.Context(), identityFrom(r).Id, chi.URLParam(r, "bookId"))

	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, errUserNotFound)
		case errors.Is(err, store.ErrInvalidId):
			respondWithError(w, http.StatusBadRequest, err)
		default:
			a.logger.Error(err.Error(), "service", "HandleRemoveFromWishlist")
			respondWithError(w, http.StatusInternalServerError, err)
		}
		return
	}

	if !removed {
		respondWithError(w, http.StatusNotFound, errors.New("Book not in wishlist"))
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.MessageResponse{Message: "Book removed from wishlist"})
}

// HandleGetNotifications godoc
//
//	@Summary		List the caller's notifications
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	models.Notification
//	@Router			/api/user/notifications [get]
func (a *Api) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := a.store.GetNotificationsByUser(r.Context(), identityFrom(r).Id)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetNotifications")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, notifications)
}

// HandleGetAllUsers godoc
//
//	@Summary		List all users
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		models.User
//	@Failure		403	{object}	models.ErrorResponse
//	@Router			/api/user/all [get]
func (a *Api) HandleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.GetAllUsers(r.Context())

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetAllUsers")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, users)
}

// HandleToggleBlockUser godoc
//
//	@Summary		Toggle a user's blocked flag
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"user id"
//	@Success		200	{object}	models.HandleBlockUserResponse
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/user/block/{id} [put]
func (a *Api) HandleToggleBlockUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.ToggleUserBlocked(r.Context(), chi.URLParam(r, "id"))

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, errUserNotFound)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleToggleBlockUser")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, blockResponse(user))
}

// HandleSetUserBlocked godoc
//
//	@Summary		Set a user's blocked flag
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			userId	path		string							true	"user id"
//	@Param			body	body		models.HandleSetBlockedParams	true	"blocked flag"
//	@Success		200		{object}	models.HandleBlockUserResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Router			/admindashboard/users/{userId}/block [patch]
func (a *Api) HandleSetUserBlocked(w http.ResponseWriter, r *http.Request) {
	var params models.HandleSetBlockedParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleSetUserBlocked")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleSetUserBlocked")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	user, err := a.store.SetUserBlocked(r.Context(), chi.URLParam(r, "userId"), *params.Is_blocked)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, errUserNotFound)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleSetUserBlocked")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, blockResponse(user))
}

func blockResponse(user *models.User) *models.HandleBlockUserResponse {
	message := "User unblocked"

	if user.Is_blocked {
		message = "User blocked"
	}

	return &models.HandleBlockUserResponse{Message: message, Is_blocked: user.Is_blocked}
}
