package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	featuredLimit = 8
	similarLimit  = 8
)

// splitGenres breaks compound genre strings such as "Fantasy, Adventure and
// Romance" into their parts and returns them de-duplicated and sorted.
func splitGenres(raw []string) []string {
	seen := map[string]bool{}
	genres := []string{}

	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			for _, g := range strings.Split(part, " and ") {
				g = strings.TrimSpace(g)

				if g == "" || seen[g] {
					continue
				}

				seen[g] = true
				genres = append(genres, g)
			}
		}
	}

	sort.Strings(genres)

	return genres
}

func (a *Api) respondWithBooks(w http.ResponseWriter, books []models.Book, err error, service string) {
	if err != nil {
		a.logger.Error(err.Error(), "service", service)
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, books)
}

// HandleGetFeaturedBooks godoc
//
//	@Summary	List featured books
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}	models.Book
//	@Router		/api/books/featured [get]
func (a *Api) HandleGetFeaturedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := a.store.GetFeaturedBooks(r.Context(), featuredLimit)
	a.respondWithBooks(w, books, err, "HandleGetFeaturedBooks")
}

// HandleGetAllBooks godoc
//
//	@Summary	List all books
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}	models.Book
//	@Router		/api/books/all [get]
func (a *Api) HandleGetAllBooks(w http.ResponseWriter, r *http.Request) {
	books, err := a.store.GetAllBooks(r.Context())
	a.respondWithBooks(w, books, err, "HandleGetAllBooks")
}

// HandleGetGenres godoc
//
//	@Summary	List genres
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/api/books/genres [get]
func (a *Api) HandleGetGenres(w http.ResponseWriter, r *http.Request) {
	raw, err := a.store.GetGenres(r.Context())

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetGenres")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, splitGenres(raw))
}

// HandleGetBooksByGenre godoc
//
//	@Summary	List books in a genre
//	@Tags		books
//	@Produce	json
//	@Param		genre	query		string	true	"genre, matched case-insensitively"
//	@Success	200		{array}		models.Book
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/books/bygenre [get]
func (a *Api) HandleGetBooksByGenre(w http.ResponseWriter, r *http.Request) {
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))

	if genre == "" {
		respondWithError(w, http.StatusBadRequest, errors.New("genre is required"))
		return
	}

	books, err := a.store.GetBooksByGenre(r.Context(), genre)
	a.respondWithBooks(w, books, err, "HandleGetBooksByGenre")
}

// HandleGetSimilarBooks godoc
//
//	@Summary	List books similar to a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{array}		models.Book
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/books/similar/{id} [get]
func (a *Api) HandleGetSimilarBooks(w http.ResponseWriter, r *http.Request) {
	book, err := a.store.GetBook(r.Context(), chi.URLParam(r, "id"))

	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleGetSimilarBooks")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	books, err := a.store.GetSimilarBooks(r.Context(), book, similarLimit)
	a.respondWithBooks(w, books, err, "HandleGetSimilarBooks")
}

// HandleGetBook godoc
//
//	@Summary	Get a book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	models.Book
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/books/{id} [get]
func (a *Api) HandleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := a.store.GetBook(r.Context(), chi.URLParam(r, "id"))

	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleGetBook")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, book)
}

// HandleCreateBook godoc
//
//	@Summary	Create a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		book	body		models.HandleCreateBookParams	true	"book"
//	@Success	201		{object}	models.Book
//	@Failure	400		{object}	models.ErrorResponse
//	@Router		/api/books [post]
func (a *Api) HandleCreateBook(w http.ResponseWriter, r *http.Request) {
	var params models.HandleCreateBookParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleCreateBook")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleCreateBook")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	book := &models.Book{
		Title:            params.Title,
		Author:           params.Author,
		Price:            params.Price,
		Genre:            params.Genre,
		Image_url:        params.Image_url,
		Description:      params.Description,
		Stock:            params.Stock,
		Publication_year: params.Publication_year,
		Is_featured:      params.Is_featured,
	}

	if _, err := a.store.CreateBook(r.Context(), book); err != nil {
		a.logger.Error(err.Error(), "service", "HandleCreateBook")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusCreated, book)
}

// HandleUpdateBook godoc
//
//	@Summary	Update a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"book id"
//	@Param		book	body		models.BookUpdate	true	"fields to change"
//	@Success	200		{object}	models.Book
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Router		/api/books/{id} [put]
func (a *Api) HandleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var params models.BookUpdate

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleUpdateBook")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleUpdateBook")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	book, err := a.store.UpdateBook(r.Context(), chi.URLParam(r, "id"), &params)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrBookNotFound):
			respondWithError(w, http.StatusNotFound, err)
		case errors.Is(err, store.ErrShouldAtLeasePassOneFieldToUpdate):
			respondWithError(w, http.StatusBadRequest, err)
		default:
			a.logger.Error(err.Error(), "service", "HandleUpdateBook")
			respondWithError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respondWithSuccess(w, http.StatusOK, book)
}

// HandleDeleteBook godoc
//
//	@Summary	Delete a book
//	@Tags		books
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"book id"
//	@Success	200	{object}	models.MessageResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/books/{id} [delete]
func (a *Api) HandleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleDeleteBook")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.MessageResponse{Message: "Book deleted successfully"})
}

// HandleAddReview godoc
//
//	@Summary	Review a book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"book id"
//	@Param		review	body		models.HandleAddReviewParams	true	"review"
//	@Success	201		{object}	models.MessageResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Router		/api/books/{id}/reviews [post]
func (a *Api) HandleAddReview(w http.ResponseWriter, r *http.Request) {
	var params models.HandleAddReviewParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleAddReview")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleAddReview")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	userId, err := primitive.ObjectIDFromHex(identityFrom(r).Id)

	if err != nil {
		respondWithError(w, http.StatusUnauthorized, errInvalidToken)
		return
	}

	if err := a.store.AddReview(r.Context(), chi.URLParam(r, "id"), &models.Review{
		User:   userId,
		Rating: params.Rating,
		Review: params.Review,
	}); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			respondWithError(w, http.StatusNotFound, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAddReview")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusCreated, &models.MessageResponse{Message: "Review added successfully"})
}
