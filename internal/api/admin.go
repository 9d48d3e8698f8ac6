package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/models"
	"golang.org/x/sync/errgroup"
)

const approvedBookStock = 100

var (
	errInvalidReviewStatus = errors.New("status must be Approved or Rejected")
	errMissingBookDetails  = errors.New("bookDetails with title and price are required to approve")
	errLiveFeedDisabled    = errors.New("live feed is not enabled")
)

// HandleGetDashboardStats godoc
//
//	@Summary	Get catalog and order counters
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.DashboardStats
//	@Router		/admindashboard/dashboard/stats [get]
func (a *Api) HandleGetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.store.GetDashboardStats(r.Context())

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetDashboardStats")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, stats)
}

// HandleUserDashboard godoc
//
//	@Summary	Get the caller's orders and submissions
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.HandleUserDashboardResponse
//	@Router		/admindashboard/dashboard/user [get]
func (a *Api) HandleUserDashboard(w http.ResponseWriter, r *http.Request) {
	userId := identityFrom(r).Id

	var res models.HandleUserDashboardResponse

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		orders, err := a.store.GetOrdersByUser(ctx, userId)
		res.Orders = orders
		return err
	})

	g.Go(func() error {
		submissions, err := a.store.GetSubmissionsByUser(ctx, userId)
		res.Submissions = submissions
		return err
	})

	if err := g.Wait(); err != nil {
		a.logger.Error(err.Error(), "service", "HandleUserDashboard")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &res)
}

func bookFromSubmission(submission *models.Submission, details *models.BookDetails) *models.Book {
	book := &models.Book{
		Title:            details.Title,
		Author:           details.Author,
		Price:            *details.Price,
		Genre:            details.Genre,
		Image_url:        details.Image_url,
		Description:      details.Description,
		Stock:            approvedBookStock,
		Publication_year: details.Publication_year,
	}

	if details.Stock != nil {
		book.Stock = *details.Stock
	}

	if details.Is_featured != nil {
		book.Is_featured = *details.Is_featured
	}

	if book.Author == "" {
		book.Author = submission.Author_name
	}

	if book.Genre == "" {
		book.Genre = submission.Genre
	}

	if book.Image_url == "" {
		book.Image_url = submission.Cover_url
	}

	if book.Description == "" {
		book.Description = submission.Synopsis
	}

	return book
}

// HandleReviewSubmission godoc
//
//	@Summary		Approve or reject a submission
//	@Description	Approving publishes the manuscript as a new book. A submission can be reviewed once.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string								true	"submission id"
//	@Param			review	body		models.HandleReviewSubmissionParams	true	"decision"
//	@Success		200		{object}	models.HandleReviewSubmissionResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Router			/admindashboard/submissions/{id}/review [patch]
func (a *Api) HandleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	var params models.HandleReviewSubmissionParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleReviewSubmission")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if !slices.Contains([]string{models.SubmissionStatusApproved, models.SubmissionStatusRejected}, params.Status) {
		a.logger.Warn(errInvalidReviewStatus.Error(), "service", "HandleReviewSubmission", "status", params.Status)
		respondWithError(w, http.StatusBadRequest, errInvalidReviewStatus)
		return
	}

	approve := params.Status == models.SubmissionStatusApproved

	if approve && (params.Book_details == nil || params.Book_details.Title == "" || params.Book_details.Price == nil || *params.Book_details.Price < 0) {
		a.logger.Warn(errMissingBookDetails.Error(), "service", "HandleReviewSubmission")
		respondWithError(w, http.StatusBadRequest, errMissingBookDetails)
		return
	}

	id := chi.URLParam(r, "id")

	submission, err := a.store.ClaimSubmissionReview(r.Context(), id, params.Status)

	if err != nil {
		a.respondWithSubmissionError(w, err, "HandleReviewSubmission")
		return
	}

	var book *models.Book

	if approve {
		book = bookFromSubmission(submission, params.Book_details)

		bookId, err := a.store.CreateBook(r.Context(), book)

		if err != nil {
			a.logger.Error(err.Error(), "service", "HandleReviewSubmission", "submission_id", id)

			if revertErr := a.store.RevertSubmissionReview(context.WithoutCancel(r.Context()), id); revertErr != nil {
				a.logger.Error(fmt.Sprintf("error reverting review: %v", revertErr), "service", "HandleReviewSubmission", "submission_id", id)
			}

			respondWithError(w, http.StatusInternalServerError, err)
			return
		}

		submission, err = a.store.AttachSubmissionBook(r.Context(), id, bookId)

		if err != nil {
			a.respondWithSubmissionError(w, err, "HandleReviewSubmission")
			return
		}
	}

	a.logger.Info("submission reviewed", "service", "HandleReviewSubmission", "submission_id", id, "status", submission.Status)

	a.publish(r.Context(), events.Event{
		Type:          events.TypeSubmissionReviewed,
		User_id:       submission.Submitted_by.Hex(),
		Submission_id: submission.Id.Hex(),
		Status:        submission.Status,
		Message:       fmt.Sprintf("Your manuscript %q was %s", submission.Title, submission.Status),
	})

	respondWithSuccess(w, http.StatusOK, &models.HandleReviewSubmissionResponse{
		Message:    fmt.Sprintf("Submission %s", submission.Status),
		Submission: submission,
		Book:       book,
	})
}

// HandleAdminUpdateSubmission godoc
//
//	@Summary	Set admin notes on a submission
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string									true	"submission id"
//	@Param		notes	body		models.HandleAdminUpdateSubmissionParams	true	"notes"
//	@Success	200		{object}	models.HandleSubmissionResponse
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Router		/admindashboard/submissions/{id} [put]
func (a *Api) HandleAdminUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	var params models.HandleAdminUpdateSubmissionParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleAdminUpdateSubmission")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleAdminUpdateSubmission")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	submission, err := a.store.UpdateSubmission(r.Context(), chi.URLParam(r, "id"), &models.SubmissionUpdate{Notes: &params.Notes})

	if err != nil {
		a.respondWithSubmissionError(w, err, "HandleAdminUpdateSubmission")
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleSubmissionResponse{
		Message:    "Submission updated successfully",
		Submission: submission,
	})
}

// HandleAdminWS godoc
//
//	@Summary		Live event feed
//	@Description	Upgrades to a websocket that receives every order and submission event as JSON.
//	@Tags			admin
//	@Security		BearerAuth
//	@Param			token	query	string	false	"bearer token, for clients that cannot set headers"
//	@Success		101
//	@Failure		503	{object}	models.ErrorResponse
//	@Router			/admindashboard/ws [get]
func (a *Api) HandleAdminWS(w http.ResponseWriter, r *http.Request) {
	if a.hub == nil {
		respondWithError(w, http.StatusServiceUnavailable, errLiveFeedDisabled)
		return
	}

	origins := a.config.CorsOrigins()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, origin)
		},
	}

	// Upgrade writes its own error response.
	conn, err := upgrader.Upgrade(w, r, nil)

	if err != nil {
		a.logger.Warn(fmt.Sprintf("error upgrading ws connection: %v", err), "service", "HandleAdminWS")
		return
	}

	a.hub.Attach(r.Context(), conn)
}
