package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxSubmissionBytes = 20 << 20
	maxCoverBytes      = 5 << 20
)

var (
	errSubmissionNotFound = errors.New("Submission not found")
	errSubmissionApproved = errors.New("Approved submissions cannot be modified")
	errInvalidCoverType   = errors.New("cover image must be an image")
	errCoverTooLarge      = errors.New("cover image too large")
)

// uploadFormFile stores the named multipart file and returns its URL. A
// missing file returns an empty URL and no error.
func (a *Api) uploadFormFile(r *http.Request, field string, imageOnly bool) (string, error) {
	file, header, err := r.FormFile(field)

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	defer file.Close()

	data, err := io.ReadAll(file)

	if err != nil {
		return "", fmt.Errorf("error reading bytes: %v", err)
	}

	if imageOnly {
		if len(data) > maxCoverBytes {
			return "", errCoverTooLarge
		}

		if contentType := http.DetectContentType(data); !strings.HasPrefix(contentType, "image/") {
			return "", errInvalidCoverType
		}
	}

	name := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(header.Filename))

	return a.objectStore.UploadFile(r.Context(), bytes.NewReader(data), name)
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, errCoverTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errInvalidCoverType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// HandleCreateSubmission godoc
//
//	@Summary	Submit a manuscript
//	@Tags		submissions
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		title		formData	string	true	"title"
//	@Param		synopsis	formData	string	true	"synopsis"
//	@Param		genre		formData	string	false	"genre"
//	@Param		authorName	formData	string	false	"author name, defaults to the caller's username"
//	@Param		coverImage	formData	file	false	"cover image"
//	@Param		manuscript	formData	file	false	"manuscript"
//	@Success	201			{object}	models.HandleSubmissionResponse
//	@Failure	400			{object}	models.ErrorResponse
//	@Failure	413			{object}	models.ErrorResponse
//	@Router		/api/submission [post]
func (a *Api) HandleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		a.logger.Warn(fmt.Sprintf("error parsing form: %v", err), "service", "HandleCreateSubmission")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("error parsing form: %v", err))
		return
	}

	defer r.MultipartForm.RemoveAll()

	identity := identityFrom(r)

	params := models.HandleUploadSubmissionRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Synopsis:    strings.TrimSpace(r.FormValue("synopsis")),
		Genre:       strings.TrimSpace(r.FormValue("genre")),
		Author_name: strings.TrimSpace(r.FormValue("authorName")),
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleCreateSubmission")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	if params.Author_name == "" {
		params.Author_name = identity.Username
	}

	submitter, err := primitive.ObjectIDFromHex(identity.Id)

	if err != nil {
		respondWithError(w, http.StatusUnauthorized, errInvalidToken)
		return
	}

	coverUrl, err := a.uploadFormFile(r, "coverImage", true)

	if err != nil {
		a.logger.Warn(err.Error(), "service", "HandleCreateSubmission")
		respondWithError(w, uploadStatus(err), err)
		return
	}

	manuscriptUrl, err := a.uploadFormFile(r, "manuscript", false)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleCreateSubmission")
		respondWithError(w, uploadStatus(err), err)
		return
	}

	submission := &models.Submission{
		Title:          params.Title,
		Author_name:    params.Author_name,
		Synopsis:       params.Synopsis,
		Genre:          params.Genre,
		Cover_url:      coverUrl,
		Manuscript_url: manuscriptUrl,
		Submitted_by:   submitter,
		Status:         models.SubmissionStatusPending,
	}

	if _, err := a.store.CreateSubmission(r.Context(), submission); err != nil {
		a.logger.Error(err.Error(), "service", "HandleCreateSubmission")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	a.publish(r.Context(), events.Event{
		Type:          events.TypeSubmissionCreated,
		User_id:       identity.Id,
		Submission_id: submission.Id.Hex(),
		Status:        submission.Status,
		Message:       fmt.Sprintf("Your manuscript %q was received", submission.Title),
	})

	respondWithSuccess(w, http.StatusCreated, &models.HandleSubmissionResponse{
		Message:    "Submission created successfully",
		Submission: submission,
	})
}

// HandleGetMySubmissions godoc
//
//	@Summary	List the caller's submissions
//	@Tags		submissions
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	models.Submission
//	@Router		/api/submission/my [get]
func (a *Api) HandleGetMySubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := a.store.GetSubmissionsByUser(r.Context(), identityFrom(r).Id)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetMySubmissions")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, submissions)
}

// HandleGetAllSubmissions godoc
//
//	@Summary	List every submission
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Submission
//	@Failure	403	{object}	models.ErrorResponse
//	@Router		/api/submission/all [get]
func (a *Api) HandleGetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := a.store.GetAllSubmissions(r.Context())

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleGetAllSubmissions")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, submissions)
}

// submissionFor loads a submission and checks the caller owns it, or is an
// admin when allowAdmin is set. It writes the error response itself.
func (a *Api) submissionFor(w http.ResponseWriter, r *http.Request, allowAdmin bool, service string) (*models.Submission, bool) {
	submission, err := a.store.GetSubmission(r.Context(), chi.URLParam(r, "id"))

	if err != nil {
		if errors.Is(err, store.ErrSubmissionNotFound) {
			a.logger.Warn(err.Error(), "service", service)
			respondWithError(w, http.StatusNotFound, errSubmissionNotFound)
			return nil, false
		}
		a.logger.Error(err.Error(), "service", service)
		respondWithError(w, http.StatusInternalServerError, err)
		return nil, false
	}

	identity := identityFrom(r)

	if submission.Submitted_by.Hex() == identity.Id || (allowAdmin && identity.Role == models.RoleAdmin) {
		return submission, true
	}

	a.logger.Warn("submission does not belong to caller", "service", service, "submission_id", submission.Id.Hex(), "user_id", identity.Id)
	respondWithError(w, http.StatusForbidden, errAccessDenied)

	return nil, false
}

func (a *Api) respondWithSubmissionError(w http.ResponseWriter, err error, service string) {
	switch {
	case errors.Is(err, store.ErrSubmissionNotFound):
		a.logger.Warn(err.Error(), "service", service)
		respondWithError(w, http.StatusNotFound, errSubmissionNotFound)
	case errors.Is(err, store.ErrSubmissionApproved):
		a.logger.Warn(err.Error(), "service", service)
		respondWithError(w, http.StatusBadRequest, errSubmissionApproved)
	case errors.Is(err, store.ErrSubmissionAlreadyReviewed):
		a.logger.Warn(err.Error(), "service", service)
		respondWithError(w, http.StatusConflict, err)
	default:
		a.logger.Error(err.Error(), "service", service)
		respondWithError(w, http.StatusInternalServerError, err)
	}
}

// HandleGetSubmission godoc
//
//	@Summary	Get a submission
//	@Tags		submissions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"submission id"
//	@Success	200	{object}	models.Submission
//	@Failure	403	{object}	models.ErrorResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/submission/{id} [get]
func (a *Api) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	submission, ok := a.submissionFor(w, r, true, "HandleGetSubmission")

	if !ok {
		return
	}

	respondWithSuccess(w, http.StatusOK, submission)
}

// HandleUpdateSubmission godoc
//
//	@Summary		Edit one of the caller's submissions
//	@Description	Accepts JSON or multipart. Multipart requests may replace the cover image and manuscript. Status cannot be changed here.
//	@Tags			submissions
//	@Accept			json,mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string								true	"submission id"
//	@Param			submission	body		models.HandleUpdateSubmissionParams	false	"fields to change"
//	@Success		200			{object}	models.HandleSubmissionResponse
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		403			{object}	models.ErrorResponse
//	@Failure		404			{object}	models.ErrorResponse
//	@Router			/api/submission/{id} [put]
func (a *Api) HandleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	submission, ok := a.submissionFor(w, r, false, "HandleUpdateSubmission")

	if !ok {
		return
	}

	if submission.Status == models.SubmissionStatusApproved {
		a.logger.Warn("approved submission edit", "service", "HandleUpdateSubmission", "submission_id", submission.Id.Hex())
		respondWithError(w, http.StatusBadRequest, errSubmissionApproved)
		return
	}

	var params models.HandleUpdateSubmissionParams

	update := &models.SubmissionUpdate{}

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

		if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
			a.logger.Warn(fmt.Sprintf("error parsing form: %v", err), "service", "HandleUpdateSubmission")
			respondWithError(w, http.StatusBadRequest, fmt.Errorf("error parsing form: %v", err))
			return
		}

		defer r.MultipartForm.RemoveAll()

		params.Title = r.FormValue("title")
		params.Synopsis = r.FormValue("synopsis")
		params.Genre = r.FormValue("genre")

		coverUrl, err := a.uploadFormFile(r, "coverImage", true)

		if err != nil {
			a.logger.Warn(err.Error(), "service", "HandleUpdateSubmission")
			respondWithError(w, uploadStatus(err), err)
			return
		}

		manuscriptUrl, err := a.uploadFormFile(r, "manuscript", false)

		if err != nil {
			a.logger.Error(err.Error(), "service", "HandleUpdateSubmission")
			respondWithError(w, uploadStatus(err), err)
			return
		}

		if coverUrl != "" {
			update.Cover_url = &coverUrl
		}

		if manuscriptUrl != "" {
			update.Manuscript_url = &manuscriptUrl
		}
	} else if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleUpdateSubmission")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if title := strings.TrimSpace(params.Title); title != "" {
		update.Title = &title
	}

	if synopsis := strings.TrimSpace(params.Synopsis); synopsis != "" {
		update.Synopsis = &synopsis
	}

	if genre := strings.TrimSpace(params.Genre); genre != "" {
		update.Genre = &genre
	}

	updated, err := a.store.UpdateSubmission(r.Context(), submission.Id.Hex(), update)

	if err != nil {
		a.respondWithSubmissionError(w, err, "HandleUpdateSubmission")
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleSubmissionResponse{
		Message:    "Submission updated successfully",
		Submission: updated,
	})
}

// HandleDeleteSubmission godoc
//
//	@Summary	Delete a submission
//	@Tags		submissions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"submission id"
//	@Success	200	{object}	models.MessageResponse
//	@Failure	400	{object}	models.ErrorResponse
//	@Failure	403	{object}	models.ErrorResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/api/submission/{id} [delete]
func (a *Api) HandleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	submission, ok := a.submissionFor(w, r, true, "HandleDeleteSubmission")

	if !ok {
		return
	}

	if submission.Status == models.SubmissionStatusApproved {
		respondWithError(w, http.StatusBadRequest, errSubmissionApproved)
		return
	}

	if err := a.store.DeleteSubmission(r.Context(), submission.Id.Hex()); err != nil {
		a.respondWithSubmissionError(w, err, "HandleDeleteSubmission")
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.MessageResponse{Message: "Submission deleted successfully"})
}
