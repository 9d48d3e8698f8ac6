package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oseayemenre/bookstore/internal/bcrypt"
	"github.com/oseayemenre/bookstore/internal/jwt"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
)

var (
	errInvalidCredentials = errors.New("Invalid username or password")
	errPasswordMismatch   = errors.New("Passwords do not match")
	errInvalidCaptcha     = errors.New("Invalid captcha")
	errAccountBlocked     = errors.New("Your account has been blocked")
)

func (a *Api) checkCaptcha(r *http.Request, id string, answer string) error {
	if !a.config.Captcha_required {
		return nil
	}

	if id == "" || answer == "" {
		return errInvalidCaptcha
	}

	captcha, err := a.store.ConsumeCaptcha(r.Context(), id)

	if err != nil {
		if errors.Is(err, store.ErrCaptchaNotFound) {
			return errInvalidCaptcha
		}
		return err
	}

	if !strings.EqualFold(captcha.Text, strings.TrimSpace(answer)) {
		return errInvalidCaptcha
	}

	return nil
}

// HandleRegister godoc
//
//	@Summary		Register a user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.HandleRegisterParams	true	"registration details"
//	@Success		200		{object}	models.MessageResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Failure		500		{object}	models.ErrorResponse
//	@Router			/api/user/register [post]
func (a *Api) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var params models.HandleRegisterParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleRegister")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleRegister")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	if params.Password != params.Confirmpassword {
		respondWithError(w, http.StatusBadRequest, errPasswordMismatch)
		return
	}

	if err := a.checkCaptcha(r, params.Captcha_id, params.Captcha); err != nil {
		if errors.Is(err, errInvalidCaptcha) {
			a.logger.Warn(err.Error(), "service", "HandleRegister")
			respondWithError(w, http.StatusBadRequest, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleRegister")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	hash, err := bcrypt.HashPassword(params.Password)

	if err != nil {
		a.respondWithHashError(w, err, "HandleRegister")
		return
	}

	if _, err := a.store.CreateUser(r.Context(), &models.User{
		Username: params.Username,
		Phoneno:  params.Phoneno,
		Address:  params.Address,
		Password: hash,
	}); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			a.logger.Warn(err.Error(), "service", "HandleRegister")
			respondWithError(w, http.StatusConflict, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleRegister")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.MessageResponse{Message: "User registered successfully"})
}

func (a *Api) decodeLogin(w http.ResponseWriter, r *http.Request, service string) (*models.HandleLoginParams, bool) {
	var params models.HandleLoginParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", service)
		respondWithError(w, http.StatusBadRequest, err)
		return nil, false
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", service)
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return nil, false
	}

	return &params, true
}

// loginUser checks user credentials and issues a user token. It writes the
// error response itself and reports whether a token was issued.
func (a *Api) loginUser(w http.ResponseWriter, r *http.Request, params *models.HandleLoginParams, service string) (string, bool) {
	user, err := a.store.GetUserByUsername(r.Context(), params.Username)

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			a.logger.Warn(err.Error(), "service", service)
			respondWithError(w, http.StatusUnauthorized, errInvalidCredentials)
			return "", false
		}
		a.logger.Error(err.Error(), "service", service)
		respondWithError(w, http.StatusInternalServerError, err)
		return "", false
	}

	if err := bcrypt.ComparePassword(params.Password, user.Password); err != nil {
		a.logPasswordError(err, service)
		respondWithError(w, http.StatusUnauthorized, errInvalidCredentials)
		return "", false
	}

	if user.Is_blocked {
		a.logger.Warn("blocked user attempted login", "service", service, "user_id", user.Id.Hex())
		respondWithError(w, http.StatusForbidden, errAccountBlocked)
		return "", false
	}

	token, err := jwt.CreateJWTToken(user.Id.Hex(), user.Username, models.RoleUser, a.config.Jwt_secret, jwt.UserTokenTTL)

	if err != nil {
		a.logger.Error(err.Error(), "service", service)
		respondWithError(w, http.StatusInternalServerError, err)
		return "", false
	}

	return token, true
}

// HandleUserLogin godoc
//
//	@Summary		Log in as a user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.HandleLoginParams	true	"credentials"
//	@Success		200			{object}	models.HandleUserLoginResponse
//	@Failure		400			{object}	models.ErrorResponse
//	@Failure		401			{object}	models.ErrorResponse
//	@Failure		403			{object}	models.ErrorResponse
//	@Failure		429			{object}	models.ErrorResponse
//	@Router			/api/user/login [post]
func (a *Api) HandleUserLogin(w http.ResponseWriter, r *http.Request) {
	params, ok := a.decodeLogin(w, r, "HandleUserLogin")

	if !ok {
		return
	}

	token, ok := a.loginUser(w, r, params, "HandleUserLogin")

	if !ok {
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleUserLoginResponse{
		Message:   "Login successful",
		Usertoken: token,
		Role:      models.RoleUser,
	})
}

// adminToken returns ok=false with a nil error when no admin has the username.
func (a *Api) adminToken(r *http.Request, params *models.HandleLoginParams) (string, bool, error) {
	admin, err := a.store.GetAdminByUsername(r.Context(), params.Username)

	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	if err := bcrypt.ComparePassword(params.Password, admin.Password); err != nil {
		return "", false, errInvalidCredentials
	}

	token, err := jwt.CreateJWTToken(admin.Id.Hex(), admin.Username, models.RoleAdmin, a.config.Jwt_secret, jwt.UserTokenTTL)

	if err != nil {
		return "", false, err
	}

	return token, true, nil
}

// HandleAdminLogin godoc
//
//	@Summary		Log in as an admin
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.HandleLoginParams	true	"credentials"
//	@Success		200			{object}	models.HandleAdminLoginResponse
//	@Failure		401			{object}	models.ErrorResponse
//	@Router			/admin/login [post]
func (a *Api) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	params, ok := a.decodeLogin(w, r, "HandleAdminLogin")

	if !ok {
		return
	}

	token, ok, err := a.adminToken(r, params)

	if err != nil && !errors.Is(err, errInvalidCredentials) {
		a.logger.Error(err.Error(), "service", "HandleAdminLogin")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	if !ok {
		a.logger.Warn("invalid admin credentials", "service", "HandleAdminLogin")
		respondWithError(w, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleAdminLoginResponse{
		Message: "Login successful",
		Token:   token,
		Role:    models.RoleAdmin,
	})
}

// HandleLogin godoc
//
//	@Summary		Log in as an admin or a user
//	@Description	Tries admin credentials first and falls back to user credentials
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.HandleLoginParams	true	"credentials"
//	@Success		200			{object}	models.HandleAdminLoginResponse
//	@Failure		401			{object}	models.ErrorResponse
//	@Failure		403			{object}	models.ErrorResponse
//	@Router			/api/auth/login [post]
func (a *Api) HandleLogin(w http.ResponseWriter, r *http.Request) {
	params, ok := a.decodeLogin(w, r, "HandleLogin")

	if !ok {
		return
	}

	token, ok, err := a.adminToken(r, params)

	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			a.logger.Warn(err.Error(), "service", "HandleLogin")
			respondWithError(w, http.StatusUnauthorized, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleLogin")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	if ok {
		respondWithSuccess(w, http.StatusOK, &models.HandleAdminLoginResponse{
			Message: "Login successful",
			Token:   token,
			Role:    models.RoleAdmin,
		})
		return
	}

	token, ok = a.loginUser(w, r, params, "HandleLogin")

	if !ok {
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleAdminLoginResponse{
		Message: "Login successful",
		Token:   token,
		Role:    models.RoleUser,
	})
}

// HandleAuthorRegister godoc
//
//	@Summary		Register an author
//	@Tags			authors
//	@Accept			json
//	@Produce		json
//	@Param			author	body		models.HandleRegisterParams	true	"registration details"
//	@Success		201		{object}	models.MessageResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		409		{object}	models.ErrorResponse
//	@Router			/api/author/register [post]
func (a *Api) HandleAuthorRegister(w http.ResponseWriter, r *http.Request) {
	var params models.HandleRegisterParams

	if err := decodeJson(r, &params); err != nil {
		a.logger.Warn(err.Error(), "service", "HandleAuthorRegister")
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if err := validate.Struct(&params); err != nil {
		a.logger.Warn(fmt.Sprintf("validation error: %v", err), "service", "HandleAuthorRegister")
		respondWithError(w, http.StatusBadRequest, fmt.Errorf("validation error: %v", err))
		return
	}

	if params.Password != params.Confirmpassword {
		respondWithError(w, http.StatusBadRequest, errPasswordMismatch)
		return
	}

	hash, err := bcrypt.HashPassword(params.Password)

	if err != nil {
		a.respondWithHashError(w, err, "HandleAuthorRegister")
		return
	}

	if _, err := a.store.CreateAuthor(r.Context(), &models.Author{
		Username: params.Username,
		Phoneno:  params.Phoneno,
		Address:  params.Address,
		Password: hash,
	}); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			a.logger.Warn(err.Error(), "service", "HandleAuthorRegister")
			respondWithError(w, http.StatusConflict, err)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAuthorRegister")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusCreated, &models.MessageResponse{Message: "Author registered successfully"})
}

// HandleAuthorLogin godoc
//
//	@Summary		Log in as an author
//	@Tags			authors
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.HandleLoginParams	true	"credentials"
//	@Success		200			{object}	models.HandleAuthorLoginResponse
//	@Failure		401			{object}	models.ErrorResponse
//	@Failure		403			{object}	models.ErrorResponse
//	@Router			/api/author/login [post]
func (a *Api) HandleAuthorLogin(w http.ResponseWriter, r *http.Request) {
	params, ok := a.decodeLogin(w, r, "HandleAuthorLogin")

	if !ok {
		return
	}

	author, err := a.store.GetAuthorByUsername(r.Context(), params.Username)

	if err != nil {
		if errors.Is(err, store.ErrAuthorNotFound) {
			a.logger.Warn(err.Error(), "service", "HandleAuthorLogin")
			respondWithError(w, http.StatusUnauthorized, errInvalidCredentials)
			return
		}
		a.logger.Error(err.Error(), "service", "HandleAuthorLogin")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	if err := bcrypt.ComparePassword(params.Password, author.Password); err != nil {
		a.logPasswordError(err, "HandleAuthorLogin")
		respondWithError(w, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	if author.Is_blocked {
		respondWithError(w, http.StatusForbidden, errAccountBlocked)
		return
	}

	token, err := jwt.CreateJWTToken(author.Id.Hex(), author.Username, models.RoleAuthor, a.config.Jwt_secret, jwt.AuthorTokenTTL)

	if err != nil {
		a.logger.Error(err.Error(), "service", "HandleAuthorLogin")
		respondWithError(w, http.StatusInternalServerError, err)
		return
	}

	respondWithSuccess(w, http.StatusOK, &models.HandleAuthorLoginResponse{
		Message:     "Login successful",
		Authortoken: token,
		Author:      author,
	})
}

func (a *Api) respondWithHashError(w http.ResponseWriter, err error, service string) {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		a.logger.Warn(err.Error(), "service", service)
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	a.logger.Error(err.Error(), "service", service)
	respondWithError(w, http.StatusInternalServerError, err)
}

// logPasswordError logs a wrong password as a warning and a broken stored
// hash as an error. Both answer the caller with invalid credentials.
func (a *Api) logPasswordError(err error, service string) {
	if errors.Is(err, bcrypt.ErrPasswordMismatch) {
		a.logger.Warn(err.Error(), "service", service)
		return
	}

	a.logger.Error(err.Error(), "service", service)
}
