package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/response"
)

// UserHandler is the thin HTTP layer over the user service.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	tokens, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, tokens)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := h.bindAndValidate(c, &req); err != nil {
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tokens)
}

// handleError maps domain errors onto HTTP status codes.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())

	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, err.Error())

	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	default:
		// Validation errors from ozzo surface as 400, everything else is 500.
		if isValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalServerError(c, "We got an error in processing this request")
	}
}

func (h *UserHandler) bindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return err
	}
	return nil
}

// isValidationError reports whether err came from a DTO Validate() call.
func isValidationError(err error) bool {
	var verr validation.Errors
	return errors.As(err, &verr)
}
