package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Thanhfdq/task-app/internal/dto"
	apierrors "github.com/Thanhfdq/task-app/internal/errors"
	"github.com/Thanhfdq/task-app/internal/middleware"
	"github.com/Thanhfdq/task-app/internal/services"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.OK(message, data))
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, dto.OK(message, data))
}

// respondServiceError converts a service error into the matching HTTP
// status. Storage faults are logged with their cause and reported with a
// generic message.
func respondServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrAIServiceNotEnabled):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrStorage):
		log.Printf("%s: %v: %v", op, err, services.Cause(err))
		apierrors.InternalError(c, err.Error())
	default:
		log.Printf("%s: unexpected error: %v", op, err)
		apierrors.InternalError(c, "")
	}
}

// currentUser returns the session user, answering 401 when there is none.
func currentUser(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// pathID returns a positive integer path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, ok := middleware.IDParam(c, name)
	if !ok {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// bindJSON binds a create-style body with gin's validator.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

// bindStrictJSON binds an update body, rejecting keys the request type
// does not declare.
func bindStrictJSON(c *gin.Context, req interface{}) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		if field, ok := unknownField(err); ok {
			apierrors.UnknownField(c, "Unknown field "+field)
			return false
		}
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	if dec.More() {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}

	if binding.Validator != nil {
		if err := binding.Validator.ValidateStruct(req); err != nil {
			apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
			return false
		}
	}
	return true
}

// unknownField extracts the key named by encoding/json's unknown field error.
func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	return strings.TrimPrefix(msg, prefix), true
}
