package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondErr maps domain errors onto statuses and codes.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, plan.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, plan.ErrUnknownField):
		RespondError(c, http.StatusBadRequest, "unknown_field", err)
	case errors.Is(err, plan.ErrIndexOutOfRange):
		RespondError(c, http.StatusBadRequest, "index_out_of_range", err)
	case errors.Is(err, plan.ErrInvalidValue):
		RespondError(c, http.StatusBadRequest, "invalid_value", err)
	case errors.Is(err, planner.ErrNotLoaded):
		RespondError(c, http.StatusConflict, "not_loaded", err)
	case errors.Is(err, interpreter.ErrBusy):
		RespondError(c, http.StatusConflict, "busy", err)
	case errors.Is(err, interpreter.ErrEmptyMessage):
		RespondError(c, http.StatusBadRequest, "empty_message", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

// toolStatus maps a tool failure code onto an HTTP status.
func toolStatus(code assistant.Code) int {
	switch code {
	case assistant.CodeUnknownServer, assistant.CodeUnknownTool:
		return http.StatusNotFound
	case assistant.CodeInvalidArguments:
		return http.StatusBadRequest
	case assistant.CodeRateLimited:
		return http.StatusTooManyRequests
	case assistant.CodeQuotaExceeded:
		return http.StatusPaymentRequired
	case assistant.CodeUnavailable:
		return http.StatusServiceUnavailable
	case assistant.CodeInvalidResponse:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
