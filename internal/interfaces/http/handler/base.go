package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/foodstory/analytics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// dateLayout is the calendar-day format accepted in query parameters
const dateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps a service error to its API representation. The
// dashboard renders these as error panels, so the message must stand
// on its own.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var precondition *sales.PreconditionError
	var storeAccess *sales.StoreAccessError

	switch {
	case errors.As(err, &precondition):
		h.ErrorWithCode(c, dto.ErrCodePrecondition, precondition.Error())
	case errors.As(err, &storeAccess):
		h.ErrorWithCode(c, dto.ErrCodeStoreAccess, storeAccess.Error())
	default:
		h.InternalError(c, err.Error())
	}
}

// ValidationError sends a 400 response with a field-level message
// instead of the raw validator dump.
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, formatBindingError(err))
}

// formatBindingError turns validator errors into readable messages
func formatBindingError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}

// parseDateRange converts optional calendar-day bounds to timestamp
// bounds. The end date is inclusive, so it extends to the last instant
// of that day.
func parseDateRange(startDate, endDate string) (start, end *time.Time, err error) {
	if startDate != "" {
		t, perr := time.Parse(dateLayout, startDate)
		if perr != nil {
			return nil, nil, perr
		}
		start = &t
	}
	if endDate != "" {
		t, perr := time.Parse(dateLayout, endDate)
		if perr != nil {
			return nil, nil, perr
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}
	return start, end, nil
}
