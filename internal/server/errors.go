package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	alertdomain "github.com/smallbiznis/mentorhub/internal/alert/domain"
	calendardomain "github.com/smallbiznis/mentorhub/internal/calendar/domain"
	callnotedomain "github.com/smallbiznis/mentorhub/internal/callnote/domain"
	callprepdomain "github.com/smallbiznis/mentorhub/internal/callprep/domain"
	menteedomain "github.com/smallbiznis/mentorhub/internal/mentee/domain"
	"github.com/smallbiznis/mentorhub/pkg/db/pagination"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if code, field, ok := validationCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, calendardomain.ErrNotConnected):
		return http.StatusPreconditionFailed, errorPayload{
			Type:    "precondition_failed",
			Message: "calendar not connected",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// asValidationErrors also accepts the field errors of a rejected call note.
func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}

	var noteErrs callnotedomain.ValidationErrors
	if errors.As(err, &noteErrs) && len(noteErrs) > 0 {
		out := &ValidationErrors{Errors: make([]ValidationError, 0, len(noteErrs))}
		for _, fe := range noteErrs {
			out.Errors = append(out.Errors, ValidationError{
				Field:   fe.Field,
				Code:    fe.Code,
				Message: fe.Message,
			})
		}
		return out
	}
	return nil
}

func validationCode(err error) (code, field string, ok bool) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request", "request", true
	case errors.Is(err, menteedomain.ErrInvalidID),
		errors.Is(err, alertdomain.ErrInvalidID),
		errors.Is(err, callnotedomain.ErrInvalidID),
		errors.Is(err, callprepdomain.ErrInvalidID):
		return "invalid_id", "id", true
	case errors.Is(err, alertdomain.ErrInvalidPeriod),
		errors.Is(err, callprepdomain.ErrInvalidPeriod):
		return "invalid_period", "period", true
	case errors.Is(err, callprepdomain.ErrInvalidRange),
		errors.Is(err, calendardomain.ErrInvalidRange):
		return "invalid_range", "range", true
	case errors.Is(err, calendardomain.ErrInvalidToken):
		return "invalid_token", "access_token", true
	case errors.Is(err, pagination.ErrInvalidPageToken):
		return "invalid_page_token", "page_token", true
	default:
		return "", "", false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, menteedomain.ErrInvalidOrganization),
		errors.Is(err, alertdomain.ErrInvalidOrganization),
		errors.Is(err, callnotedomain.ErrInvalidOrganization),
		errors.Is(err, callprepdomain.ErrInvalidOrganization),
		errors.Is(err, calendardomain.ErrInvalidOrganization):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, menteedomain.ErrNotFound),
		errors.Is(err, alertdomain.ErrNotFound),
		errors.Is(err, callnotedomain.ErrNotFound),
		errors.Is(err, callprepdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog returns the error type and code recorded on the
// request log line.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		return payload.Type, "internal_error"
	}
	return payload.Type, err.Error()
}
