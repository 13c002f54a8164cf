package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

// Failure is how an error is shown to the operator.
type Failure struct {
	Status  int
	Code    string
	Message string
	// Fields holds field-scoped messages for forms.
	Fields map[string]string
	// SignIn is set when the session has ended and the operator must sign in again.
	SignIn bool
	// Reported is set when the API client already raised a notification for the error.
	Reported bool
}

// Classify maps domain and REST errors to a Failure.
func Classify(err error) Failure {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Failure{
			Status:  http.StatusUnprocessableEntity,
			Code:    "VALIDATION_ERROR",
			Message: "Please correct the highlighted fields",
			Fields:  validationErrs.ToMap(),
		}
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return Failure{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	case errors.Is(err, auth.ErrAccessDenied):
		return Failure{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: auth.ErrAccessDenied.Error()}
	case errors.Is(err, auth.ErrNotAuthenticated):
		return Failure{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Please sign in", SignIn: true}

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return Failure{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Employee not found"}
	case errors.Is(err, employee.ErrEmailExists):
		return Failure{
			Status:  http.StatusConflict,
			Code:    "CONFLICT",
			Message: "Email already registered",
			Fields:  map[string]string{"email": "Email already registered"},
		}

	// Attendance domain errors
	case errors.Is(err, attendance.ErrPhotoNotFound), errors.Is(err, attendance.ErrNoPhoto):
		return Failure{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Photo not available"}

	// REST failures
	case errors.Is(err, apiclient.ErrUnauthorized):
		return Failure{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: apiclient.ErrUnauthorized.Error(), SignIn: true, Reported: true}
	case errors.Is(err, apiclient.ErrForbidden):
		return Failure{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: apiclient.ErrForbidden.Error(), Reported: true}
	case errors.Is(err, apiclient.ErrServer):
		return Failure{Status: http.StatusBadGateway, Code: "UPSTREAM_ERROR", Message: apiclient.ErrServer.Error(), Reported: true}
	case errors.Is(err, apiclient.ErrUnreachable):
		return Failure{Status: http.StatusServiceUnavailable, Code: "UPSTREAM_UNREACHABLE", Message: "The HRIS service is unreachable, please try again later"}
	case errors.Is(err, context.DeadlineExceeded):
		return Failure{Status: http.StatusGatewayTimeout, Code: "TIMEOUT", Message: "The request timed out, please try again"}
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		f := Failure{Status: apiErr.StatusCode, Code: apiErr.Code, Message: apiErr.UserMessage(), Fields: apiErr.Details}
		if f.Code == "" {
			f.Code = "BAD_REQUEST"
		}
		return f
	}

	return Failure{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "An unexpected error occurred"}
}

// HandleError maps domain errors to JSON responses
func HandleError(w http.ResponseWriter, err error) {
	f := Classify(err)
	writeError(w, f.Status, ErrorDetail{Code: f.Code, Message: f.Message, Details: f.Fields})
}
