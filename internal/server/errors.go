package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/authorization"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	paymentmethoddomain "github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"gorm.io/gorm"
)

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

var errInvalidRequest = errors.New("invalid_request_body")

// AbortWithError attaches the error to the gin context so the
// ErrorHandlingMiddleware can render it once, after handlers return.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware renders the last recorded error as a JSON body
// with a stable code and an HTTP status derived from the error kind.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}
		if c.Writer.Written() {
			return
		}

		status, body := mapError(lastErr.Err)
		c.JSON(status, errorResponse{Error: body})
	}
}

func mapError(err error) (int, errorBody) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorBody{
			Code:    "validation_error",
			Message: err.Error(),
		}
	case isUnauthorized(err):
		return http.StatusUnauthorized, errorBody{
			Code:       "unauthorized",
			Message:    "authentication required",
			Suggestion: "POST /auth/login with your credentials to obtain a new session",
		}
	case errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorBody{
			Code:    "forbidden",
			Message: "you do not have permission to perform this action",
		}
	case isNotFound(err):
		return http.StatusNotFound, errorBody{
			Code:    "not_found",
			Message: "resource not found",
		}
	case isConflict(err):
		return http.StatusConflict, errorBody{
			Code:    conflictCode(err),
			Message: err.Error(),
		}
	case errors.Is(err, docnumber.ErrExhausted):
		return http.StatusInternalServerError, errorBody{
			Code:       "configuration_error",
			Message:    "could not allocate a document number",
			Suggestion: "check the numbering prefix configuration",
		}
	default:
		return http.StatusInternalServerError, errorBody{
			Code:    "internal_error",
			Message: "an unexpected error occurred",
		}
	}
}

func isValidationError(err error) bool {
	validation := []error{
		errInvalidRequest,
		companydomain.ErrInvalidID,
		companydomain.ErrInvalidName,
		companydomain.ErrInvalidRCCM,
		companydomain.ErrInvalidEmail,
		shipdomain.ErrInvalidID,
		shipdomain.ErrInvalidName,
		shipdomain.ErrInvalidIMO,
		shipdomain.ErrInvalidCompany,
		operationdomain.ErrInvalidID,
		operationdomain.ErrInvalidName,
		operationdomain.ErrInvalidPrice,
		paymentmethoddomain.ErrInvalidID,
		paymentmethoddomain.ErrInvalidLabel,
		categorydomain.ErrInvalidID,
		categorydomain.ErrInvalidLabel,
		expensedomain.ErrInvalidID,
		expensedomain.ErrInvalidTitle,
		expensedomain.ErrInvalidCategory,
		expensedomain.ErrInvalidSupplier,
		expensedomain.ErrInvalidPaymentMethod,
		expensedomain.ErrInvalidDate,
		expensedomain.ErrInvalidAmount,
		expensedomain.ErrInvalidStatus,
		expensedomain.ErrCommentRequired,
		invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidCompany,
		invoicedomain.ErrInvalidShip,
		invoicedomain.ErrInvalidDate,
		invoicedomain.ErrInvalidOperation,
		invoicedomain.ErrInvalidQuantity,
		invoicedomain.ErrInvalidPrice,
		invoicedomain.ErrInvalidAmount,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrNoLineItems,
		userdomain.ErrInvalidID,
		userdomain.ErrInvalidEmail,
		userdomain.ErrInvalidName,
		userdomain.ErrInvalidPassword,
		userdomain.ErrInvalidRole,
	}
	for _, target := range validation {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isUnauthorized(err error) bool {
	targets := []error{
		authdomain.ErrInvalidCredentials,
		authdomain.ErrInvalidSession,
		authdomain.ErrSessionExpired,
		authdomain.ErrSessionRevoked,
		userdomain.ErrBadCredentials,
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	targets := []error{
		companydomain.ErrNotFound,
		shipdomain.ErrNotFound,
		operationdomain.ErrNotFound,
		paymentmethoddomain.ErrNotFound,
		categorydomain.ErrNotFound,
		expensedomain.ErrNotFound,
		invoicedomain.ErrNotFound,
		userdomain.ErrNotFound,
		gorm.ErrRecordNotFound,
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflict(err error) bool {
	if isDuplicate(err) {
		return true
	}
	var expenseTransition *expensedomain.InvalidTransitionError
	if errors.As(err, &expenseTransition) {
		return true
	}
	var invoiceTransition *invoicedomain.InvalidTransitionError
	if errors.As(err, &invoiceTransition) {
		return true
	}
	switch {
	case errors.Is(err, expensedomain.ErrNotEditable),
		errors.Is(err, invoicedomain.ErrNotEditable),
		errors.Is(err, invoicedomain.ErrNotPayable):
		return true
	}
	return false
}

func isDuplicate(err error) bool {
	targets := []error{
		companydomain.ErrDuplicate,
		shipdomain.ErrDuplicate,
		operationdomain.ErrDuplicate,
		paymentmethoddomain.ErrDuplicate,
		categorydomain.ErrDuplicate,
		expensedomain.ErrDuplicate,
		invoicedomain.ErrDuplicate,
		userdomain.ErrDuplicate,
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func conflictCode(err error) string {
	if isDuplicate(err) {
		return "duplicate_resource"
	}
	return "invalid_transition"
}

// classifyErrorForLog feeds the request logger an error type and code
// without rendering anything.
func classifyErrorForLog(err error) (string, string) {
	status, body := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", body.Code
	case status >= http.StatusBadRequest:
		return "client_error", body.Code
	default:
		return "none", body.Code
	}
}

func invalidRequestError() error {
	return errInvalidRequest
}
