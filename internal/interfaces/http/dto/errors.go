package dto

import (
	"net/http"
	"strings"
)

// API error codes. Generic domain codes are renamed to these by
// NormalizeErrorCode; specific ones such as INVALID_SLUG or
// CURRENCY_MISMATCH reach the client unchanged.
const (
	ErrCodeUnknown             = "ERR_UNKNOWN"
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeTokenExpired        = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked        = "ERR_TOKEN_REVOKED"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput        = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON         = "ERR_INVALID_JSON"
	ErrCodeTooLarge            = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
	ErrCodeServiceUnavailable  = "ERR_SERVICE_UNAVAILABLE"
)

// statusCodes lists the codes answered with each HTTP status
var statusCodes = map[int][]string{
	http.StatusBadRequest: {
		ErrCodeValidation, ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
		"LOGO_NOT_UPLOADED", "LOGO_TOO_LARGE", "CURRENCY_MISMATCH", "PRODUCT_INACTIVE",
	},
	http.StatusUnauthorized: {
		ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid, ErrCodeTokenRevoked,
		"INVALID_CREDENTIALS", "TOKEN_MAX_REFRESH", "ACCOUNT_INACTIVE",
	},
	http.StatusForbidden:             {ErrCodeForbidden},
	http.StatusNotFound:              {ErrCodeNotFound},
	http.StatusConflict:              {ErrCodeAlreadyExists, ErrCodeConcurrencyConflict},
	http.StatusRequestEntityTooLarge: {ErrCodeTooLarge},
	http.StatusUnprocessableEntity:   {ErrCodeInvalidState, "COLLECTION_IN_USE", "PARTNER_INACTIVE"},
	http.StatusTooManyRequests:       {ErrCodeRateLimited},
	http.StatusInternalServerError:   {ErrCodeUnknown, ErrCodeInternal},
	http.StatusServiceUnavailable:    {ErrCodeServiceUnavailable, "PDF_UNAVAILABLE"},
}

var codeStatus = func() map[string]int {
	m := make(map[string]int)
	for status, codes := range statusCodes {
		for _, code := range codes {
			m[code] = status
		}
	}
	return m
}()

// GetHTTPStatus returns the HTTP status for an error code. Unlisted INVALID_*
// codes are field rejections (400); any other unknown code is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var apiCodes = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"TOKEN_REVOKED":        ErrCodeTokenRevoked,
}

// NormalizeErrorCode renames the generic domain codes to their ERR_ form
func NormalizeErrorCode(code string) string {
	if api, ok := apiCodes[code]; ok {
		return api
	}
	return code
}
