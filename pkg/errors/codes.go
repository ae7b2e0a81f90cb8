package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeConflict     ErrorCode = "COMMON_004"
	CodeValidation   ErrorCode = "COMMON_005"
	CodeDatabase     ErrorCode = "COMMON_006"
	CodeCache        ErrorCode = "COMMON_007"
	CodeExternal     ErrorCode = "COMMON_008"
	CodeUnknown      ErrorCode = "COMMON_999"
	CodeOK           ErrorCode = "OK"
)

// Grade-catalog error codes.  These mirror the data-quality taxonomy of the
// resolution core: malformed compositions, ambiguous identities, and key
// conflicts are classified and reported, never silently repaired.
const (
	CodeMalformedComposition ErrorCode = "GRD_001"
	CodeAmbiguousIdentity    ErrorCode = "GRD_002"
	CodeLinkConflict         ErrorCode = "GRD_003"
	CodeInsertConflict       ErrorCode = "GRD_004"
	CodeGradeNotFound        ErrorCode = "GRD_005"
	CodeDuplicateGrade       ErrorCode = "GRD_006"
	CodeEmptyGradeName       ErrorCode = "GRD_007"
	CodeIncomparable         ErrorCode = "GRD_008"
)

// Sync / adapter error codes.
const (
	CodeSourceUnavailable ErrorCode = "SYNC_001"
	CodeSourceParse       ErrorCode = "SYNC_002"
	CodeReportWrite       ErrorCode = "SYNC_003"
	CodeLookupFailed      ErrorCode = "SYNC_004"
)

// httpStatus maps error codes to HTTP response statuses for the API layer.
var httpStatus = map[ErrorCode]int{
	CodeInternal:     http.StatusInternalServerError,
	CodeInvalidParam: http.StatusBadRequest,
	CodeNotFound:     http.StatusNotFound,
	CodeConflict:     http.StatusConflict,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeDatabase:     http.StatusInternalServerError,
	CodeCache:        http.StatusInternalServerError,
	CodeExternal:     http.StatusBadGateway,

	CodeMalformedComposition: http.StatusUnprocessableEntity,
	CodeAmbiguousIdentity:    http.StatusConflict,
	CodeLinkConflict:         http.StatusConflict,
	CodeInsertConflict:       http.StatusConflict,
	CodeGradeNotFound:        http.StatusNotFound,
	CodeDuplicateGrade:       http.StatusConflict,
	CodeEmptyGradeName:       http.StatusBadRequest,
	CodeIncomparable:         http.StatusUnprocessableEntity,

	CodeSourceUnavailable: http.StatusBadGateway,
	CodeSourceParse:       http.StatusUnprocessableEntity,
	CodeReportWrite:       http.StatusInternalServerError,
	CodeLookupFailed:      http.StatusBadGateway,
}

// HTTPStatusForCode returns the HTTP status for a code, defaulting to 500 for
// codes without an explicit mapping.
func HTTPStatusForCode(code ErrorCode) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	s := HTTPStatusForCode(code)
	return s >= 400 && s < 500
}
