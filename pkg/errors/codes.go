package errors

// ErrorCode represents an application-specific error code
type ErrorCode string

const (
	// Generic errors
	ErrUnknown         ErrorCode = "ERR_UNKNOWN"
	ErrInternal        ErrorCode = "ERR_INTERNAL"
	ErrInvalidArgument ErrorCode = "ERR_INVALID_ARGUMENT"

	// Authentication file errors
	ErrAuthFilePathNotSet  ErrorCode = "ERR_AUTH_FILE_PATH_NOT_SET"
	ErrAuthFileUnreadable  ErrorCode = "ERR_AUTH_FILE_UNREADABLE"
	ErrAuthFileMalformed   ErrorCode = "ERR_AUTH_FILE_MALFORMED"
	ErrAuthShapeMismatch   ErrorCode = "ERR_AUTH_SHAPE_MISMATCH"
	ErrConnectorNotDefined ErrorCode = "ERR_CONNECTOR_NOT_DEFINED"

	// Configuration errors
	ErrConfigInvalid      ErrorCode = "ERR_CONFIG_INVALID"
	ErrConfigLoadFailed   ErrorCode = "ERR_CONFIG_LOAD_FAILED"
	ErrConfigMissingField ErrorCode = "ERR_CONFIG_MISSING_FIELD"
	ErrFeatureUnknown     ErrorCode = "ERR_FEATURE_UNKNOWN"

	// Validation errors
	ErrValidationFailed ErrorCode = "ERR_VALIDATION_FAILED"
)

// ErrorInfo contains metadata about an error code
type ErrorInfo struct {
	Code   ErrorCode
	Type   string
	Status int
	Title  string
}

// errorInfoMap maps error codes to their metadata
var errorInfoMap = map[ErrorCode]ErrorInfo{
	ErrUnknown: {
		Code:   ErrUnknown,
		Type:   "https://connector-harness.dev/errors/unknown",
		Status: 500,
		Title:  "Unknown Error",
	},
	ErrInternal: {
		Code:   ErrInternal,
		Type:   "https://connector-harness.dev/errors/internal",
		Status: 500,
		Title:  "Internal Error",
	},
	ErrInvalidArgument: {
		Code:   ErrInvalidArgument,
		Type:   "https://connector-harness.dev/errors/invalid-argument",
		Status: 400,
		Title:  "Invalid Argument",
	},

	// The auth file is an environment precondition: a missing setting or a
	// missing file is a "not found", a broken file is a client-side problem.
	ErrAuthFilePathNotSet: {
		Code:   ErrAuthFilePathNotSet,
		Type:   "https://connector-harness.dev/errors/auth-file-path-not-set",
		Status: 404,
		Title:  "Auth File Path Not Set",
	},
	ErrAuthFileUnreadable: {
		Code:   ErrAuthFileUnreadable,
		Type:   "https://connector-harness.dev/errors/auth-file-unreadable",
		Status: 404,
		Title:  "Auth File Unreadable",
	},
	ErrAuthFileMalformed: {
		Code:   ErrAuthFileMalformed,
		Type:   "https://connector-harness.dev/errors/auth-file-malformed",
		Status: 400,
		Title:  "Malformed Auth File",
	},
	ErrAuthShapeMismatch: {
		Code:   ErrAuthShapeMismatch,
		Type:   "https://connector-harness.dev/errors/auth-shape-mismatch",
		Status: 400,
		Title:  "Auth Shape Mismatch",
	},
	ErrConnectorNotDefined: {
		Code:   ErrConnectorNotDefined,
		Type:   "https://connector-harness.dev/errors/connector-not-defined",
		Status: 404,
		Title:  "Connector Not Defined",
	},

	ErrConfigInvalid: {
		Code:   ErrConfigInvalid,
		Type:   "https://connector-harness.dev/errors/config-invalid",
		Status: 500,
		Title:  "Invalid Configuration",
	},
	ErrConfigLoadFailed: {
		Code:   ErrConfigLoadFailed,
		Type:   "https://connector-harness.dev/errors/config-load-failed",
		Status: 500,
		Title:  "Configuration Load Failed",
	},
	ErrConfigMissingField: {
		Code:   ErrConfigMissingField,
		Type:   "https://connector-harness.dev/errors/config-missing-field",
		Status: 500,
		Title:  "Missing Configuration Field",
	},
	ErrFeatureUnknown: {
		Code:   ErrFeatureUnknown,
		Type:   "https://connector-harness.dev/errors/feature-unknown",
		Status: 400,
		Title:  "Unknown Feature",
	},

	ErrValidationFailed: {
		Code:   ErrValidationFailed,
		Type:   "https://connector-harness.dev/errors/validation-failed",
		Status: 400,
		Title:  "Validation Failed",
	},
}

// GetErrorInfo returns metadata for an error code
func GetErrorInfo(code ErrorCode) ErrorInfo {
	if info, ok := errorInfoMap[code]; ok {
		return info
	}
	return errorInfoMap[ErrUnknown]
}

// IsFatal reports whether an error code means the auth material could not be
// produced at all. Test setup should abort on these.
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrAuthFilePathNotSet, ErrAuthFileUnreadable, ErrAuthFileMalformed, ErrAuthShapeMismatch:
		return true
	}
	return false
}
