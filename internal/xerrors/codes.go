package xerrors

// Code is the machine-readable "error" field of an API error envelope.
type Code string

const (
	CodeNotFound                     Code = "NOT_FOUND"
	CodeAlreadyExists                Code = "ALREADY_EXISTS"
	CodeEmailAlreadyExists           Code = "EMAIL_ALREADY_EXISTS"
	CodeLoginNotRegistered           Code = "LOGIN_NOT_REGISTERED"
	CodeWrongPassword                Code = "WRONG_PASSWORD"
	CodeInternalError                Code = "INTERNAL_ERROR"
	CodeInvalidToken                 Code = "INVALID_TOKEN"
	CodeForbidden                    Code = "FORBIDDEN"
	CodeInvalidParams                Code = "INVALID_PARAMS"
	CodeProviderAlreadyConnected     Code = "PROVIDER_ALREADY_CONNECTED"
	CodeProviderAccountAlreadyLinked Code = "PROVIDER_ACCOUNT_ALREADY_LINKED"
	CodeNeedEndRegistration          Code = "NEED_END_REGISTRATION"
	CodeTelegramAlreadyRegistered    Code = "TELEGRAM_ALREADY_REGISTERED"
	CodeTempIDNotFound               Code = "TEMP_ID_NOT_FOUND"
	CodeInvalidTelegramHash          Code = "INVALID_TELEGRAM_HASH"
	CodeTelegramIsNotLinked          Code = "TELEGRAM_IS_NOT_LINKED"
	CodeUserNotFound                 Code = "USER_NOT_FOUND"
	CodeTokenCreationFailed          Code = "TOKEN_CREATION_FAILED"
	CodeHealthDataQueryFailed        Code = "HEALTH_DATA_QUERY_FAILED"
	CodeHealthDataReadFailed         Code = "HEALTH_DATA_READ_FAILED"
	CodeValidationFailed             Code = "VALIDATION_FAILED"
	CodeUnauthorized                 Code = "UNAUTHORIZED"
	CodeBadRequest                   Code = "BAD_REQUEST"
	CodeConflict                     Code = "CONFLICT"
	CodeTooManyRequests              Code = "TOO_MANY_REQUESTS"
	CodeServiceUnavailable           Code = "SERVICE_UNAVAILABLE"
	CodeDeviceNotFound               Code = "DEVICE_NOT_FOUND"
	CodeDeviceAccessDenied           Code = "DEVICE_ACCESS_DENIED"
	CodeInvalidRRInterval            Code = "INVALID_RR_INTERVAL"
	CodeInsufficientData             Code = "INSUFFICIENT_DATA"
	CodeInvalidTimeRange             Code = "INVALID_TIME_RANGE"
	CodeAnalysisNotPossible          Code = "ANALYSIS_NOT_POSSIBLE"
	CodeBatchTooLarge                Code = "BATCH_TOO_LARGE"
	CodeBatchEmpty                   Code = "BATCH_EMPTY"
	CodeInvalidDataFormat            Code = "INVALID_DATA_FORMAT"
	CodeDataProcessingError          Code = "DATA_PROCESSING_ERROR"
	CodeTimeRangeTooSmall            Code = "TIME_RANGE_TOO_SMALL"
	CodeTimeRangeTooLarge            Code = "TIME_RANGE_TOO_LARGE"
	CodeParameterOutOfRange          Code = "PARAMETER_OUT_OF_RANGE"
	CodeNoValidData                  Code = "NO_VALID_DATA"
)

var codeMessages = map[Code]string{
	CodeNotFound:              "no data found for the selected period",
	CodeInsufficientData:      "not enough data in the selected period for analysis",
	CodeInvalidTimeRange:      "invalid time range",
	CodeTimeRangeTooSmall:     "the time range is too small for analysis",
	CodeTimeRangeTooLarge:     "the time range is too large, try a shorter period",
	CodeDeviceNotFound:        "device not found",
	CodeDeviceAccessDenied:    "access to the device is denied",
	CodeInvalidRRInterval:     "invalid R-R intervals detected",
	CodeAnalysisNotPossible:   "analysis is not possible with the current data",
	CodeBatchTooLarge:         "too much data to process",
	CodeBatchEmpty:            "no data to analyze",
	CodeInvalidDataFormat:     "invalid data format",
	CodeDataProcessingError:   "the server failed to process the data",
	CodeParameterOutOfRange:   "analysis parameters are out of range",
	CodeNoValidData:           "no valid data in the selected period",
	CodeValidationFailed:      "request validation failed",
	CodeUnauthorized:          "authorization required",
	CodeForbidden:             "access denied",
	CodeBadRequest:            "bad request",
	CodeConflict:              "data conflict",
	CodeTooManyRequests:       "too many requests, try again later",
	CodeServiceUnavailable:    "service temporarily unavailable",
	CodeInternalError:         "internal server error",
	CodeHealthDataQueryFailed: "failed to query health data",
	CodeHealthDataReadFailed:  "failed to read health data",
	CodeInvalidTelegramHash:   "the Telegram signature is invalid, please try again",
	CodeTempIDNotFound:        "the registration link has expired, please start over",
	CodeTelegramIsNotLinked:   "no Telegram account is linked",
}
