package errors

// ErrorCode is the stable application error code sent to clients
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_RATE_LIMITED      ErrorCode = 1008

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2004
	ErrorCode_AUTH_OAUTH_STATE_MISMATCH  ErrorCode = 2005

	// Workspace / plan
	ErrorCode_WORKSPACE_NOT_FOUND ErrorCode = 3000
	ErrorCode_NOT_A_MEMBER        ErrorCode = 3001
	ErrorCode_PLAN_LIMIT_EXCEEDED ErrorCode = 3002

	// Meetings / pipeline
	ErrorCode_MEETING_NOT_FOUND     ErrorCode = 4000
	ErrorCode_ACTION_NOT_FOUND      ErrorCode = 4001
	ErrorCode_MEETING_INVALID_STATE ErrorCode = 4002
	ErrorCode_PROCESSING_FAILED     ErrorCode = 4003
	ErrorCode_MISSING_TRANSCRIPT    ErrorCode = 4004
	ErrorCode_AI_ANALYSIS_FAILED    ErrorCode = 4005
	ErrorCode_QUEUE_FULL            ErrorCode = 4006

	// Integrations
	ErrorCode_INTEGRATION_NOT_CONNECTED       ErrorCode = 5000
	ErrorCode_INTEGRATION_UNSUPPORTED         ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5003
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5004

	// Webhooks / billing
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 6000
	ErrorCode_BILLING_INVALID_PLAN      ErrorCode = 6001
	ErrorCode_BILLING_NOT_CONFIGURED    ErrorCode = 6002
	ErrorCode_BILLING_PROVIDER_FAILED   ErrorCode = 6003
	ErrorCode_BILLING_NO_CUSTOMER       ErrorCode = 6004

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 7000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:                    "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:             "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN:      "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:               "AUTH_OAUTH_FAILED",
	ErrorCode_AUTH_OAUTH_STATE_MISMATCH:       "AUTH_OAUTH_STATE_MISMATCH",
	ErrorCode_WORKSPACE_NOT_FOUND:             "WORKSPACE_NOT_FOUND",
	ErrorCode_NOT_A_MEMBER:                    "NOT_A_MEMBER",
	ErrorCode_PLAN_LIMIT_EXCEEDED:             "PLAN_LIMIT_EXCEEDED",
	ErrorCode_MEETING_NOT_FOUND:               "MEETING_NOT_FOUND",
	ErrorCode_ACTION_NOT_FOUND:                "ACTION_NOT_FOUND",
	ErrorCode_MEETING_INVALID_STATE:           "MEETING_INVALID_STATE",
	ErrorCode_PROCESSING_FAILED:               "PROCESSING_FAILED",
	ErrorCode_MISSING_TRANSCRIPT:              "MISSING_TRANSCRIPT",
	ErrorCode_AI_ANALYSIS_FAILED:              "AI_ANALYSIS_FAILED",
	ErrorCode_QUEUE_FULL:                      "QUEUE_FULL",
	ErrorCode_INTEGRATION_NOT_CONNECTED:       "INTEGRATION_NOT_CONNECTED",
	ErrorCode_INTEGRATION_UNSUPPORTED:         "INTEGRATION_UNSUPPORTED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_WEBHOOK_INVALID_SIGNATURE:       "WEBHOOK_INVALID_SIGNATURE",
	ErrorCode_BILLING_INVALID_PLAN:            "BILLING_INVALID_PLAN",
	ErrorCode_BILLING_NOT_CONFIGURED:          "BILLING_NOT_CONFIGURED",
	ErrorCode_BILLING_PROVIDER_FAILED:         "BILLING_PROVIDER_FAILED",
	ErrorCode_BILLING_NO_CUSTOMER:             "BILLING_NO_CUSTOMER",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
