package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type returned across the HTTP boundary
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error { return e.Raw }

// WithDetail returns a copy of e carrying key=value. The receiver's map is
// never mutated so shared constructors stay safe.
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// Is matches on Code so callers can test against a constructor result
func (e AppError) Is(target error) bool {
	t, ok := target.(AppError)
	return ok && t.Code == e.Code
}

func newError(status int, code ErrorCode, msg string) AppError {
	return AppError{HTTPCode: status, Code: code, Message: msg}
}

func wrap(err error, status int, code ErrorCode, msg string) AppError {
	e := newError(status, code, msg)
	e.Raw = err
	return e
}

// general

func ErrInternal(err error) AppError {
	return wrap(err, http.StatusInternalServerError, ErrorCode_INTERNAL, "Internal server error")
}

func ErrInvalidArgument(message string) AppError {
	return newError(http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, message)
}

func ErrNotFound(resource string) AppError {
	return newError(http.StatusNotFound, ErrorCode_NOT_FOUND, resource+" not found")
}

func ErrAlreadyExists(resource string) AppError {
	return newError(http.StatusConflict, ErrorCode_ALREADY_EXISTS, resource+" already exists")
}

func ErrPermissionDenied(action string) AppError {
	return newError(http.StatusForbidden, ErrorCode_PERMISSION_DENIED, "Permission denied: "+action)
}

func ErrUnauthenticated() AppError {
	return newError(http.StatusUnauthorized, ErrorCode_UNAUTHENTICATED, "Authentication required")
}

func ErrInvalidPayload() AppError {
	return newError(http.StatusBadRequest, ErrorCode_INVALID_PAYLOAD, "Invalid payload")
}

func ErrValidation(err error) AppError {
	return wrap(err, http.StatusBadRequest, ErrorCode_INVALID_ARGUMENT, "Request validation failed")
}

func ErrRateLimited(limit int, reset time.Time) AppError {
	return newError(http.StatusTooManyRequests, ErrorCode_RATE_LIMITED, "Too many requests").
		WithDetail("limit", fmt.Sprint(limit)).
		WithDetail("reset", reset.UTC().Format(time.RFC3339))
}

// auth

func ErrInvalidToken() AppError {
	return newError(http.StatusUnauthorized, ErrorCode_AUTH_INVALID_TOKEN, "Invalid authentication token")
}

func ErrTokenExpired() AppError {
	return newError(http.StatusUnauthorized, ErrorCode_AUTH_TOKEN_EXPIRED, "Authentication token has expired")
}

func ErrUserNotFound() AppError {
	return newError(http.StatusNotFound, ErrorCode_AUTH_USER_NOT_FOUND, "User not found")
}

func ErrInvalidRefreshToken() AppError {
	return newError(http.StatusUnauthorized, ErrorCode_AUTH_INVALID_REFRESH_TOKEN, "Invalid refresh token")
}

func ErrOAuthFailed(provider string, err error) AppError {
	return wrap(err, http.StatusUnauthorized, ErrorCode_AUTH_OAUTH_FAILED, "OAuth authentication failed with "+provider)
}

func ErrOAuthStateMismatch() AppError {
	return newError(http.StatusBadRequest, ErrorCode_AUTH_OAUTH_STATE_MISMATCH, "OAuth state is invalid or expired")
}

// workspaces and plans

func ErrWorkspaceNotFound(workspaceID string) AppError {
	return newError(http.StatusNotFound, ErrorCode_WORKSPACE_NOT_FOUND, "Workspace not found").
		WithDetail("workspace_id", workspaceID)
}

func ErrNotAMember(workspaceID string) AppError {
	return newError(http.StatusForbidden, ErrorCode_NOT_A_MEMBER, "You are not a member of this workspace").
		WithDetail("workspace_id", workspaceID)
}

func ErrPlanLimitExceeded(resource string, limit int) AppError {
	return newError(http.StatusPaymentRequired, ErrorCode_PLAN_LIMIT_EXCEEDED, "Plan limit reached for "+resource).
		WithDetail("limit", fmt.Sprint(limit))
}

// meetings and actions

func ErrMeetingNotFound(meetingID string) AppError {
	return newError(http.StatusNotFound, ErrorCode_MEETING_NOT_FOUND, "Meeting not found").
		WithDetail("meeting_id", meetingID)
}

func ErrActionNotFound(actionID string) AppError {
	return newError(http.StatusNotFound, ErrorCode_ACTION_NOT_FOUND, "Action not found").
		WithDetail("action_id", actionID)
}

func ErrMeetingInvalidState(meetingID, currentState, expectedState string) AppError {
	return newError(http.StatusConflict, ErrorCode_MEETING_INVALID_STATE, "Meeting is in invalid state").
		WithDetail("meeting_id", meetingID).
		WithDetail("current_state", currentState).
		WithDetail("expected_state", expectedState)
}

func ErrMissingTranscript() AppError {
	return newError(http.StatusBadRequest, ErrorCode_MISSING_TRANSCRIPT, "No transcript or recording file in payload")
}

func ErrProcessingFailed(err error) AppError {
	return wrap(err, http.StatusInternalServerError, ErrorCode_PROCESSING_FAILED, "Processing failed")
}

func ErrAIAnalysisFailed(err error) AppError {
	return wrap(err, http.StatusBadGateway, ErrorCode_AI_ANALYSIS_FAILED, "AI analysis failed")
}

func ErrQueueFull() AppError {
	return newError(http.StatusServiceUnavailable, ErrorCode_QUEUE_FULL, "Processing queue is full, try again later")
}

// integrations

func ErrIntegrationNotConnected(integrationType string) AppError {
	return newError(http.StatusBadRequest, ErrorCode_INTEGRATION_NOT_CONNECTED, integrationType+" is not connected").
		WithDetail("type", integrationType)
}

func ErrIntegrationUnsupported(integrationType string) AppError {
	return newError(http.StatusBadRequest, ErrorCode_INTEGRATION_UNSUPPORTED, "Unsupported integration").
		WithDetail("type", integrationType)
}

func ErrExternalAPIFailed(service string, err error) AppError {
	return wrap(err, http.StatusBadGateway, ErrorCode_INTEGRATION_EXTERNAL_API_FAILED, "External API call failed: "+service)
}

func ErrStorageFailed(operation string, err error) AppError {
	return wrap(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_STORAGE_FAILED, "Storage operation failed: "+operation)
}

func ErrCacheFailed(operation string, err error) AppError {
	return wrap(err, http.StatusInternalServerError, ErrorCode_INTEGRATION_CACHE_FAILED, "Cache operation failed: "+operation)
}

// webhooks and billing

func ErrInvalidSignature(source string) AppError {
	return newError(http.StatusUnauthorized, ErrorCode_WEBHOOK_INVALID_SIGNATURE, "Invalid webhook signature").
		WithDetail("source", source)
}

func ErrInvalidPlan(plan string) AppError {
	return newError(http.StatusBadRequest, ErrorCode_BILLING_INVALID_PLAN, "Invalid plan").
		WithDetail("plan", plan)
}

func ErrBillingNotConfigured(provider string) AppError {
	return newError(http.StatusServiceUnavailable, ErrorCode_BILLING_NOT_CONFIGURED, provider+" is not configured")
}

func ErrBillingProviderFailed(provider string, err error) AppError {
	return wrap(err, http.StatusBadGateway, ErrorCode_BILLING_PROVIDER_FAILED, provider+" request failed")
}

func ErrNoBillingCustomer() AppError {
	return newError(http.StatusBadRequest, ErrorCode_BILLING_NO_CUSTOMER, "Workspace has no billing customer yet")
}

// database

func ErrDBQueryFailed(query string, err error) AppError {
	return wrap(err, http.StatusInternalServerError, ErrorCode_DB_QUERY_FAILED, "Database query failed").
		WithDetail("query", query)
}
