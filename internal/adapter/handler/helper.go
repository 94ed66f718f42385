package handler

import (
	stdErrors "errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-actions/pkg/validator"
)

// maxWebhookBody caps inbound webhook payloads. Teams notifications can carry
// a whole transcript.
const maxWebhookBody = 10 << 20

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized 200 response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleStatus(logger, c, http.StatusOK, data)
}

// HandleStatus writes a standardized success response with a custom status
func HandleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Debug("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)
	if logger != nil {
		fields := []zap.Field{
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		}
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.Error("http.response.error", fields...)
		} else {
			logger.Warn("http.response.error", fields...)
		}
	}

	body := common.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	// Raw causes of internal errors stay in the logs
	if appErr.Raw != nil && appErr.HTTPCode < http.StatusInternalServerError {
		body.Info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, body)
}

// ErrorHandler renders errors returned by middleware and handlers in the
// same shape as HandleError
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if hErr := HandleError(logger, c, err); hErr != nil && logger != nil {
			logger.Error("❌ Failed to write error response", zap.Error(hErr))
		}
	}
}

// toAppError maps any error onto an AppError
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var httpErr *echo.HTTPError
	if stdErrors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok && s != "" {
			msg = s
		}
		code := errors.ErrorCode_INVALID_ARGUMENT
		switch httpErr.Code {
		case http.StatusNotFound:
			code = errors.ErrorCode_NOT_FOUND
		case http.StatusUnauthorized:
			code = errors.ErrorCode_UNAUTHENTICATED
		case http.StatusForbidden:
			code = errors.ErrorCode_PERMISSION_DENIED
		}
		if httpErr.Code >= http.StatusInternalServerError {
			code = errors.ErrorCode_INTERNAL
		}
		return errors.AppError{HTTPCode: httpErr.Code, Code: code, Message: msg}
	}

	return errors.ErrInternal(err)
}

// bindAndValidate binds the request into req and runs the struct validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		appErr := errors.ErrValidation(err)
		for field, rule := range validator.Describe(err) {
			appErr = appErr.WithDetail(field, rule)
		}
		return appErr
	}
	return nil
}

// pathUUID parses a UUID path parameter
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(name + " must be a valid UUID")
	}
	return id, nil
}

// readBody reads a webhook body up to maxWebhookBody
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return nil, errors.ErrInvalidPayload()
	}
	if len(body) > maxWebhookBody {
		return nil, errors.ErrInvalidArgument("payload too large")
	}
	return body, nil
}
