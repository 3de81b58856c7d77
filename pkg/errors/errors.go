// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"
	CodeConfiguration      ErrorCode = "1009"

	// 资源错误 (3xxx)
	CodeProjectNotFound ErrorCode = "3001"
	CodeEntityNotFound  ErrorCode = "3003"
	CodeUnknownEntity   ErrorCode = "3005"

	// 业务错误 (4xxx)
	CodeGenerationFailed ErrorCode = "4001"
	CodeValidationFailed ErrorCode = "4002"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeLLMProviderError ErrorCode = "5005"
	CodeLLMTransport     ErrorCode = "5006"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeConfiguration, CodeValidationFailed, CodeUnknownEntity:
		return http.StatusBadRequest
	case CodeNotFound, CodeProjectNotFound, CodeEntityNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrProjectNotFound = New(CodeProjectNotFound, "project not found")
	ErrEntityNotFound  = New(CodeEntityNotFound, "entity not found")
)

// Configuration 缺失配置、未知 provider、未设置当前项目等
func Configuration(format string, args ...any) *AppError {
	return New(CodeConfiguration, fmt.Sprintf(format, args...))
}

// Validation 请求数据不合法
func Validation(format string, args ...any) *AppError {
	return New(CodeValidationFailed, fmt.Sprintf(format, args...))
}

// UnknownEntity 未注册的数据类型
func UnknownEntity(key string) *AppError {
	return New(CodeUnknownEntity, fmt.Sprintf("unknown data type: %s", key))
}

// ProjectNotFound 项目不存在或已被软删除
func ProjectNotFound(id int64) *AppError {
	return New(CodeProjectNotFound, fmt.Sprintf("project %d not found", id))
}

// EntityNotFound 记录不存在或不属于当前项目
func EntityNotFound(key string, id int64) *AppError {
	return New(CodeEntityNotFound, fmt.Sprintf("%s %d not found", key, id))
}

// NotInitialized AI 服务未初始化
func NotInitialized() *AppError {
	return New(CodeServiceUnavailable, "AI service not initialized")
}

// Upstream 供应商返回非 2xx 响应
func Upstream(provider string, status int, body string) *AppError {
	return New(CodeLLMProviderError, fmt.Sprintf("%s API error (HTTP %d)", provider, status)).WithDetail(body)
}

// UpstreamErr 供应商调用失败，但没有明确的 HTTP 状态
func UpstreamErr(provider string, err error) *AppError {
	return Wrap(err, CodeLLMProviderError, fmt.Sprintf("%s API call failed", provider))
}

// Transport 连接失败或超时
func Transport(provider string, err error) *AppError {
	return Wrap(err, CodeLLMTransport, fmt.Sprintf("%s request failed", provider))
}

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsKind 判断错误链中是否存在指定错误码的 AppError
func IsKind(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

func IsConfiguration(err error) bool { return IsKind(err, CodeConfiguration) }
func IsValidation(err error) bool { return IsKind(err, CodeValidationFailed) }
func IsUnknownEntity(err error) bool { return IsKind(err, CodeUnknownEntity) }
func IsUpstream(err error) bool { return IsKind(err, CodeLLMProviderError) }
func IsTransport(err error) bool { return IsKind(err, CodeLLMTransport) }
func IsProjectNotFound(err error) bool { return IsKind(err, CodeProjectNotFound) }
func IsNotFound(err error) bool {
	return IsKind(err, CodeProjectNotFound) || IsKind(err, CodeEntityNotFound) || IsKind(err, CodeNotFound)
}

// Is 透传标准库 errors.Is
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As 透传标准库 errors.As
func As(err error, target any) bool { return stderrors.As(err, target) }
