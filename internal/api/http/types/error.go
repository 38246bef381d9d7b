package types

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// 错误码
const (
	ErrInvalidArgument    = "INVALID_ARGUMENT"
	ErrNotFound           = "NOT_FOUND"
	ErrRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE" // 可重试的上游失败
	ErrUpstreamFailure    = "UPSTREAM_FAILURE"    // 重试无法修复的上游失败
)

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// WithRequestID 添加请求ID
func (e *ErrorResponse) WithRequestID(requestID string) *ErrorResponse {
	e.Error.RequestID = requestID
	return e
}
