package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request ID for correlation with server logs
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// ValidationDetail describes a single field validation failure
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorInfo extends ErrorInfo with per-field details
type ValidationErrorInfo struct {
	ErrorInfo
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationResponse is the envelope for validation failures
type ValidationResponse struct {
	Success bool                 `json:"success"`
	Error   *ValidationErrorInfo `json:"error"`
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ValidationResponse {
	return ValidationResponse{
		Success: false,
		Error: &ValidationErrorInfo{
			ErrorInfo: ErrorInfo{
				Code:      ErrCodeValidation,
				Message:   message,
				RequestID: requestID,
			},
			Details: details,
		},
	}
}
