// internal/web/models/responses/common.go
package responses

import "time"

// BaseResponse 모든 응답의 기본 구조체
type BaseResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse 에러 응답 구조체
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// DataResponse 데이터가 포함된 응답
type DataResponse struct {
	BaseResponse
	Data interface{} `json:"data"`
}

// ListResponse 리스트 데이터 응답
type ListResponse struct {
	BaseResponse
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

// NewSuccessResponse 성공 응답 생성
func NewSuccessResponse(message string) BaseResponse {
	return BaseResponse{
		Success:   true,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse 에러 응답 생성
func NewErrorResponse(message string, code int) ErrorResponse {
	return ErrorResponse{
		Error:   true,
		Message: message,
		Code:    code,
	}
}

// NewDataResponse 데이터 응답 생성
func NewDataResponse(data interface{}, message string) DataResponse {
	return DataResponse{
		BaseResponse: NewSuccessResponse(message),
		Data:         data,
	}
}
