package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// RangeRequest carries the optional date window shared by most
// dashboard queries. Dates are calendar days; the end date is
// inclusive.
type RangeRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// RevenueRequest extends the date window with a bucket granularity
type RevenueRequest struct {
	RangeRequest
	Period string `form:"period" binding:"omitempty,oneof=hour day week month"`
}

// TrendsRequest optionally restricts category trends to one category
type TrendsRequest struct {
	Category string `form:"category"`
}
