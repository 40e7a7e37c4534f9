package dto

// Response is the envelope of every successful API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps data in a successful envelope
func OK(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}
