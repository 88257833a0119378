// Package dto содержит структуры DTO для HTTP API.
package dto

// ErrorResponse - формат ошибки.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail - код и сообщение об ошибке.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse - POST /webhook response. Event заполнен только для записанного события.
type MessageResponse struct {
	Message string         `json:"message"`
	Event   *EventResponse `json:"event,omitempty"`
}

// EventResponse - событие в ответах API, без внутреннего идентификатора.
type EventResponse struct {
	RequestID  string `json:"request_id"`
	Author     string `json:"author"`
	Action     string `json:"action"`
	FromBranch string `json:"from_branch"`
	ToBranch   string `json:"to_branch"`
	Timestamp  string `json:"timestamp"`
}
