// Package apperrors содержит определения кодов ошибок.
package apperrors

import (
	"fmt"
	"net/http"
)

// Code - машинный код ошибки.
type Code string

// AppError представляет ошибку.
type AppError struct {
	Code    Code
	Message string
}

// Error реализует error.
func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus возвращает подходящий HTTP статус для кода ошибки.
func (e *AppError) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Коды ошибок
const (
	ErrInvalidRequest  Code = "INVALID_REQUEST"
	ErrPayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	ErrRateLimited     Code = "RATE_LIMITED"
	ErrStorageWrite    Code = "STORAGE_WRITE_FAILED"
	ErrStorageRead     Code = "STORAGE_READ_FAILED"
	ErrInternalIssue   Code = "INTERNAL_ISSUE"
)

// messages - человекочитаемые строки по коду.
var messages = map[Code]string{
	ErrInvalidRequest:  "No payload provided",
	ErrPayloadTooLarge: "payload exceeds the configured size limit",
	ErrRateLimited:     "too many notifications, retry later",
	ErrStorageWrite:    "Database insertion failed",
	ErrStorageRead:     "failed to load events",
	ErrInternalIssue:   "internal server issue, please try again",
}

// statusByCode - HTTP-статусы по коду.
var statusByCode = map[Code]int{
	ErrInvalidRequest:  http.StatusBadRequest,
	ErrPayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrRateLimited:     http.StatusTooManyRequests,
	ErrStorageWrite:    http.StatusInternalServerError,
	ErrStorageRead:     http.StatusInternalServerError,
	ErrInternalIssue:   http.StatusInternalServerError,
}

// New создаёт AppError по коду.
func New(code Code) *AppError {
	return &AppError{Code: code, Message: messageFor(code)}
}

// WithMessage создаёт AppError с собственным сообщением.
func WithMessage(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// FromCode возвращает сообщение по коду (без создания AppError).
func FromCode(code Code) string { return messageFor(code) }

func messageFor(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[ErrInternalIssue]
}
