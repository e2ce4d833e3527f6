package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// User-facing domain errors. Messages are shown verbatim to the user.
var (
	ErrUsernameTaken      = NewConflictError("Nome de usuário já existe")
	ErrInvalidCredentials = NewUnauthorizedError("Usuário ou senha incorretos")
	ErrNoImage            = NewValidationError("Nenhuma imagem selecionada")
	ErrEmptyComment       = NewValidationError("Comentário vazio")
	ErrSelfFriendship     = NewValidationError("Você não pode adicionar a si mesmo")
	ErrRequestAlreadySent = NewConflictError("Solicitação já enviada")
	ErrAlreadyFriends     = NewConflictError("Já são amigos")
	ErrUserNotFound       = &AppError{Code: CodeNotFound, Message: "Usuário não encontrado"}
	ErrPostNotFound       = &AppError{Code: CodeNotFound, Message: "Post não encontrado"}
)

// NewNotFoundError returns a NOT_FOUND error for the given resource and id.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusFor maps an error to the HTTP status used when rendering it as JSON.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// UserMessage returns the text safe to show to the user for err.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		return appErr.Message
	}
	return "Internal server error"
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Error: UserMessage(err)}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Code = appErr.Code
	}

	return c.Status(status).JSON(response)
}
