package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeDuplicateKey       ErrorCode = "DUPLICATE_KEY"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingParameters  ErrorCode = "MISSING_PARAMETERS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpiredOrUsed ErrorCode = "TOKEN_EXPIRED_OR_USED"
	ErrCodeNoFaceData         ErrorCode = "NO_FACE_DATA"
	ErrCodeFaceMismatch       ErrorCode = "FACE_MISMATCH"
	ErrCodeInvalidEmbedding   ErrorCode = "INVALID_EMBEDDING"
	ErrCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeMissingParameters, ErrCodeDuplicateKey:
		return http.StatusBadRequest
	case ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsDuplicateKey(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeDuplicateKey
}

func IsStoreUnavailable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeStoreUnavailable
}

var (
	ErrUserNotFound       = New(ErrCodeNotFound, "пользователь не найден")
	ErrDocumentNotFound   = New(ErrCodeNotFound, "документ пользователя не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")
)
