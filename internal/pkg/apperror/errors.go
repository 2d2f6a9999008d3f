package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
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

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал с предопределёнными значениями
// даже после Wrap.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
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

// Validation создаёт ошибку валидации из произвольной ошибки валидатора.
func Validation(err error) *AppError {
	return New(ErrCodeValidation, err.Error())
}

// Internal оборачивает инфраструктурную ошибку, сообщение для клиента маскируется.
func Internal(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "внутренняя ошибка сервера")
}

// InvalidTransition сообщает о недопустимом переходе статуса.
func InvalidTransition(from, to string) *AppError {
	return New(ErrCodeBadRequest, fmt.Sprintf("нельзя перейти из статуса %s в %s", from, to))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

var (
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")
	ErrUserNotFound     = New(ErrCodeNotFound, "пользователь не найден")
	ErrProviderNotFound = New(ErrCodeNotFound, "специалист не найден")

	ErrCategoryNotFound = New(ErrCodeNotFound, "категория не найдена")
	ErrCategoryExists   = New(ErrCodeConflict, "категория с таким названием уже существует")
	ErrCategoryInUse    = New(ErrCodeConflict, "нельзя удалить категорию, к которой привязаны навыки")
	ErrSkillNotFound    = New(ErrCodeNotFound, "навык не найден")
	ErrSkillExists      = New(ErrCodeConflict, "такой навык уже добавлен в эту категорию")
	ErrSkillInUse       = New(ErrCodeConflict, "нельзя удалить навык с активными бронированиями")

	ErrBookingNotFound     = New(ErrCodeNotFound, "бронирование не найдено")
	ErrSchedulingConflict  = New(ErrCodeConflict, "у специалиста уже есть бронирование на это время")
	ErrProviderUnavailable = New(ErrCodeBadRequest, "специалист сейчас не принимает бронирования")
	ErrSkillNotOwned       = New(ErrCodeBadRequest, "навык не принадлежит выбранному специалисту")

	ErrPaymentNotFound  = New(ErrCodeNotFound, "платёж не найден")
	ErrPaymentExists    = New(ErrCodeConflict, "платёж для этого бронирования уже существует")
	ErrRefundNotAllowed = New(ErrCodeBadRequest, "возврат возможен только для успешных платежей")

	ErrReviewNotFound = New(ErrCodeNotFound, "отзыв не найден")
	ErrReviewExists   = New(ErrCodeConflict, "вы уже оставили отзыв на это бронирование")

	ErrChatNotFound   = New(ErrCodeNotFound, "чат не найден")
	ErrNotParticipant = New(ErrCodeForbidden, "вы не участник этого чата")

	ErrContactNotFound      = New(ErrCodeNotFound, "обращение не найдено")
	ErrNotificationNotFound = New(ErrCodeNotFound, "уведомление не найдено")

	ErrInvalidToken     = New(ErrCodeUnauthorized, "недействительный токен")
	ErrInvalidSignature = New(ErrCodeBadRequest, "неверная подпись вебхука")
)
