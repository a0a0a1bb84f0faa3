package apperrors

import (
	"net/http"
)

/*
Предопределенные доменные ошибки. Все возвращаемые клиенту ошибки несут
короткий тег (@Error...), детали причины остаются только в логах.
*/

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - фабрика для "не найдено" (404)
func ErrNotFound(err error, domain string) *AppError {
	return Wrap(err, CodeNotFound, domain, "Resource not found", http.StatusNotFound).WithTag(TagNotValid)
}

// ErrAlreadyExists - фабрика для "уже существует" (409)
func ErrAlreadyExists(err error, domain string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, "Resource already exists", http.StatusConflict).WithTag(TagYetExist)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict).WithTag(TagYetExist)
}

// =========================================================================
// Общие
// =========================================================================

// ErrNotValid - отсутствующие или невалидные входные данные
var ErrNotValid = New(CodeValidationFailed, "validation", "Invalid input", http.StatusBadRequest).WithTag(TagNotValid)

// ErrInsufficientPermissions - у профиля нет требуемой роли
var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden).WithTag(TagForbidden)

// ErrOtherCompany - сущность принадлежит другой компании
var ErrOtherCompany = New(CodeForbidden, "tenant", "Resource belongs to another company", http.StatusForbidden).WithTag(TagForbidden)

// --- Auth ---

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized).WithTag(TagNotValidCredential)

// ErrInvalidToken - неверный, отозванный или просроченный токен
var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized).WithTag(TagUnauthorized)

// ErrUserInactive - аккаунт не активирован
var ErrUserInactive = New(CodeUnauthorized, "auth", "Account is not active", http.StatusUnauthorized).WithTag(TagUnauthorized)

// ErrNoProfile - у пользователя нет профиля
var ErrNoProfile = New(CodeForbidden, "auth", "User has no profile", http.StatusForbidden).WithTag(TagForbidden)

// --- Users ---

// ErrUserAlreadyExists - email или телефон уже заняты
var ErrUserAlreadyExists = New(CodeConflict, "user", "User with this email or mobile phone already exists", http.StatusConflict).WithTag(TagYetExist)

// ErrCompanyAlreadyExists - компания с таким именем уже есть
var ErrCompanyAlreadyExists = New(CodeConflict, "company", "Company with this name already exists", http.StatusConflict).WithTag(TagYetExist)

// ErrMobilePhone - телефон не найден или не подтвержден
var ErrMobilePhone = New(CodeNotFound, "user", "Mobile phone is not registered or not confirmed", http.StatusNotFound).WithTag(TagMobilePhone)

// ErrCurrentValueMismatch - переданное "текущее" значение не совпадает с сохраненным
var ErrCurrentValueMismatch = New(CodeValidationFailed, "user", "Current value does not match", http.StatusBadRequest).WithTag(TagNotValid)

// --- Codes ---

// ErrCodeNotFound - код не найден или уже использован
var ErrCodeNotFound = New(CodeNotFound, "code_verification", "Verification code not found", http.StatusNotFound).WithTag(TagNotValid)

// --- Catalog ---

// ErrUnknownBlobType - имя части multipart не является типом блоба
var ErrUnknownBlobType = New(CodeValidationFailed, "blob", "Unknown blob type", http.StatusBadRequest).WithTag(TagNotValid)

// ErrFileTooLarge - файл превышает лимит
var ErrFileTooLarge = New(CodeValidationFailed, "blob", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge).WithTag(TagNotValid)

// ErrInvalidFileType - MIME-тип не разрешен
var ErrInvalidFileType = New(CodeValidationFailed, "blob", "The provided file type is not allowed", http.StatusUnsupportedMediaType).WithTag(TagNotValid)

// ErrRoleAlreadyExists - роль с таким именем уже есть
var ErrRoleAlreadyExists = New(CodeConflict, "role", "Role already exists", http.StatusConflict).WithTag(TagYetExist)

// ErrTooManyRequests - превышен лимит запросов к auth-маршрутам
var ErrTooManyRequests = New(CodeRateLimited, "request", "Too many requests", http.StatusTooManyRequests).WithTag(TagNotValid)
