package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeTransaction      ErrorCode = "TRANSACTION_FAILED"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Tag - короткий машинный тег для локализации на клиенте
type Tag string

const (
	TagNotValid           Tag = "@ErrorNotValid"
	TagYetExist           Tag = "@ErrorYetExist"
	TagNotCreate          Tag = "@ErrorNotCreate"
	TagNotUpdate          Tag = "@ErrorNotUpdate"
	TagNotRemove          Tag = "@ErrorNotRemove"
	TagNotValidCredential Tag = "@ErrorNotValidCredential"
	TagMobilePhone        Tag = "@ErrorMobilePhone"
	TagUnauthorized       Tag = "@ErrorUnauthorized"
	TagForbidden          Tag = "@ErrorForbidden"
	TagInternal           Tag = "@ErrorInternal"

	// Теги валидации полей
	TagEmailFormat       Tag = "@ErrorEmailFormat"
	TagMinLength         Tag = "@ErrorMinLength"
	TagMaxLength         Tag = "@ErrorMaxLength"
	TagPasswordFormat    Tag = "@ErrorPasswordFormat"
	TagMobilePhoneFormat Tag = "@ErrorMobilePhoneFormat"
	TagRequired          Tag = "@ErrorRequired"
)
