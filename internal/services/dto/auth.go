package dto

// UserTokens - ответ с токенами. При неактивном аккаунте токены пустые,
// а на почту уходит новый код подтверждения.
type UserTokens struct {
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	IsConfirmed    bool   `json:"is_confirmed"`
	MobilePhone    string `json:"mobile_phone"`
	HasMobilePhone bool   `json:"has_mobile_phone"`
}

// LoginEmailRequest - вход по email и паролю
type LoginEmailRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginMobilePhoneRequest - запрос SMS-кода для входа
type LoginMobilePhoneRequest struct {
	MobilePhone string `json:"mobile_phone" validate:"required,mobile_phone"`
}

// LoginMobileCodeRequest - вход по телефону и SMS-коду
type LoginMobileCodeRequest struct {
	MobilePhone string `json:"mobile_phone" validate:"required,mobile_phone"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RecoverPasswordRequest - запрос письма для сброса пароля
type RecoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest - новый пароль по коду из письма
type ChangePasswordRequest struct {
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,strong_password"`
}

// CodeRequest - подтверждение кодом (email или SMS)
type CodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// ResendEmailRequest - повторная отправка кода на почту
type ResendEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendSmsRequest - повторная отправка кода по SMS
type ResendSmsRequest struct {
	MobilePhone string `json:"mobile_phone" validate:"required,mobile_phone"`
}

// SuccessResponse - ответ операций, возвращающих только признак успеха
type SuccessResponse struct {
	Success bool `json:"success"`
}
