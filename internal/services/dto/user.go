package dto

// CreateCustomerRequest - регистрация клиента вместе с компанией
type CreateCustomerRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,strong_password"`
	CompanyName string `json:"company_name" validate:"required,max=255"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	MobilePhone string `json:"mobile_phone,omitempty" validate:"omitempty,mobile_phone"`
	JobTitle    string `json:"job_title,omitempty" validate:"max=100"`
	Lang        string `json:"lang,omitempty" validate:"omitempty,len=2"`
}

// CreateEmployeeRequest - приглашение сотрудника в компанию клиента
type CreateEmployeeRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	MobilePhone string `json:"mobile_phone" validate:"required,mobile_phone"`
	CompanyID   string `json:"company_id" validate:"required,uuid"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Role        string `json:"role" validate:"required,uuid"`
	JobTitle    string `json:"job_title" validate:"required,max=100"`
}

// PasswordRequest - подтверждение действия паролем
type PasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type UpdateEmailRequest struct {
	Code         string `json:"code" validate:"required,len=6,numeric"`
	CurrentEmail string `json:"current_email" validate:"required,email"`
	NewEmail     string `json:"new_email" validate:"required,email,max=255"`
}

type UpdateMobilePhoneRequest struct {
	Code               string `json:"code" validate:"required,len=6,numeric"`
	CurrentMobilePhone string `json:"current_mobile_phone" validate:"required"`
	NewMobilePhone     string `json:"new_mobile_phone" validate:"required,mobile_phone"`
}

// MeResponse - текущий пользователь и его профиль
type MeResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	MobilePhone string   `json:"mobile_phone"`
	IsActive    bool     `json:"is_active"`
	IsConfirmed bool     `json:"is_confirmed"`
	ProfileID   string   `json:"profile_id"`
	CompanyID   string   `json:"company_id"`
	CompanyName string   `json:"company_name"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	JobTitle    string   `json:"job_title"`
	IsCustomer  bool     `json:"is_customer"`
	AvatarURL   string   `json:"avatar_url"`
	Roles       []string `json:"roles"`
}
