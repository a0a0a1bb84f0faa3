package dto

// TeamMember - сотрудник компании в списке команды
type TeamMember struct {
	ID          string   `json:"id"`
	ProfileID   string   `json:"profile_id"`
	Roles       []string `json:"roles"`
	Company     string   `json:"company"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	JobTitle    string   `json:"job_title"`
	IsActive    bool     `json:"is_active"`
	MobilePhone string   `json:"mobile_phone"`
}

type UpdateCustomerProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	JobTitle  string `json:"job_title" validate:"max=100"`
}

// UpdateEmployeeProfileRequest - правка сотрудника клиентом. Сотрудник
// ищется по email в компании вызывающего.
type UpdateEmployeeProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"role" validate:"omitempty,uuid"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	JobTitle    string `json:"job_title" validate:"max=100"`
	MobilePhone string `json:"mobile_phone" validate:"omitempty,mobile_phone"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
