package email

// Email представляет структуру email сообщения
type Email struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена шаблонов писем
const (
	TemplateCode           = "MAIL_CODE"
	TemplateEmployeeInvite = "MAIL_EMPLOYEE_INVITE"
	TemplateWelcomeTeam    = "MAIL_WELCOME_TEAM"
	TemplateResetPassword  = "MAIL_RESET_PASSWORD"
	TemplateWelcome        = "MAIL_WELCOME"
)

var subjects = map[string]string{
	TemplateCode:           "Your Onversed verification code",
	TemplateEmployeeInvite: "You have been invited to Onversed",
	TemplateWelcomeTeam:    "Welcome to the team",
	TemplateResetPassword:  "Reset your Onversed password",
	TemplateWelcome:        "Welcome to Onversed",
}

// Subject возвращает тему письма для шаблона
func Subject(templateName string) string {
	if s, ok := subjects[templateName]; ok {
		return s
	}
	return "Onversed"
}
