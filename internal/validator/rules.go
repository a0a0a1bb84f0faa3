package validator

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"onversed_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// PasswordSpecialChars - допустимые спецсимволы пароля
const PasswordSpecialChars = "@$!%*?&"

// E.164 с допустимыми одиночными пробелами между цифрами
var mobilePhoneRe = regexp.MustCompile(`^\+(?:[0-9] ?){6,14}[0-9]$`)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться, так как это критическая ошибка.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'strong_password': строчная, заглавная, цифра и спецсимвол из @$!%*?&
	mustRegister("strong_password", validateStrongPassword)

	// 'mobile_phone': формат E.164
	mustRegister("mobile_phone", validateMobilePhone)

	mustRegister("activity_state", validateActivityState)
	mustRegister("blob_type", validateBlobType)
}

// --- Функции валидации ---

// IsStrongPassword проверяет пароль без учета длины (длину проверяет 'min')
func IsStrongPassword(s string) bool {
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r) && r < unicode.MaxASCII:
			lower = true
		case unicode.IsUpper(r) && r < unicode.MaxASCII:
			upper = true
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			digit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			special = true
		default:
			// любой другой символ запрещен
			return false
		}
	}
	return lower && upper && digit && special
}

// IsMobilePhone проверяет формат телефона
func IsMobilePhone(s string) bool {
	return mobilePhoneRe.MatchString(s)
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return IsStrongPassword(value)
}

func validateMobilePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return IsMobilePhone(value)
}

func validateActivityState(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ActivityState(value).IsValid()
}

func validateBlobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseBlobType(value)
	return ok
}
