package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,strong_password"`
	MobilePhone string `json:"mobile_phone" validate:"omitempty,mobile_phone"`
	State       string `json:"state" validate:"omitempty,activity_state"`
}

func TestValidateReturnsFieldTags(t *testing.T) {
	v := New()

	err := v.Validate(signupInput{
		Email:       "not-an-email",
		Password:    "weak",
		MobilePhone: "600123",
		State:       "archived",
	})
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "@ErrorEmailFormat", verr.Errors["email"])
	assert.Equal(t, "@ErrorMinLength", verr.Errors["password"])
	assert.Equal(t, "@ErrorMobilePhoneFormat", verr.Errors["mobile_phone"])
	assert.Equal(t, "@ErrorNotValid", verr.Errors["state"])
}

func TestValidateRequired(t *testing.T) {
	err := New().Validate(signupInput{})
	require.Error(t, err)

	verr := err.(*ValidationError)
	assert.Equal(t, "@ErrorRequired", verr.Errors["email"])
	assert.Equal(t, "@ErrorRequired", verr.Errors["password"])
	assert.NotContains(t, verr.Errors, "mobile_phone")
}

func TestValidateOK(t *testing.T) {
	err := New().Validate(signupInput{
		Email:       "ana@acme.com",
		Password:    "Secret12!",
		MobilePhone: "+34 600 123 456",
		State:       "draft",
	})
	assert.NoError(t, err)
}

func TestIsStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"Secret12!":    true,
		"Aa1@aaaa":     true,
		"secret12!":    false, // нет заглавной
		"SECRET12!":    false, // нет строчной
		"Secretab!":    false, // нет цифры
		"Secret123":    false, // нет спецсимвола
		"Secret12!#":   false, // '#' не из набора
		"Sécret12!":    false, // не ASCII
		"Secret 12!aa": false,
	}
	for pwd, want := range tests {
		assert.Equal(t, want, IsStrongPassword(pwd), pwd)
	}

	err := New().Validate(signupInput{Email: "a@b.co", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, "@ErrorPasswordFormat", err.(*ValidationError).Errors["password"])
}

func TestIsMobilePhone(t *testing.T) {
	assert.True(t, IsMobilePhone("+34600123456"))
	assert.True(t, IsMobilePhone("+1 415 555 2671"))
	assert.False(t, IsMobilePhone("34600123456"))
	assert.False(t, IsMobilePhone("+12345"))
	assert.False(t, IsMobilePhone("+3460012345678901"))
	assert.False(t, IsMobilePhone("+34  600123456"))
}
