package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DefaultPassword проходит проверку strong_password
const DefaultPassword = "Secret123!"

var seq atomic.Int64

// Customer - зарегистрированный клиент
type Customer struct {
	Email       string
	MobilePhone string
	CompanyName string
	Tokens      dto.UserTokens
}

// SignUpRequest - уникальный запрос регистрации
func SignUpRequest() dto.CreateCustomerRequest {
	n := seq.Add(1)
	return dto.CreateCustomerRequest{
		Email:       fmt.Sprintf("customer_%d@test.com", n),
		Password:    DefaultPassword,
		CompanyName: fmt.Sprintf("Company %d", n),
		FirstName:   "Ada",
		LastName:    "Lovelace",
		MobilePhone: fmt.Sprintf("+3460000%04d", n),
		JobTitle:    "CEO",
	}
}

// SignUp регистрирует клиента через API
func SignUp(t *testing.T, ts *TestServer, req dto.CreateCustomerRequest) *Customer {
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", req)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	c := &Customer{Email: req.Email, MobilePhone: req.MobilePhone, CompanyName: req.CompanyName}
	require.NoError(t, json.Unmarshal([]byte(body), &c.Tokens))
	return c
}

// ActiveCustomer регистрирует клиента и подтверждает email
func ActiveCustomer(t *testing.T, ts *TestServer) *Customer {
	c := SignUp(t, ts, SignUpRequest())

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/email-confirmation", "",
		dto.CodeRequest{Code: CodeFor(t, ts.DB, c.Email, models.ChannelEmail)})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &c.Tokens))
	require.NotEmpty(t, c.Tokens.AccessToken)
	return c
}

// CodeFor - текущий код пользователя по каналу
func CodeFor(t *testing.T, db *gorm.DB, email string, channel models.Channel) string {
	var code models.CodeVerification
	q := db.Joins("JOIN users ON users.id = code_verifications.user_id").
		Where("users.email = ?", email)
	if channel == models.ChannelSMS {
		q = q.Where("code_verifications.is_sms = ?", true)
	} else {
		q = q.Where("code_verifications.is_email = ?", true)
	}
	require.NoError(t, q.First(&code).Error)
	return code.Code
}

// UserID - id пользователя по email
func UserID(t *testing.T, db *gorm.DB, email string) string {
	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	return user.ID
}

// Count - число строк модели
func Count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// Me - GET /users/me
func Me(t *testing.T, ts *TestServer, token string) dto.MeResponse {
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var me dto.MeResponse
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	return me
}
