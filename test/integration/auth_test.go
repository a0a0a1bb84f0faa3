package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpCreatesCustomerAccount(t *testing.T) {
	ts := GetTestServer(t)

	c := helpers.SignUp(t, ts, helpers.SignUpRequest())

	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.User{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Company{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Profile{}))
	assert.EqualValues(t, 2, helpers.Count(t, ts.DB, &models.CodeVerification{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Token{}))
	// письмо с кодом и SMS с кодом
	assert.EqualValues(t, 2, helpers.Count(t, ts.DB, &models.OutboxMessage{}))
	emails, err := repositories.NewOutboxRepository().CountByRecipient(ts.DB, c.Email)
	require.NoError(t, err)
	assert.EqualValues(t, 1, emails)

	assert.False(t, c.Tokens.IsConfirmed)
	assert.True(t, c.Tokens.HasMobilePhone)
}

func TestSignUpDuplicateCompanyLeavesNoTrace(t *testing.T) {
	ts := GetTestServer(t)

	first := helpers.SignUpRequest()
	helpers.SignUp(t, ts, first)

	second := helpers.SignUpRequest()
	second.CompanyName = first.CompanyName
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/signup", "", second)
	require.Equal(t, http.StatusConflict, res.StatusCode, body)

	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.User{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Company{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Profile{}))
	assert.EqualValues(t, 2, helpers.Count(t, ts.DB, &models.CodeVerification{}))
	assert.EqualValues(t, 2, helpers.Count(t, ts.DB, &models.OutboxMessage{}))
}

func TestEmailCodeIsConsumedOnce(t *testing.T) {
	ts := GetTestServer(t)

	c := helpers.SignUp(t, ts, helpers.SignUpRequest())
	code := helpers.CodeFor(t, ts.DB, c.Email, models.ChannelEmail)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/email-confirmation", "", dto.CodeRequest{Code: code})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/email-confirmation", "", dto.CodeRequest{Code: code})
	assert.Equal(t, http.StatusNotFound, res.StatusCode, body)

	// SMS-код пользователя не затронут
	codes, err := repositories.NewCodeVerificationRepository().CountByUserID(ts.DB, helpers.UserID(t, ts.DB, c.Email))
	require.NoError(t, err)
	assert.EqualValues(t, 1, codes)
}

func TestRepeatedLoginKeepsSingleToken(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	var last dto.UserTokens
	for i := 0; i < 3; i++ {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
			dto.LoginEmailRequest{Email: c.Email, Password: helpers.DefaultPassword})
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		require.NoError(t, json.Unmarshal([]byte(body), &last))
	}

	tokens, err := repositories.NewTokenRepository().CountByUserID(ts.DB, helpers.UserID(t, ts.DB, c.Email))
	require.NoError(t, err)
	assert.EqualValues(t, 1, tokens)

	// выданный ранее токен больше не принимается
	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", c.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	me := helpers.Me(t, ts, last.AccessToken)
	assert.Equal(t, c.Email, me.Email)
	assert.True(t, me.IsCustomer)
	assert.Contains(t, me.Roles, "CUSTOMER")
}

func TestLoginWithWrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: c.Email, Password: "Wrong123!"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		dto.RefreshTokenRequest{RefreshToken: c.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var tokens dto.UserTokens
	require.NoError(t, json.Unmarshal([]byte(body), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Token{}))

	// старый refresh-токен отозван
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "",
		dto.RefreshTokenRequest{RefreshToken: c.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRecoverPasswordUnknownEmail(t *testing.T) {
	ts := GetTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/recover-password", "",
		dto.RecoverPasswordRequest{Email: "nobody@test.com"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	assert.Zero(t, helpers.Count(t, ts.DB, &models.OutboxMessage{}))
	sent, err := repositories.NewOutboxRepository().CountByRecipient(ts.DB, "nobody@test.com")
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRecoverAndChangePassword(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/recover-password", "",
		dto.RecoverPasswordRequest{Email: c.Email})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	code := helpers.CodeFor(t, ts.DB, c.Email, models.ChannelEmail)
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", "",
		dto.ChangePasswordRequest{Code: code, Password: "NewSecret1!"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: c.Email, Password: helpers.DefaultPassword})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: c.Email, Password: "NewSecret1!"})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := GetTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
