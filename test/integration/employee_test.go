package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"onversed_backend/internal/email"
	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"
	"onversed_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRole(t *testing.T, ts *helpers.TestServer, token, name string) models.Role {
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/roles", token, dto.CreateRoleRequest{Name: name})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var role models.Role
	require.NoError(t, json.Unmarshal([]byte(body), &role))
	return role
}

// invitedPassword - сгенерированный пароль из письма сотруднику
func invitedPassword(t *testing.T, ts *helpers.TestServer, recipient string) string {
	var msg models.OutboxMessage
	require.NoError(t, ts.DB.
		Where("recipient = ? AND template = ?", recipient, email.TemplateWelcomeTeam).
		First(&msg).Error)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	password, _ := payload["password"].(string)
	require.NotEmpty(t, password)
	return password
}

func TestInvitedEmployeeFirstLoginActivatesAccount(t *testing.T) {
	ts := GetTestServer(t)
	customer := helpers.ActiveCustomer(t, ts)
	me := helpers.Me(t, ts, customer.Tokens.AccessToken)
	role := createRole(t, ts, customer.Tokens.AccessToken, "designer")

	req := dto.CreateEmployeeRequest{
		Email:       "employee@test.com",
		MobilePhone: "+34611111111",
		CompanyID:   me.CompanyID,
		FirstName:   "Grace",
		LastName:    "Hopper",
		Role:        role.ID,
		JobTitle:    "Designer",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/employees", customer.Tokens.AccessToken, req)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var profile models.Profile
	require.NoError(t, ts.DB.Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.email = ?", req.Email).First(&profile).Error)
	assert.True(t, profile.IsGenerated)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: req.Email, Password: invitedPassword(t, ts, req.Email)})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var tokens dto.UserTokens
	require.NoError(t, json.Unmarshal([]byte(body), &tokens))
	require.NotEmpty(t, tokens.AccessToken)

	employee := helpers.Me(t, ts, tokens.AccessToken)
	assert.True(t, employee.IsActive)
	assert.False(t, employee.IsCustomer)
	assert.Equal(t, me.CompanyID, employee.CompanyID)
	assert.Contains(t, employee.Roles, "designer")

	require.NoError(t, ts.DB.First(&profile, "id = ?", profile.ID).Error)
	assert.False(t, profile.IsGenerated)
}

func TestEmployeeCannotInviteOthers(t *testing.T) {
	ts := GetTestServer(t)
	customer := helpers.ActiveCustomer(t, ts)
	me := helpers.Me(t, ts, customer.Tokens.AccessToken)
	role := createRole(t, ts, customer.Tokens.AccessToken, "designer")

	invite := dto.CreateEmployeeRequest{
		Email:       "employee@test.com",
		MobilePhone: "+34622222222",
		CompanyID:   me.CompanyID,
		FirstName:   "Grace",
		LastName:    "Hopper",
		Role:        role.ID,
		JobTitle:    "Designer",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/employees", customer.Tokens.AccessToken, invite)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: invite.Email, Password: invitedPassword(t, ts, invite.Email)})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var tokens dto.UserTokens
	require.NoError(t, json.Unmarshal([]byte(body), &tokens))

	invite.Email = "another@test.com"
	invite.MobilePhone = "+34633333333"
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/users/employees", tokens.AccessToken, invite)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)
}

func TestTeamsListsCompanyMembers(t *testing.T) {
	ts := GetTestServer(t)
	customer := helpers.ActiveCustomer(t, ts)
	// чужая компания не попадает в список
	helpers.ActiveCustomer(t, ts)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/profiles/teams", customer.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var team []dto.TeamMember
	require.NoError(t, json.Unmarshal([]byte(body), &team))
	require.Len(t, team, 1)
	assert.Equal(t, customer.Email, team[0].Email)
}

func TestInvitedEmployeeWrongPasswordStillActivates(t *testing.T) {
	ts := GetTestServer(t)
	customer := helpers.ActiveCustomer(t, ts)
	me := helpers.Me(t, ts, customer.Tokens.AccessToken)
	role := createRole(t, ts, customer.Tokens.AccessToken, "designer")

	req := dto.CreateEmployeeRequest{
		Email:       "employee@test.com",
		MobilePhone: "+34644444444",
		CompanyID:   me.CompanyID,
		FirstName:   "Grace",
		LastName:    "Hopper",
		Role:        role.ID,
		JobTitle:    "Designer",
	}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/users/employees", customer.Tokens.AccessToken, req)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: req.Email, Password: "Wrong123!"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	var user models.User
	require.NoError(t, ts.DB.Where("email = ?", req.Email).First(&user).Error)
	assert.True(t, user.IsActive)

	var profile models.Profile
	require.NoError(t, ts.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.False(t, profile.IsGenerated)

	// обычный вход после активации
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login/email", "",
		dto.LoginEmailRequest{Email: req.Email, Password: invitedPassword(t, ts, req.Email)})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}
