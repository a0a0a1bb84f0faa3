package auth

import (
	"strings"

	"onversed_backend/internal/models"
)

// Синтетические роли, вычисляемые из флагов профиля
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

// ProfileRoles возвращает имена ролей профиля вместе с синтетическими
func ProfileRoles(profile *models.Profile) []string {
	if profile == nil {
		return nil
	}
	roles := profile.RoleNames()
	if profile.IsCustomer {
		roles = append(roles, RoleCustomer)
	}
	if profile.IsStaff {
		roles = append(roles, RoleStaff)
	}
	return roles
}

// HasRole - профиль имеет хотя бы одну из требуемых ролей.
// Пустой набор требований разрешает доступ. Имена сравниваются без учета регистра.
func HasRole(profile *models.Profile, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	if profile == nil {
		return false
	}

	have := ProfileRoles(profile)
	for _, want := range required {
		for _, r := range have {
			if strings.EqualFold(r, want) {
				return true
			}
		}
	}
	return false
}
