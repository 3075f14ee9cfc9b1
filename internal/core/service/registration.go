package service

import "github.com/tradeshift/trading-shell/internal/core/domain"

// MapRegistration converts the UI form into the record the API expects.
// Values are copied as-is; email mirrors username.
func MapRegistration(f domain.RegistrationForm) domain.RegistrationRecord {
	return domain.RegistrationRecord{
		FirstName:   f.Firstname,
		LastName:    f.Lastname,
		DateOfBirth: f.Dob,
		PhoneNumber: f.Phone,
		Gender:      f.Gender,
		AccountType: f.Accounttype,
		Username:    f.Username,
		Password:    f.Password,
		Role:        f.Role,
		Email:       f.Username,
	}
}

// NewAdminForm returns an empty admin registration form.
func NewAdminForm() domain.RegistrationForm {
	return domain.RegistrationForm{Role: domain.RoleAdmin, Accounttype: domain.AccountAdmin}
}

// NewUserForm returns an empty user registration form for accountType.
// Unknown account types fall back to individual.
func NewUserForm(accountType string) domain.RegistrationForm {
	for _, a := range domain.UserAccountTypes {
		if a == accountType {
			return domain.RegistrationForm{Role: domain.RoleUser, Accounttype: a}
		}
	}
	return domain.RegistrationForm{Role: domain.RoleUser, Accounttype: domain.AccountIndividual}
}
