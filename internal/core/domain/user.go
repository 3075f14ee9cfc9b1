package domain

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

const (
	AccountIndividual = "individual"
	AccountBusiness   = "business"
	AccountJoint      = "joint"
	AccountAdmin      = "admin"
)

// Genders offered by the registration form.
var Genders = []string{"male", "female", "others"}

// UserAccountTypes are the account types a ROLE_USER form may choose.
var UserAccountTypes = []string{AccountIndividual, AccountBusiness, AccountJoint}

// RegistrationForm is the raw registration input, keyed by the short names
// the form uses.
type RegistrationForm struct {
	Firstname   string `json:"firstname"   validate:"required"`
	Lastname    string `json:"lastname"    validate:"required"`
	Dob         string `json:"dob"         validate:"required"`
	Phone       string `json:"phone"       validate:"required,indian_mobile"`
	Gender      string `json:"gender"      validate:"required,oneof=male female others"`
	Accounttype string `json:"accounttype" validate:"required,account_for_role"`
	Username    string `json:"username"    validate:"required,gmail"`
	Password    string `json:"password"    validate:"required,strong_password"`
	Role        string `json:"role"        validate:"required,oneof=ROLE_USER ROLE_ADMIN"`
}

// ValidationMessage returns the message shown under a failing form field.
func (RegistrationForm) ValidationMessage(field string) string {
	switch field {
	case "firstname":
		return "First name is required"
	case "lastname":
		return "Last name is required"
	case "dob":
		return "Date of birth is required"
	case "phone":
		return "Valid 10-digit mobile number"
	case "gender":
		return "Gender is required"
	case "accounttype":
		return "Account type does not match the selected role"
	case "username":
		return "Use a valid @gmail.com email"
	case "password":
		return "8+ chars, include uppercase, lowercase, number & symbol"
	case "role":
		return "Role is required"
	}
	return ""
}

// RegistrationRecord is the body of POST /auth/register.
type RegistrationRecord struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	AccountType string `json:"accountType"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Email       string `json:"email"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the subset of the login response the client reads.
type LoginResponse struct {
	Token string `json:"token"`
}

// Profile is the body of GET /auth/profile/{username}.
type Profile struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role,omitempty"`
	AccountType string `json:"accountType,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// ProfileUpdate is the partial body of PUT /auth/update/{username}. Empty
// fields are left out of the request.
type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"   validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,indian_mobile"`
	Password    string `json:"password,omitempty" validate:"omitempty,strong_password"`
}
