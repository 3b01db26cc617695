package domain

// Gender values accepted by the signup form.
const (
	GenderMale   = "m"
	GenderFemale = "f"
	GenderOther  = "other"
)

// Account status values relayed from the backend.
const (
	StatusPendingApproval = "pending_approval"
	StatusActive          = "active"
)

// SignupForm is the full registration payload.
type SignupForm struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Phone           string `json:"phone"`
	DOB             string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"omitempty,oneof=m f other"`
	Address         string `json:"address"`
	Role            Role   `json:"role_type" validate:"required,oneof=super_admin artist_manager artist"`
}

// WithDefaults fills the fields the signup form preselects: gender m, role artist.
func (f SignupForm) WithDefaults() SignupForm {
	if f.Gender == "" {
		f.Gender = GenderMale
	}
	if f.Role == "" {
		f.Role = RoleArtist
	}
	return f
}

// PasswordsMatch reports whether password and confirmation are byte-equal.
func (f SignupForm) PasswordsMatch() bool {
	return f.Password == f.ConfirmPassword
}

// Credentials is what a login attempt submits.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountSummary is what the backend returns for a successful registration.
type AccountSummary struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    Role   `json:"role_type,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Notice is the message shown to the user after signing up.
func (a *AccountSummary) Notice() string {
	if a == nil {
		return ""
	}
	if a.Message != "" {
		return a.Message
	}
	if a.Status == StatusActive || (a.Status == "" && a.Role == RoleArtist) {
		return "User created successfully! Redirecting to login..."
	}
	return "Account created! Please wait for admin approval."
}
