package organizer

import (
	"errors"
	"strings"

	"redconnect/internal/domain/formcheck"
)

// Domain errors
var (
	ErrMissingRequired  = errors.New("please fill in all required fields")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Profile mirrors the server's organizer record.
type Profile struct {
	ID                 int64  `json:"id"`
	UserID             int64  `json:"user_id"`
	Email              string `json:"email"`
	OrganizationName   string `json:"organization_name"`
	ContactPerson      string `json:"contact_person"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state"`
	Pincode            string `json:"pincode"`
	RegistrationNumber string `json:"registration_number"`
	Website            string `json:"website"`
	Description        string `json:"description"`
	Verified           bool   `json:"verified"`
	CreatedAt          string `json:"created_at"`
}

// RegistrationForm is the uncommitted organizer sign-up form.
type RegistrationForm struct {
	ContactPerson      string `validate:"required"`
	Email              string `validate:"required"`
	Password           string `validate:"required,min=6"`
	ConfirmPassword    string `validate:"eqfield=Password"`
	OrganizationName   string `validate:"required"`
	Phone              string
	Address            string
	City               string
	State              string
	Pincode            string
	RegistrationNumber string
	Website            string
	Description        string
}

// Validate runs the local checks that gate submission.
// PRE: form values are raw user input
// POST: Returns nil only if the form may be submitted
func (f RegistrationForm) Validate() error {
	return formcheck.Check(f,
		formcheck.Rule{Tag: "required", Err: ErrMissingRequired},
		formcheck.Rule{Tag: "eqfield", Err: ErrPasswordMismatch},
		formcheck.Rule{Tag: "min", Err: ErrPasswordTooShort},
	)
}

// Payload builds the register request body. Blank optional fields are sent as null.
func (f RegistrationForm) Payload() map[string]any {
	return map[string]any{
		"contact_person":      strings.TrimSpace(f.ContactPerson),
		"email":               strings.TrimSpace(f.Email),
		"password":            f.Password,
		"organization_name":   strings.TrimSpace(f.OrganizationName),
		"phone":               formcheck.Blank(f.Phone),
		"address":             formcheck.Blank(f.Address),
		"city":                formcheck.Blank(f.City),
		"state":               formcheck.Blank(f.State),
		"pincode":             formcheck.Blank(f.Pincode),
		"registration_number": formcheck.Blank(f.RegistrationNumber),
		"website":             formcheck.Blank(f.Website),
		"description":         formcheck.Blank(f.Description),
	}
}

// UpdateForm is the editable copy of an organizer profile.
// The registration number is fixed at sign-up and cannot be edited.
type UpdateForm struct {
	OrganizationName string
	ContactPerson    string
	Phone            string
	Address          string
	City             string
	State            string
	Pincode          string
	Website          string
	Description      string
}

// FormFromProfile seeds the editable copy from the canonical record.
func FormFromProfile(p Profile) UpdateForm {
	return UpdateForm{
		OrganizationName: p.OrganizationName,
		ContactPerson:    p.ContactPerson,
		Phone:            p.Phone,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		Pincode:          p.Pincode,
		Website:          p.Website,
		Description:      p.Description,
	}
}

// Payload builds the profile update body. Blank fields are left out.
func (f UpdateForm) Payload() map[string]any {
	body := map[string]any{}
	put := func(key, value string) {
		if v := formcheck.Blank(value); v != nil {
			body[key] = v
		}
	}
	put("organization_name", f.OrganizationName)
	put("contact_person", f.ContactPerson)
	put("phone", f.Phone)
	put("address", f.Address)
	put("city", f.City)
	put("state", f.State)
	put("pincode", f.Pincode)
	put("website", f.Website)
	put("description", f.Description)
	return body
}
