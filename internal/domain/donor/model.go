package donor

import (
	"errors"
	"strconv"
	"strings"

	"redconnect/internal/domain/formcheck"
)

// MinPasswordLength is the shortest password accepted locally.
const MinPasswordLength = 6

// BloodTypes lists the selectable blood groups in display order.
var BloodTypes = []string{"O+", "O-", "A+", "A-", "B+", "B-", "AB+", "AB-"}

// Domain errors
var (
	ErrMissingRequired  = errors.New("please fill in all required fields (name, email, password, blood type)")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidBloodType = errors.New("please choose a valid blood type")
)

// Profile mirrors the server's donor record.
type Profile struct {
	ID                int64   `json:"id"`
	UserID            int64   `json:"user_id"`
	Email             string  `json:"email"`
	FullName          string  `json:"full_name"`
	Phone             string  `json:"phone"`
	DateOfBirth       string  `json:"date_of_birth"`
	BloodType         string  `json:"blood_type"`
	Address           string  `json:"address"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	Pincode           string  `json:"pincode"`
	Weight            float64 `json:"weight"`
	MedicalConditions string  `json:"medical_conditions"`
	EmergencyContact  string  `json:"emergency_contact"`
	LastDonationDate  string  `json:"last_donation_date"`
	TotalDonations    int     `json:"total_donations"`
	CreatedAt         string  `json:"created_at"`
}

// RegistrationForm is the uncommitted donor sign-up form.
type RegistrationForm struct {
	FullName          string `validate:"required"`
	Email             string `validate:"required"`
	Password          string `validate:"required,min=6"`
	ConfirmPassword   string `validate:"eqfield=Password"`
	BloodType         string `validate:"required,oneof=O+ O- A+ A- B+ B- AB+ AB-"`
	Phone             string
	DateOfBirth       string
	Address           string
	City              string
	State             string
	Pincode           string
	Weight            string
	MedicalConditions string
	EmergencyContact  string
}

// Validate runs the local checks that gate submission.
// Required fields are checked first, then the confirmation, then length.
// PRE: form values are raw user input
// POST: Returns nil only if the form may be submitted
func (f RegistrationForm) Validate() error {
	return formcheck.Check(f,
		formcheck.Rule{Tag: "required", Err: ErrMissingRequired},
		formcheck.Rule{Tag: "eqfield", Err: ErrPasswordMismatch},
		formcheck.Rule{Tag: "min", Err: ErrPasswordTooShort},
		formcheck.Rule{Tag: "oneof", Err: ErrInvalidBloodType},
	)
}

// Payload builds the register request body. Blank optional fields are sent as null.
// PRE: Validate returned nil
func (f RegistrationForm) Payload() map[string]any {
	return map[string]any{
		"full_name":          strings.TrimSpace(f.FullName),
		"email":              strings.TrimSpace(f.Email),
		"password":           f.Password,
		"blood_type":         f.BloodType,
		"phone":              formcheck.Blank(f.Phone),
		"date_of_birth":      formcheck.Blank(f.DateOfBirth),
		"address":            formcheck.Blank(f.Address),
		"city":               formcheck.Blank(f.City),
		"state":              formcheck.Blank(f.State),
		"pincode":            formcheck.Blank(f.Pincode),
		"weight":             parseWeight(f.Weight),
		"medical_conditions": formcheck.Blank(f.MedicalConditions),
		"emergency_contact":  formcheck.Blank(f.EmergencyContact),
	}
}

// UpdateForm is the editable copy of a donor profile on the dashboard.
type UpdateForm struct {
	FullName          string
	Phone             string
	DateOfBirth       string
	BloodType         string
	Address           string
	City              string
	State             string
	Pincode           string
	Weight            string
	MedicalConditions string
	EmergencyContact  string
}

// FormFromProfile seeds the editable copy from the canonical record.
func FormFromProfile(p Profile) UpdateForm {
	weight := ""
	if p.Weight > 0 {
		weight = strconv.FormatFloat(p.Weight, 'f', -1, 64)
	}
	return UpdateForm{
		FullName:          p.FullName,
		Phone:             p.Phone,
		DateOfBirth:       p.DateOfBirth,
		BloodType:         p.BloodType,
		Address:           p.Address,
		City:              p.City,
		State:             p.State,
		Pincode:           p.Pincode,
		Weight:            weight,
		MedicalConditions: p.MedicalConditions,
		EmergencyContact:  p.EmergencyContact,
	}
}

// Payload builds the profile update body. Blank fields are left out so the server keeps them.
func (f UpdateForm) Payload() map[string]any {
	body := map[string]any{}
	put := func(key, value string) {
		if v := formcheck.Blank(value); v != nil {
			body[key] = v
		}
	}
	put("full_name", f.FullName)
	put("phone", f.Phone)
	put("date_of_birth", f.DateOfBirth)
	put("blood_type", f.BloodType)
	put("address", f.Address)
	put("city", f.City)
	put("state", f.State)
	put("pincode", f.Pincode)
	put("medical_conditions", f.MedicalConditions)
	put("emergency_contact", f.EmergencyContact)
	if w := parseWeight(f.Weight); w != nil {
		body["weight"] = w
	}
	return body
}

func parseWeight(s string) any {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || w <= 0 {
		return nil
	}
	return w
}
