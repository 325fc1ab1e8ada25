package web

import (
	"log/slog"
	"net/http"

	"redconnect/internal/adapters/http/middleware"
	"redconnect/internal/application/orchestrators"
	"redconnect/internal/domain/donor"
	"redconnect/internal/domain/guard"
	"redconnect/internal/domain/organizer"
)

// --- Login ---

type loginPage struct {
	Area  string
	Email string
}

// handleLogin serves the login screen of one area and processes its form.
func (s *Server) handleLogin(area string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		switch r.Method {
		case http.MethodGet:
			if s.follow(w, r, guard.LoginPageCheck(sess, area)) {
				return
			}
			s.renderTemplate(w, r, http.StatusOK, "login.html", loginPage{Area: area})
		case http.MethodPost:
			input := orchestrators.LoginInput{
				ClientID: middleware.ClientIDFromContext(r.Context()),
				Area:     area,
				Email:    form(r, "email"),
				Password: r.PostFormValue("password"),
			}
			res, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
				API:      s.deps.API,
				Sessions: s.deps.Sessions,
			})
			if err != nil {
				s.renderWithFlash(w, r, http.StatusOK, "login.html",
					loginPage{Area: area, Email: input.Email}, failure("Login Failed", userMessage(err)))
				return
			}
			s.redirect(w, r, res.Location, success("Login Successful", "Welcome back!"))
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// --- Registration ---

type donorRegisterPage struct {
	Form       donor.RegistrationForm
	BloodTypes []string
}

func donorRegistrationForm(r *http.Request) donor.RegistrationForm {
	return donor.RegistrationForm{
		FullName:          form(r, "full_name"),
		Email:             form(r, "email"),
		Password:          r.PostFormValue("password"),
		ConfirmPassword:   r.PostFormValue("confirm_password"),
		BloodType:         form(r, "blood_type"),
		Phone:             form(r, "phone"),
		DateOfBirth:       form(r, "date_of_birth"),
		Address:           form(r, "address"),
		City:              form(r, "city"),
		State:             form(r, "state"),
		Pincode:           form(r, "pincode"),
		Weight:            form(r, "weight"),
		MedicalConditions: form(r, "medical_conditions"),
		EmergencyContact:  form(r, "emergency_contact"),
	}
}

func (s *Server) handleDonorRegister(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		if s.follow(w, r, guard.LoginPageCheck(sess, guard.AreaDonor)) {
			return
		}
		s.renderTemplate(w, r, http.StatusOK, "donor_register.html", donorRegisterPage{BloodTypes: donor.BloodTypes})
	case http.MethodPost:
		f := donorRegistrationForm(r)
		res, err := orchestrators.ExecuteRegisterDonor(r.Context(), orchestrators.RegisterDonorInput{
			ClientID: middleware.ClientIDFromContext(r.Context()),
			Form:     f,
		}, orchestrators.RegisterDeps{API: s.deps.API, Sessions: s.deps.Sessions})
		if err != nil {
			f.Password, f.ConfirmPassword = "", ""
			s.renderWithFlash(w, r, http.StatusOK, "donor_register.html",
				donorRegisterPage{Form: f, BloodTypes: donor.BloodTypes}, failure("Registration Failed", userMessage(err)))
			return
		}
		s.redirect(w, r, res.Location, success("Registration Successful", "Welcome to Red Connect!"))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type organizerRegisterPage struct {
	Form organizer.RegistrationForm
}

func organizerRegistrationForm(r *http.Request) organizer.RegistrationForm {
	return organizer.RegistrationForm{
		ContactPerson:      form(r, "contact_person"),
		Email:              form(r, "email"),
		Password:           r.PostFormValue("password"),
		ConfirmPassword:    r.PostFormValue("confirm_password"),
		OrganizationName:   form(r, "organization_name"),
		Phone:              form(r, "phone"),
		Address:            form(r, "address"),
		City:               form(r, "city"),
		State:              form(r, "state"),
		Pincode:            form(r, "pincode"),
		RegistrationNumber: form(r, "registration_number"),
		Website:            form(r, "website"),
		Description:        form(r, "description"),
	}
}

func (s *Server) handleOrganizerRegister(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		if s.follow(w, r, guard.LoginPageCheck(sess, guard.AreaOrganizer)) {
			return
		}
		s.renderTemplate(w, r, http.StatusOK, "organizer_register.html", organizerRegisterPage{})
	case http.MethodPost:
		f := organizerRegistrationForm(r)
		res, err := orchestrators.ExecuteRegisterOrganizer(r.Context(), orchestrators.RegisterOrganizerInput{
			ClientID: middleware.ClientIDFromContext(r.Context()),
			Form:     f,
		}, orchestrators.RegisterDeps{API: s.deps.API, Sessions: s.deps.Sessions})
		if err != nil {
			f.Password, f.ConfirmPassword = "", ""
			s.renderWithFlash(w, r, http.StatusOK, "organizer_register.html",
				organizerRegisterPage{Form: f}, failure("Registration Failed", userMessage(err)))
			return
		}
		s.redirect(w, r, res.Location, success("Registration Successful", "Welcome to Red Connect!"))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Navigation guard ---

// handleNavigate is the target of every role-area link in the navigation.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	area, err := guard.ParseArea(r.PathValue("area"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	d := guard.Navigate(middleware.SessionFromContext(r.Context()), area)
	slog.Debug("guard_event", "event", d.Action.String(), "area", area)
	http.Redirect(w, r, d.Location, http.StatusSeeOther)
}

type switchRolePage struct {
	Area       string
	Prompt     guard.Notice
	CancelPath string
}

// handleSwitchRole asks before logging out of one role to enter the other.
// Cancel changes nothing; confirm clears the session and opens the target login.
func (s *Server) handleSwitchRole(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	area, err := guard.ParseArea(r.FormValue("to"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	// Nothing to switch away from: behave like a plain navigation.
	if d := guard.Navigate(sess, area); d.Action != guard.PromptSwitch {
		http.Redirect(w, r, d.Location, http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderTemplate(w, r, http.StatusOK, "switch_role.html", switchRolePage{
			Area:       area,
			Prompt:     guard.SwitchPrompt(area),
			CancelPath: guard.DashboardPath(sess.Role),
		})
	case http.MethodPost:
		if r.PostFormValue("action") != "confirm" {
			http.Redirect(w, r, guard.DashboardPath(sess.Role), http.StatusSeeOther)
			return
		}
		loc, err := orchestrators.ExecuteConfirmRoleSwitch(r.Context(), orchestrators.ConfirmRoleSwitchInput{
			ClientID: middleware.ClientIDFromContext(r.Context()),
			Area:     area,
		}, orchestrators.LogoutDeps{Sessions: s.deps.Sessions, Chats: s.deps.Chats})
		if err != nil {
			s.redirect(w, r, guard.DashboardPath(sess.Role), failure("Logout Failed", userMessage(err)))
			return
		}
		s.redirect(w, r, loc, &Flash{Kind: FlashInfo, Title: "Logged Out", Message: "Please log in to continue"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogout clears all four session keys whatever the role.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
		ClientID: middleware.ClientIDFromContext(r.Context()),
	}, orchestrators.LogoutDeps{Sessions: s.deps.Sessions, Chats: s.deps.Chats})
	if err != nil {
		s.redirect(w, r, "/", failure("Logout Failed", userMessage(err)))
		return
	}
	s.redirect(w, r, "/", success("Logged Out", "You have been logged out successfully"))
}
