package auth

import (
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "Email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Please enter a valid email")
	}
	if r.Password == "" {
		errs.Add("password", "Password is required")
	}

	return errs.OrNil()
}

// LoginResponse is the body of POST /auth/login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	User        user.User `json:"user"`
}
