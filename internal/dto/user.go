package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	apperrors "userdir/internal/errors"
	"userdir/internal/model"
)

var (
	validate  = validator.New()
	sanitizer = bluemonday.StrictPolicy()
)

// CreateUserRequest carries the fields required to create a user.
type CreateUserRequest struct {
	Name     string     `json:"name" validate:"required,min=2,max=50" example:"John Doe"`
	Email    string     `json:"email" validate:"required,email" example:"john.doe@example.com"`
	Password string     `json:"password" validate:"required,min=8,max=72" example:"SecurePassword123!"`
	Role     model.Role `json:"role" validate:"required,oneof=USER ADMIN" example:"USER"`
}

// Validate sanitizes free-text fields and checks every constraint, returning
// a *apperrors.ValidationError with per-field messages on failure.
func (r *CreateUserRequest) Validate() error {
	r.Name = sanitizeText(r.Name)
	if err := validate.Struct(r); err != nil {
		return toValidationError(err)
	}
	return nil
}

// UpdateUserRequest carries an optional subset of user fields. Absent fields
// are left untouched by the update.
type UpdateUserRequest struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=2,max=50" example:"John Doe Updated"`
	Email    *string     `json:"email,omitempty" validate:"omitempty,email" example:"john.updated@example.com"`
	Password *string     `json:"password,omitempty" validate:"omitempty,min=8,max=72" example:"NewSecurePassword123!"`
	Role     *model.Role `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN" example:"ADMIN"`
}

// Validate applies the same per-field rules as CreateUserRequest, but only to
// fields that are present.
func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil {
		name := sanitizeText(*r.Name)
		r.Name = &name
	}
	if err := validate.Struct(r); err != nil {
		return toValidationError(err)
	}
	return nil
}

// sanitizeText strips any markup so length rules apply to the visible text.
func sanitizeText(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

func toValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &apperrors.ValidationError{Fields: []string{err.Error()}}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldMessage(fe))
	}
	return &apperrors.ValidationError{Fields: fields}
}

// fieldMessage renders a human-readable message per failed field constraint.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		switch fe.Tag() {
		case "required":
			return "Name is required"
		case "min":
			return "Name must be at least 2 characters long"
		case "max":
			return "Name must not exceed 50 characters"
		}
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email format"
	case "Password":
		switch fe.Tag() {
		case "required":
			return "Password is required"
		case "max":
			return "Password must not exceed 72 characters"
		}
		return "Password must be at least 8 characters long"
	case "Role":
		if fe.Tag() == "required" {
			return "Role is required"
		}
		return "Role must be either USER or ADMIN"
	}
	return fe.Field() + " is invalid"
}
