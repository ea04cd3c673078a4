package content

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// notBlank rejects strings that are empty after trimming.
func notBlank(msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError("validation_not_blank", msg)
		}
		return nil
	})
}

// Validate checks the Episode invariants.
func (e Episode) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, notBlank("title is required")),
	)
}

// Validate checks the BlogPost invariants.
func (p BlogPost) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, notBlank("title is required")),
	)
}

// Validate checks the ProfileData invariants.
func (p ProfileData) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.WorkStartDate, validation.Date("2006-01").Error("workStartDate must use the YYYY-MM format")),
	)
}

// Validate checks that every contact form field is present.
func (m ContactMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, notBlank("name is required")),
		validation.Field(&m.Email, notBlank("email is required")),
		validation.Field(&m.Subject, notBlank("subject is required")),
		validation.Field(&m.Body, notBlank("body is required")),
	)
}
