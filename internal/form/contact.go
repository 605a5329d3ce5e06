package form

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Contact is a trimmed contact form submission.
type Contact struct {
	FirstName string
	LastName  string
	Subject   string
}

// ValidationError reports the first rule a submission violated. The message is
// meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrEmptyField = &ValidationError{Field: "all", Rule: "required", Message: "Please fill in all fields."}

	ErrFirstNameShort = &ValidationError{Field: "firstname", Rule: "min", Message: "First name must be at least 2 characters long."}
	ErrFirstNameLong  = &ValidationError{Field: "firstname", Rule: "max", Message: "First name must be at most 50 characters long."}
	ErrLastNameShort  = &ValidationError{Field: "lastname", Rule: "min", Message: "Last name must be at least 2 characters long."}
	ErrLastNameLong   = &ValidationError{Field: "lastname", Rule: "max", Message: "Last name must be at most 50 characters long."}
	ErrSubjectShort   = &ValidationError{Field: "subject", Rule: "min", Message: "Subject must be at least 10 characters long."}
	ErrSubjectLong    = &ValidationError{Field: "subject", Rule: "max", Message: "Subject must be at most 250 characters long."}
)

const (
	NameMinLength    = 2
	NameMaxLength    = 50
	SubjectMinLength = 10
	SubjectMaxLength = 250
)

var validate = validator.New()

type fieldRule struct {
	value string
	tag   string
	err   *ValidationError
}

// ValidateContact trims the raw field values and checks them in order:
// emptiness of any field, then first name, last name and subject bounds.
// The first violation wins.
func ValidateContact(firstName, lastName, subject string) (Contact, error) {
	c := Contact{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Subject:   strings.TrimSpace(subject),
	}
	for _, value := range []string{c.FirstName, c.LastName, c.Subject} {
		if validate.Var(value, "required") != nil {
			return Contact{}, ErrEmptyField
		}
	}

	// validator counts runes for min/max on strings.
	rules := []fieldRule{
		{c.FirstName, "min=2", ErrFirstNameShort},
		{c.FirstName, "max=50", ErrFirstNameLong},
		{c.LastName, "min=2", ErrLastNameShort},
		{c.LastName, "max=50", ErrLastNameLong},
		{c.Subject, "min=10", ErrSubjectShort},
		{c.Subject, "max=250", ErrSubjectLong},
	}
	for _, rule := range rules {
		if validate.Var(rule.value, rule.tag) != nil {
			return Contact{}, rule.err
		}
	}
	return c, nil
}
