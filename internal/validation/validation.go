// Package validation holds the field rules a submission must pass before it is stored.
// The browser bundle mirrors these rules; this package is the authoritative copy.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pranchal07/heal/internal/model"
)

const (
	NameMinLength    = 2
	NameMaxLength    = 100
	MessageMinLength = 10
	MessageMaxLength = 1000
	EmailMaxLength   = 254
)

// Rule names reported in Violation.Rule.
const (
	RuleRequired      = "required"
	RuleTooShort      = "too_short"
	RuleTooLong       = "too_long"
	RuleBadCharacters = "bad_characters"
	RuleInvalidFormat = "invalid_format"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Violation is a single field-level failure.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidateSubmission runs every rule against in and returns the violations found,
// at most one per field, in the order name, email, message. A nil result means valid.
func ValidateSubmission(in model.SubmissionInput) []Violation {
	var out []Violation
	if v, ok := checkName(in.Name); !ok {
		out = append(out, v)
	}
	if v, ok := checkEmail(in.Email); !ok {
		out = append(out, v)
	}
	if v, ok := checkMessage(in.Message); !ok {
		out = append(out, v)
	}
	return out
}

func checkName(raw string) (Violation, bool) {
	value := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(value)
	switch {
	case value == "":
		return Violation{"name", RuleRequired, "Name is required"}, false
	case n < NameMinLength:
		return Violation{"name", RuleTooShort, "Name must be at least 2 characters long"}, false
	case n > NameMaxLength:
		return Violation{"name", RuleTooLong, "Name must be at most 100 characters long"}, false
	case !namePattern.MatchString(value):
		return Violation{"name", RuleBadCharacters, "Name can only contain letters and spaces"}, false
	}
	return Violation{}, true
}

func checkEmail(raw string) (Violation, bool) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return Violation{"email", RuleRequired, "Email is required"}, false
	case utf8.RuneCountInString(value) > EmailMaxLength:
		return Violation{"email", RuleTooLong, "Email must be at most 254 characters long"}, false
	case !emailPattern.MatchString(value):
		return Violation{"email", RuleInvalidFormat, "Please provide a valid email address"}, false
	}
	return Violation{}, true
}

func checkMessage(raw string) (Violation, bool) {
	value := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(value)
	switch {
	case value == "":
		return Violation{"message", RuleRequired, "Message is required"}, false
	case n < MessageMinLength:
		return Violation{"message", RuleTooShort, "Message must be at least 10 characters long"}, false
	case n > MessageMaxLength:
		return Violation{"message", RuleTooLong, "Message must be at most 1000 characters long"}, false
	}
	return Violation{}, true
}

// Sanitize returns the storable form of an already validated input:
// name and message trimmed, email normalized.
func Sanitize(in model.SubmissionInput) model.SubmissionInput {
	return model.SubmissionInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   NormalizeEmail(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
}
