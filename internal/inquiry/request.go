// Package inquiry accepts investment inquiries from the contact form,
// stores them and forwards them to the agent by email.
package inquiry

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrValidation marks a request rejected by Validate.
var ErrValidation = errors.New("inquiry: invalid request")

// InvestmentTypes are the accepted values of Request.InvestmentType.
var InvestmentTypes = []string{"full-purchase", "partnership", "tourism-investment", "residency", "other"}

const (
	maxNameLen    = 100
	maxMessageLen = 5000
	minPhoneLen   = 6
	maxPhoneLen   = 20
)

// Request is the body of POST /api/inquiries.
type Request struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	InvestmentType string `json:"investmentType,omitempty"`
	Message        string `json:"message,omitempty"`
	Consent        bool   `json:"consent"`
}

// Record is a stored inquiry.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Request
}

// FieldErrors maps a JSON field name to the reason it was rejected.
type FieldErrors map[string]string

// ValidationError carries every field problem of one request.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "inquiry: invalid request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Normalize trims surrounding whitespace from every text field.
func (r Request) Normalize() Request {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.InvestmentType = strings.TrimSpace(r.InvestmentType)
	r.Message = strings.TrimSpace(r.Message)
	return r
}

// Validate checks a normalized request. It returns a *ValidationError
// listing all problems, or nil.
func (r Request) Validate() error {
	errs := FieldErrors{}

	checkName := func(field, v string) {
		switch {
		case v == "":
			errs[field] = "is required"
		case utf8.RuneCountInString(v) > maxNameLen:
			errs[field] = fmt.Sprintf("must be at most %d characters", maxNameLen)
		}
	}
	checkName("firstName", r.FirstName)
	checkName("lastName", r.LastName)

	if r.Email == "" {
		errs["email"] = "is required"
	} else if !validEmail(r.Email) {
		errs["email"] = "must be a valid email address"
	}

	if r.Phone != "" && !validPhone(r.Phone) {
		errs["phone"] = "must be 6 to 20 digits, spaces or + ( ) -"
	}

	if r.InvestmentType != "" && !validInvestmentType(r.InvestmentType) {
		errs["investmentType"] = "must be one of " + strings.Join(InvestmentTypes, ", ")
	}

	if utf8.RuneCountInString(r.Message) > maxMessageLen {
		errs["message"] = fmt.Sprintf("must be at most %d characters", maxMessageLen)
	}

	if !r.Consent {
		errs["consent"] = "must be given"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// validEmail accepts a bare address with a dotted domain.
func validEmail(s string) bool {
	addr, err := netmail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func validPhone(s string) bool {
	if len(s) < minPhoneLen || len(s) > maxPhoneLen {
		return false
	}
	digits := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == ' ' || c == '+' || c == '(' || c == ')' || c == '-':
		default:
			return false
		}
	}
	return digits > 0
}

func validInvestmentType(s string) bool {
	for _, t := range InvestmentTypes {
		if s == t {
			return true
		}
	}
	return false
}
