package httpapi

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// FieldError is a single validation failure. The wire shape matches the
// structured list clients consume on 400 responses.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
	Value string `json:"value"`
}

// sanitizePolicy strips any markup from user input before it is stored, so
// values are inert in downstream rendering contexts.
var sanitizePolicy = bluemonday.StrictPolicy()

// sanitize trims surrounding whitespace and neutralizes markup in a single
// input field.
func sanitize(value string) string {
	return sanitizePolicy.Sanitize(strings.TrimSpace(value))
}

// validator collects field errors exhaustively: every failed check is
// recorded and reported together rather than failing fast.
type validator struct {
	errs []FieldError
}

func (v *validator) add(param, msg, value string) {
	v.errs = append(v.errs, FieldError{Param: param, Msg: msg, Value: value})
}

// require records an error when value is empty and reports whether the
// value was present, so dependent checks can be skipped.
func (v *validator) require(param, value, msg string) bool {
	if value == "" {
		v.add(param, msg, value)
		return false
	}
	return true
}

// alphanumeric records an error when value contains anything beyond letters
// and digits.
func (v *validator) alphanumeric(param, value, msg string) {
	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			v.add(param, msg, value)
			return
		}
	}
}

// email records an error when value is not a syntactically valid address.
func (v *validator) email(param, value, msg string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(param, msg, value)
	}
}

// minLen records an error when value is shorter than n characters.
func (v *validator) minLen(param, value string, n int, msg string) {
	if len(value) < n {
		v.add(param, msg, value)
	}
}

func (v *validator) ok() bool {
	return len(v.errs) == 0
}
