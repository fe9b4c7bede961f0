package main

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// CredUI text limits, in UTF-16 code units.
const (
	MaxCaptionLength       = 100
	MaxMessageLength       = 100
	MaxUserNameLength      = 100
	MaxPasswordLength      = 100
	MaxDomainLength        = 100
	MaxGenericTargetLength = 100
)

// Field names reported by InvalidFieldError
const (
	FieldCaption  = "Caption"
	FieldMessage  = "Message"
	FieldUserName = "UserName"
	FieldPassword = "Password"
	FieldDomain   = "Domain"
	FieldTarget   = "Target"
)

// ErrInvalidField is matched by every InvalidFieldError via errors.Is
var ErrInvalidField = errors.New("invalid field")

// InvalidFieldError reports a text field that exceeds its CredUI limit
type InvalidFieldError struct {
	Field string
	Limit int
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("the %s has a maximum length of %d characters", e.Field, e.Limit)
}

// Is lets errors.Is(err, ErrInvalidField) match any field
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// utf16Len returns the number of UTF-16 code units needed to encode s
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			// invalid runes are encoded as U+FFFD
			n++
		}
	}
	return n
}

// validateField returns value unchanged when it fits in limit UTF-16 units
func validateField(field, value string, limit int) (string, error) {
	if utf16Len(value) > limit {
		return "", &InvalidFieldError{Field: field, Limit: limit}
	}
	return value, nil
}
