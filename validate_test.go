package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "alice", 5},
		{"bmp", "Grüße", 5},
		{"surrogate pair", "🔑", 2},
		{"mixed", "a🔑b", 4},
		{"invalid utf8", "\xff", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utf16Len(tt.in))
		})
	}
}

func TestValidateFieldBoundary(t *testing.T) {
	fields := []struct {
		name  string
		limit int
	}{
		{FieldCaption, MaxCaptionLength},
		{FieldMessage, MaxMessageLength},
		{FieldUserName, MaxUserNameLength},
		{FieldPassword, MaxPasswordLength},
		{FieldDomain, MaxDomainLength},
		{FieldTarget, MaxGenericTargetLength},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			exact := strings.Repeat("x", f.limit)
			got, err := validateField(f.name, exact, f.limit)
			require.NoError(t, err)
			assert.Equal(t, exact, got)

			_, err = validateField(f.name, exact+"x", f.limit)
			var fieldErr *InvalidFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, f.name, fieldErr.Field)
			assert.Equal(t, f.limit, fieldErr.Limit)
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestValidateFieldCountsUTF16Units(t *testing.T) {
	// 50 surrogate pairs fill the limit exactly
	_, err := validateField(FieldUserName, strings.Repeat("🔑", 50), MaxUserNameLength)
	assert.NoError(t, err)

	_, err = validateField(FieldUserName, strings.Repeat("🔑", 50)+"a", MaxUserNameLength)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestInvalidFieldErrorMessage(t *testing.T) {
	err := &InvalidFieldError{Field: FieldUserName, Limit: 100}
	assert.Equal(t, "the UserName has a maximum length of 100 characters", err.Error())
}
