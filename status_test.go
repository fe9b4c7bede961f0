package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegacyStatusClassify(t *testing.T) {
	tests := []struct {
		status LegacyStatus
		kind   Kind
		cause  Cause
	}{
		{0, Confirmed, CauseNone},
		{1223, Cancelled, CauseNone},
		{1312, Failed, CauseNoSuchLogonSession},
		{1168, Failed, CauseNotFound},
		{1315, Failed, CauseInvalidAccountName},
		{122, Failed, CauseInsufficientBuffer},
		{87, Failed, CauseInvalidParameter},
		{1004, Failed, CauseInvalidFlags},
		{5, Failed, CauseUnknown},
		{0xFFFFFFFF, Failed, CauseUnknown},
	}
	for _, tt := range tests {
		kind, cause := tt.status.classify()
		assert.Equal(t, tt.kind, kind, "status %d", tt.status)
		assert.Equal(t, tt.cause, cause, "status %d", tt.status)
	}
}

func TestModernStatusClassify(t *testing.T) {
	tests := []struct {
		status ModernStatus
		kind   Kind
		cause  Cause
	}{
		{0, Confirmed, CauseNone},
		{1223, Cancelled, CauseNone},
		{1312, Failed, CauseNoSuchLogonSession},
		{1168, Failed, CauseNotFound},
		{1315, Failed, CauseInvalidAccountName},
		{122, Failed, CauseInsufficientBuffer},
		{87, Failed, CauseInvalidParameter},
		{1004, Failed, CauseInvalidFlags},
		{1326, Failed, CauseUnknown},
	}
	for _, tt := range tests {
		kind, cause := tt.status.classify()
		assert.Equal(t, tt.kind, kind, "status %d", tt.status)
		assert.Equal(t, tt.cause, cause, "status %d", tt.status)
	}
}

func TestPromptErrorMatching(t *testing.T) {
	rejected := &PromptError{Cause: CauseNotFound, Code: 1168}
	assert.ErrorIs(t, rejected, ErrNativeRejected)
	assert.NotErrorIs(t, rejected, ErrUnknownStatus)
	assert.NotErrorIs(t, rejected, ErrUnpackFailure)
	assert.Equal(t, "legacy credential dialog: not found (code 1168)", rejected.Error())

	unknown := &PromptError{Cause: CauseUnknown, Code: 5, Modern: true}
	assert.ErrorIs(t, unknown, ErrUnknownStatus)
	assert.NotErrorIs(t, unknown, ErrNativeRejected)
	assert.Equal(t, "modern credential dialog: unknown credential result encountered (code 5)", unknown.Error())

	inner := errors.New("bad buffer")
	unpack := &PromptError{Cause: CauseUnpackFailure, Modern: true, Err: inner}
	assert.ErrorIs(t, unpack, ErrUnpackFailure)
	assert.ErrorIs(t, unpack, inner)
	assert.Contains(t, unpack.Error(), "bad buffer")
}

func TestKindAndCauseStrings(t *testing.T) {
	assert.Equal(t, "Confirmed", Confirmed.String())
	assert.Equal(t, "Cancelled", Cancelled.String())
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Equal(t, "UnpackFailure", CauseUnpackFailure.String())
	assert.Equal(t, "Cause(42)", Cause(42).String())
}
