package main

import (
	"errors"
	"fmt"
)

// LegacyStatus is the DWORD returned by CredUIPromptForCredentialsW
type LegacyStatus uint32

const (
	LegacyNoError            LegacyStatus = 0
	LegacyInvalidParameter   LegacyStatus = 87
	LegacyInsufficientBuffer LegacyStatus = 122
	LegacyInvalidFlags       LegacyStatus = 1004
	LegacyNotFound           LegacyStatus = 1168
	LegacyCancelled          LegacyStatus = 1223
	LegacyNoSuchLogonSession LegacyStatus = 1312
	LegacyInvalidAccountName LegacyStatus = 1315
)

// ModernStatus is the DWORD returned by CredUIPromptForWindowsCredentialsW.
// The values coincide with LegacyStatus but the two are never mixed.
type ModernStatus uint32

const (
	ModernNoError            ModernStatus = 0
	ModernInvalidParameter   ModernStatus = 87
	ModernInsufficientBuffer ModernStatus = 122
	ModernInvalidFlags       ModernStatus = 1004
	ModernNotFound           ModernStatus = 1168
	ModernCancelled          ModernStatus = 1223
	ModernNoSuchLogonSession ModernStatus = 1312
	ModernInvalidAccountName ModernStatus = 1315
)

// Cause classifies a failed prompt
type Cause int

const (
	CauseNone Cause = iota
	CauseNoSuchLogonSession
	CauseNotFound
	CauseInvalidAccountName
	CauseInsufficientBuffer
	CauseInvalidParameter
	CauseInvalidFlags
	CauseUnpackFailure
	CauseUnknown
)

var causeNames = map[Cause]string{
	CauseNone:               "None",
	CauseNoSuchLogonSession: "NoSuchLogonSession",
	CauseNotFound:           "NotFound",
	CauseInvalidAccountName: "InvalidAccountName",
	CauseInsufficientBuffer: "InsufficientBuffer",
	CauseInvalidParameter:   "InvalidParameter",
	CauseInvalidFlags:       "InvalidFlags",
	CauseUnpackFailure:      "UnpackFailure",
	CauseUnknown:            "Unknown",
}

var causeMessages = map[Cause]string{
	CauseNoSuchLogonSession: "no such logon session",
	CauseNotFound:           "not found",
	CauseInvalidAccountName: "invalid account name",
	CauseInsufficientBuffer: "insufficient buffer",
	CauseInvalidParameter:   "invalid parameter",
	CauseInvalidFlags:       "invalid flags",
	CauseUnpackFailure:      "could not unpack the authentication buffer",
	CauseUnknown:            "unknown credential result encountered",
}

func (c Cause) String() string {
	if name, ok := causeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Cause(%d)", int(c))
}

var (
	// ErrNativeRejected matches a known non-success, non-cancel status
	ErrNativeRejected = errors.New("credential dialog rejected the request")
	// ErrUnpackFailure matches a modern dialog buffer that could not be unpacked
	ErrUnpackFailure = errors.New("credential buffer unpack failed")
	// ErrUnknownStatus matches a status code outside the known set
	ErrUnknownStatus = errors.New("unknown credential dialog status")
)

// PromptError describes a failed prompt. Code is the raw native status,
// or the unpack error number for CauseUnpackFailure.
type PromptError struct {
	Cause  Cause
	Code   uint32
	Modern bool
	Err    error
}

func (e *PromptError) Error() string {
	dialog := "legacy"
	if e.Modern {
		dialog = "modern"
	}
	msg := fmt.Sprintf("%s credential dialog: %s (code %d)", dialog, causeMessages[e.Cause], e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PromptError) Unwrap() error {
	return e.Err
}

// Is matches the taxonomy sentinels
func (e *PromptError) Is(target error) bool {
	switch target {
	case ErrUnpackFailure:
		return e.Cause == CauseUnpackFailure
	case ErrUnknownStatus:
		return e.Cause == CauseUnknown
	case ErrNativeRejected:
		return e.Cause != CauseUnpackFailure && e.Cause != CauseUnknown && e.Cause != CauseNone
	}
	return false
}

// Kind is the tri-state result of a prompt
type Kind int

const (
	Confirmed Kind = iota
	Cancelled
	Failed
)

func (k Kind) String() string {
	switch k {
	case Confirmed:
		return "Confirmed"
	case Cancelled:
		return "Cancelled"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// classify maps a legacy dialog status to an outcome kind and failure cause
func (s LegacyStatus) classify() (Kind, Cause) {
	switch s {
	case LegacyNoError:
		return Confirmed, CauseNone
	case LegacyCancelled:
		return Cancelled, CauseNone
	case LegacyNoSuchLogonSession:
		return Failed, CauseNoSuchLogonSession
	case LegacyNotFound:
		return Failed, CauseNotFound
	case LegacyInvalidAccountName:
		return Failed, CauseInvalidAccountName
	case LegacyInsufficientBuffer:
		return Failed, CauseInsufficientBuffer
	case LegacyInvalidParameter:
		return Failed, CauseInvalidParameter
	case LegacyInvalidFlags:
		return Failed, CauseInvalidFlags
	default:
		return Failed, CauseUnknown
	}
}

// classify maps a modern dialog status to an outcome kind and failure cause
func (s ModernStatus) classify() (Kind, Cause) {
	switch s {
	case ModernNoError:
		return Confirmed, CauseNone
	case ModernCancelled:
		return Cancelled, CauseNone
	case ModernNoSuchLogonSession:
		return Failed, CauseNoSuchLogonSession
	case ModernNotFound:
		return Failed, CauseNotFound
	case ModernInvalidAccountName:
		return Failed, CauseInvalidAccountName
	case ModernInsufficientBuffer:
		return Failed, CauseInsufficientBuffer
	case ModernInvalidParameter:
		return Failed, CauseInvalidParameter
	case ModernInvalidFlags:
		return Failed, CauseInvalidFlags
	default:
		return Failed, CauseUnknown
	}
}
