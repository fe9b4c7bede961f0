package main

import (
	"errors"
	"strings"
	"sync"
	"syscall"
	"unicode/utf16"
	"unsafe"
)

// UIVariant selects which native credential dialog is shown
type UIVariant int

const (
	// LegacyDialog is CredUIPromptForCredentialsW
	LegacyDialog UIVariant = iota
	// ModernDialog is CredUIPromptForWindowsCredentialsW (Vista+)
	ModernDialog
)

func (v UIVariant) String() string {
	if v == ModernDialog {
		return "modern"
	}
	return "legacy"
}

// Dialog defaults
const (
	DefaultCaption = "Credentials"
	DefaultMessage = "Enter your credentials."
	DefaultTarget  = "PowerShell"
)

var (
	// ErrUnsupportedPlatform is returned where no native credential dialog exists
	ErrUnsupportedPlatform = errors.New("native credential dialog is only available on Windows")
	// ErrPromptInProgress is returned when a Dialog is asked to prompt while already prompting
	ErrPromptInProgress = errors.New("a credential prompt is already in progress")
)

// displayInfo carries the CREDUI_INFO fields. The native layer adds cbSize.
type displayInfo struct {
	Parent  uintptr
	Caption string
	Message string
}

// authBuffer is an authentication buffer allocated by the modern dialog.
// It must be handed back to credUI.free exactly once.
type authBuffer struct {
	ptr  unsafe.Pointer
	size uint32
}

// credUI is the native credential dialog boundary
type credUI interface {
	parentWindow() uintptr
	// promptLegacy fills user and pass in place; both hold the dialog contents on return
	promptLegacy(info displayInfo, target string, user, pass []uint16, save *bool, flags credUIFlags) LegacyStatus
	promptModern(info displayInfo, save *bool, flags credUIWinFlags) (ModernStatus, authBuffer)
	unpack(buf authBuffer, user, domain, pass []uint16) error
	free(buf authBuffer)
}

// Credential is a captured username and password
type Credential struct {
	UserName    string
	Domain      string
	Password    *Secret
	SaveChecked bool
}

// QualifiedUserName returns DOMAIN\user when a domain was captured
func (c *Credential) QualifiedUserName() string {
	if c.Domain == "" || strings.ContainsAny(c.UserName, `\@`) {
		return c.UserName
	}
	return c.Domain + `\` + c.UserName
}

// Outcome is the result of one Prompt call.
// Credential is set only when Kind is Confirmed, Err only when Kind is Failed.
type Outcome struct {
	Kind       Kind
	Credential *Credential
	Err        error
}

func failed(err error) Outcome {
	return Outcome{Kind: Failed, Err: err}
}

// Dialog shows the native Windows credential dialog
type Dialog struct {
	caption string
	message string
	target  string
	variant UIVariant
	policy  Policy
	ui      credUI
	busy    sync.Mutex
}

// NewDialog creates a Dialog for the given caption and message.
// Empty caption or message fall back to DefaultCaption and DefaultMessage.
func NewDialog(caption, message string, variant UIVariant) (*Dialog, error) {
	return newDialog(caption, message, variant, defaultCredUI())
}

func newDialog(caption, message string, variant UIVariant, ui credUI) (*Dialog, error) {
	if caption == "" {
		caption = DefaultCaption
	}
	if message == "" {
		message = DefaultMessage
	}
	caption, err := validateField(FieldCaption, caption, MaxCaptionLength)
	if err != nil {
		return nil, err
	}
	message, err = validateField(FieldMessage, message, MaxMessageLength)
	if err != nil {
		return nil, err
	}
	return &Dialog{
		caption: caption,
		message: message,
		target:  DefaultTarget,
		variant: variant,
		policy:  DefaultPolicy(),
		ui:      ui,
	}, nil
}

// SetTarget changes the target name passed to the legacy dialog
func (d *Dialog) SetTarget(target string) error {
	if target == "" {
		target = DefaultTarget
	}
	target, err := validateField(FieldTarget, target, MaxGenericTargetLength)
	if err != nil {
		return err
	}
	d.target = target
	return nil
}

// Prompt shows the dialog pre-filled with username and blocks until the
// user dismisses it. The returned credential is not retained by the Dialog.
func (d *Dialog) Prompt(username string) Outcome {
	username, err := validateField(FieldUserName, username, MaxUserNameLength)
	if err != nil {
		LogPromptOutcome(d.variant, Failed, err)
		return failed(err)
	}
	if d.ui == nil {
		LogPromptOutcome(d.variant, Failed, ErrUnsupportedPlatform)
		return failed(ErrUnsupportedPlatform)
	}
	if !d.busy.TryLock() {
		return failed(ErrPromptInProgress)
	}
	defer d.busy.Unlock()

	LogPromptRequested(d.variant, username != "")

	// The save checkbox never carries over from a previous prompt
	save := d.policy.SaveChecked

	info := displayInfo{
		Parent:  d.ui.parentWindow(),
		Caption: d.caption,
		Message: d.message,
	}

	var out Outcome
	if d.variant == ModernDialog {
		out = d.promptModern(info, &save)
	} else {
		out = d.promptLegacy(info, username, &save)
	}
	LogPromptOutcome(d.variant, out.Kind, out.Err)
	return out
}

func (d *Dialog) promptLegacy(info displayInfo, username string, save *bool) Outcome {
	user := newTextBuffer(MaxUserNameLength)
	pass := newTextBuffer(MaxPasswordLength)
	defer wipeUTF16(user)
	defer wipeUTF16(pass)
	copy(user, utf16.Encode([]rune(username)))

	status := d.ui.promptLegacy(info, d.target, user, pass, save, composeLegacyFlags(d.policy))
	LogDebug("Legacy credential dialog returned status %d", uint32(status))

	switch kind, cause := status.classify(); kind {
	case Confirmed:
		cred, err := newCredential(user, nil, pass)
		if err != nil {
			return failed(err)
		}
		cred.SaveChecked = *save
		return Outcome{Kind: Confirmed, Credential: cred}
	case Cancelled:
		return Outcome{Kind: Cancelled}
	default:
		return failed(&PromptError{Cause: cause, Code: uint32(status)})
	}
}

func (d *Dialog) promptModern(info displayInfo, save *bool) Outcome {
	status, buf := d.ui.promptModern(info, save, composeModernFlags())
	LogDebug("Modern credential dialog returned status %d", uint32(status))

	kind, cause := status.classify()
	if kind != Confirmed {
		if buf.ptr != nil {
			d.ui.free(buf)
		}
		if kind == Cancelled {
			return Outcome{Kind: Cancelled}
		}
		return failed(&PromptError{Cause: cause, Code: uint32(status), Modern: true})
	}
	return d.unpackModern(buf)
}

// unpackModern splits the packed buffer and releases it on every path
func (d *Dialog) unpackModern(buf authBuffer) Outcome {
	defer d.ui.free(buf)

	user := newTextBuffer(MaxUserNameLength)
	domain := newTextBuffer(MaxDomainLength)
	pass := newTextBuffer(MaxPasswordLength)
	defer wipeUTF16(user)
	defer wipeUTF16(pass)

	if err := d.ui.unpack(buf, user, domain, pass); err != nil {
		return failed(&PromptError{Cause: CauseUnpackFailure, Code: errorCode(err), Modern: true, Err: err})
	}
	cred, err := newCredential(user, domain, pass)
	if err != nil {
		return failed(err)
	}
	return Outcome{Kind: Confirmed, Credential: cred}
}

func newCredential(user, domain, pass []uint16) (*Credential, error) {
	name, err := validateField(FieldUserName, utf16ToString(user), MaxUserNameLength)
	if err != nil {
		return nil, err
	}
	secret, err := newSecretFromUTF16(pass)
	if err != nil {
		return nil, err
	}
	return &Credential{
		UserName: name,
		Domain:   utf16ToString(domain),
		Password: secret,
	}, nil
}

// newTextBuffer allocates room for limit UTF-16 units and a terminating NUL
func newTextBuffer(limit int) []uint16 {
	return make([]uint16, limit+1)
}

func utf16ToString(buf []uint16) string {
	for i, v := range buf {
		if v == 0 {
			return string(utf16.Decode(buf[:i]))
		}
	}
	return string(utf16.Decode(buf))
}

// errorCode extracts the Win32 error number wrapped in err, if any
func errorCode(err error) uint32 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	return 0
}
