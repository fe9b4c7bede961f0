package main

// credUIFlags are the CREDUI_FLAGS_* bits of CredUIPromptForCredentialsW
type credUIFlags uint32

const (
	credUIFlagIncorrectPassword         credUIFlags = 0x00001
	credUIFlagDoNotPersist              credUIFlags = 0x00002
	credUIFlagRequestAdministrator      credUIFlags = 0x00004
	credUIFlagExcludeCertificates       credUIFlags = 0x00008
	credUIFlagRequireCertificate        credUIFlags = 0x00010
	credUIFlagShowSaveCheckBox          credUIFlags = 0x00040
	credUIFlagAlwaysShowUI              credUIFlags = 0x00080
	credUIFlagRequireSmartcard          credUIFlags = 0x00100
	credUIFlagPasswordOnlyOK            credUIFlags = 0x00200
	credUIFlagValidateUsername          credUIFlags = 0x00400
	credUIFlagCompleteUsername          credUIFlags = 0x00800
	credUIFlagPersist                   credUIFlags = 0x01000
	credUIFlagServerCredential          credUIFlags = 0x04000
	credUIFlagExpectConfirmation        credUIFlags = 0x20000
	credUIFlagGenericCredentials        credUIFlags = 0x40000
	credUIFlagUsernameTargetCredentials credUIFlags = 0x80000
	credUIFlagKeepUsername              credUIFlags = 0x100000
)

// Has reports whether every bit of f2 is set in f
func (f credUIFlags) Has(f2 credUIFlags) bool {
	return f&f2 == f2
}

// credUIWinFlags are the CREDUIWIN_* bits of CredUIPromptForWindowsCredentialsW
type credUIWinFlags uint32

const (
	credUIWinGeneric              credUIWinFlags = 0x00000001
	credUIWinCheckbox             credUIWinFlags = 0x00000002
	credUIWinAuthPackageOnly      credUIWinFlags = 0x00000010
	credUIWinInCredOnly           credUIWinFlags = 0x00000020
	credUIWinEnumerateAdmins      credUIWinFlags = 0x00000100
	credUIWinEnumerateCurrentUser credUIWinFlags = 0x00000200
	credUIWinSecurePrompt         credUIWinFlags = 0x00001000
	credUIWinPack32Wow            credUIWinFlags = 0x10000000
)

// Policy holds the dialog behavior toggles. They map to independent
// native bits, so they stay independent here too.
type Policy struct {
	AlwaysShowUI        bool
	ExcludeCertificates bool
	Persist             bool
	KeepUserName        bool
	ShowSaveCheckBox    bool // only honored when Persist is set
	SaveChecked         bool
}

// DefaultPolicy is the fixed policy of this tool: always show the dialog, never persist
func DefaultPolicy() Policy {
	return Policy{
		AlwaysShowUI: true,
	}
}

// composeLegacyFlags maps a Policy to CREDUI_FLAGS_* for the legacy dialog
func composeLegacyFlags(p Policy) credUIFlags {
	flags := credUIFlagGenericCredentials
	if p.AlwaysShowUI {
		flags |= credUIFlagAlwaysShowUI
	}
	if p.ExcludeCertificates {
		flags |= credUIFlagExcludeCertificates
	}
	if p.Persist {
		flags |= credUIFlagExpectConfirmation
		if p.ShowSaveCheckBox {
			flags |= credUIFlagShowSaveCheckBox
		}
	} else {
		flags |= credUIFlagDoNotPersist
	}
	if p.KeepUserName {
		flags |= credUIFlagKeepUsername
	}
	return flags
}

// composeModernFlags returns the CREDUIWIN_* flags for the modern dialog.
// Only authentication-package credentials are enumerated.
func composeModernFlags() credUIWinFlags {
	return credUIWinAuthPackageOnly
}
