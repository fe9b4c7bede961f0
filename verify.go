package main

import (
	"errors"
	"strings"
)

// ErrCredentialRejected is returned when Windows refuses the captured credential
var ErrCredentialRejected = errors.New("credential rejected by Windows")

// splitUserName returns the domain and account name for SSPI.
// DOMAIN\user wins over the captured Domain; a UPN is passed through whole.
func splitUserName(cred *Credential) (domain, user string) {
	name := cred.QualifiedUserName()
	if domain, user, ok := strings.Cut(name, `\`); ok {
		return domain, user
	}
	return "", name
}
