//go:build windows
// +build windows

package main

import (
	"fmt"

	"github.com/alexbrainman/sspi/negotiate"
)

// maxHandshakeRounds bounds the loopback Negotiate exchange
const maxHandshakeRounds = 8

// verifyCredential runs a loopback SSPI Negotiate handshake with cred
// against this machine. The credential's password is not consumed.
func verifyCredential(cred *Credential) error {
	secret, err := cred.Password.Clone()
	if err != nil {
		return fmt.Errorf("failed to copy password: %w", err)
	}
	password, err := secret.Reveal()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	domain, user := splitUserName(cred)

	clientCred, err := negotiate.AcquireUserCredentials(domain, user, password)
	if err != nil {
		return fmt.Errorf("failed to acquire user credentials: %w", err)
	}
	defer clientCred.Release()

	serverCred, err := negotiate.AcquireServerCredentials("")
	if err != nil {
		return fmt.Errorf("failed to acquire server credentials: %w", err)
	}
	defer serverCred.Release()

	client, token, err := negotiate.NewClientContext(clientCred, "")
	if err != nil {
		return fmt.Errorf("failed to initialize client context: %w", err)
	}
	defer client.Release()

	server, done, reply, err := negotiate.NewServerContext(serverCred, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialRejected, err)
	}
	defer server.Release()

	for round := 0; !done; round++ {
		if round >= maxHandshakeRounds {
			return fmt.Errorf("credential verification did not complete after %d rounds", maxHandshakeRounds)
		}
		_, token, err = client.Update(reply)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCredentialRejected, err)
		}
		done, reply, err = server.Update(token)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCredentialRejected, err)
		}
	}

	LogDebug("SSPI loopback handshake completed in Negotiate")
	return nil
}
