package main

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf16"
)

const redacted = "[REDACTED]"

var (
	// ErrSecretConsumed is returned by Reveal after the secret has been extracted or wiped
	ErrSecretConsumed = errors.New("secret already consumed")
	// ErrSecretNotSerializable is returned by every marshaling method of Secret
	ErrSecretNotSerializable = errors.New("secret cannot be serialized")
)

// Secret holds sensitive text such as a password.
// It prints as [REDACTED], refuses to marshal, and hands out its
// plaintext exactly once through Reveal.
type Secret struct {
	mu       sync.Mutex
	units    []uint16
	consumed bool
}

// NewSecret copies s into a new Secret, enforcing the password limit
func NewSecret(s string) (*Secret, error) {
	units := utf16.Encode([]rune(s))
	sec, err := newSecretFromUTF16(units)
	wipeUTF16(units)
	return sec, err
}

// newSecretFromUTF16 copies a NUL-terminated UTF-16 buffer into a new Secret.
// The caller still owns buf and is expected to wipe it.
func newSecretFromUTF16(buf []uint16) (*Secret, error) {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	if n > MaxPasswordLength {
		return nil, &InvalidFieldError{Field: FieldPassword, Limit: MaxPasswordLength}
	}
	units := make([]uint16, n)
	copy(units, buf[:n])
	return &Secret{units: units}, nil
}

// Len returns the secret length in UTF-16 units, or 0 once consumed
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}

// Reveal returns the plaintext and wipes the container.
// Any later call returns ErrSecretConsumed.
func (s *Secret) Reveal() (string, error) {
	if s == nil {
		return "", ErrSecretConsumed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return "", ErrSecretConsumed
	}
	plain := string(utf16.Decode(s.units))
	wipeUTF16(s.units)
	s.units = nil
	s.consumed = true
	return plain, nil
}

// Clone returns an independent copy that can be revealed separately
func (s *Secret) Clone() (*Secret, error) {
	if s == nil {
		return nil, ErrSecretConsumed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consumed {
		return nil, ErrSecretConsumed
	}
	units := make([]uint16, len(s.units))
	copy(units, s.units)
	return &Secret{units: units}, nil
}

// Wipe zeroes the secret without revealing it
func (s *Secret) Wipe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wipeUTF16(s.units)
	s.units = nil
	s.consumed = true
}

func (s *Secret) String() string   { return redacted }
func (s *Secret) GoString() string { return redacted }

// Format keeps %v, %+v, %#v, %s and %q from printing the plaintext
func (s *Secret) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(redacted))
}

func (s *Secret) MarshalJSON() ([]byte, error) { return nil, ErrSecretNotSerializable }
func (s *Secret) MarshalText() ([]byte, error) { return nil, ErrSecretNotSerializable }

func wipeUTF16(buf []uint16) {
	for i := range buf {
		buf[i] = 0
	}
}
