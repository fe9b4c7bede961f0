package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRedacted(t *testing.T) {
	s, err := NewSecret("hunter2")
	require.NoError(t, err)

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%q", "%x"} {
		out := fmt.Sprintf(verb, s)
		assert.Equal(t, redacted, out, verb)
	}

	cred := &Credential{UserName: "alice", Password: s}
	assert.NotContains(t, fmt.Sprintf("%+v", cred), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%#v", *cred), "hunter2")

	plain, err := s.Reveal()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestSecretNotSerializable(t *testing.T) {
	s, err := NewSecret("hunter2")
	require.NoError(t, err)

	_, err = json.Marshal(s)
	assert.ErrorIs(t, err, ErrSecretNotSerializable)

	_, err = json.Marshal(&Credential{UserName: "alice", Password: s})
	assert.ErrorIs(t, err, ErrSecretNotSerializable)

	_, err = s.MarshalText()
	assert.ErrorIs(t, err, ErrSecretNotSerializable)
}

func TestSecretRevealOnce(t *testing.T) {
	s, err := NewSecret("pässwörd")
	require.NoError(t, err)
	assert.Equal(t, 8, s.Len())

	plain, err := s.Reveal()
	require.NoError(t, err)
	assert.Equal(t, "pässwörd", plain)
	assert.Zero(t, s.Len())

	_, err = s.Reveal()
	assert.ErrorIs(t, err, ErrSecretConsumed)
}

func TestSecretClone(t *testing.T) {
	s, err := NewSecret("pw")
	require.NoError(t, err)

	c, err := s.Clone()
	require.NoError(t, err)
	assert.Equal(t, "pw", reveal(t, c))
	assert.Equal(t, "pw", reveal(t, s))

	_, err = s.Clone()
	assert.ErrorIs(t, err, ErrSecretConsumed)
}

func TestSecretWipe(t *testing.T) {
	s, err := NewSecret("pw")
	require.NoError(t, err)

	s.Wipe()
	_, err = s.Reveal()
	assert.ErrorIs(t, err, ErrSecretConsumed)

	var nilSecret *Secret
	nilSecret.Wipe()
	assert.Zero(t, nilSecret.Len())
	_, err = nilSecret.Reveal()
	assert.ErrorIs(t, err, ErrSecretConsumed)
}

func TestSecretLengthLimit(t *testing.T) {
	_, err := NewSecret(strings.Repeat("p", MaxPasswordLength))
	assert.NoError(t, err)

	_, err = NewSecret(strings.Repeat("p", MaxPasswordLength+1))
	var fieldErr *InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, FieldPassword, fieldErr.Field)
}

func TestNewSecretFromUTF16StopsAtNUL(t *testing.T) {
	buf := []uint16{'a', 'b', 0, 'c'}
	s, err := newSecretFromUTF16(buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", reveal(t, s))
	assert.Equal(t, []uint16{'a', 'b', 0, 'c'}, buf, "caller buffer is left to the caller")
}
