package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(answers) {
			return nil, errors.New("no more input")
		}
		a := answers[i]
		i++
		return []byte(a), nil
	}
}

func TestPromptPassword(t *testing.T) {
	t.Run("matching", func(t *testing.T) {
		stubPasswords(t, "correct horse", "correct horse")
		var out bytes.Buffer

		pw, err := promptPassword(&out)

		require.NoError(t, err)
		assert.Equal(t, "correct horse", string(pw))
		assert.Contains(t, out.String(), "Repeat password: ")
	})

	t.Run("mismatch", func(t *testing.T) {
		stubPasswords(t, "correct horse", "battery staple")
		_, err := promptPassword(&bytes.Buffer{})
		assert.EqualError(t, err, "passwords do not match")
	})

	t.Run("read failure", func(t *testing.T) {
		stubPasswords(t)
		_, err := promptPassword(&bytes.Buffer{})
		assert.ErrorContains(t, err, "read password")
	})
}
