package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO_TOKEN", "secret123")

	out := ExpandEnv([]byte("token: ${FOO_TOKEN}\nother: $FOO_TOKEN"))
	assert.Equal(t, "token: secret123\nother: secret123", string(out))
}

func TestExpandEnvMissingVar(t *testing.T) {
	out := ExpandEnv([]byte("token: ${DEFINITELY_NOT_SET_XYZ}"))
	assert.Equal(t, "token: ", string(out))
}
