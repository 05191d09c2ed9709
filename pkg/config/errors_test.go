package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("integration", "news-api", "category", errors.New("bad"))
	assert.Equal(t, `integration "news-api": field "category": bad`, err.Error())
	assert.True(t, errors.Is(err.Unwrap(), err.Err))
}

func TestValidationErrorMessageNoField(t *testing.T) {
	err := NewValidationError("integration", "news-api", "", errors.New("bad"))
	assert.Equal(t, `integration "news-api": bad`, err.Error())
}

func TestLoadErrorWraps(t *testing.T) {
	inner := errors.New("boom")
	err := NewLoadError("research.yaml", inner)
	assert.Contains(t, err.Error(), "research.yaml")
	assert.True(t, errors.Is(err, inner))
}
