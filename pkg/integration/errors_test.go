package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyErrorNil(t *testing.T) {
	assert.Equal(t, Kind(""), ClassifyError(nil))
}

func TestClassifyErrorCancelled(t *testing.T) {
	assert.Equal(t, KindCancelled, ClassifyError(context.Canceled))
}

func TestClassifyErrorTimeout(t *testing.T) {
	assert.Equal(t, KindTimeout, ClassifyError(context.DeadlineExceeded))
}

func TestClassifyErrorAuth(t *testing.T) {
	assert.Equal(t, KindAuthFailed, ClassifyError(errors.New("401 Unauthorized")))
}

func TestClassifyErrorRateLimited(t *testing.T) {
	assert.Equal(t, KindRateLimited, ClassifyError(errors.New("429 too many requests")))
}

func TestClassifyErrorQuota(t *testing.T) {
	assert.Equal(t, KindQuotaExhausted, ClassifyError(errors.New("quota exceeded")))
}

func TestClassifyErrorUpstream5xx(t *testing.T) {
	assert.Equal(t, KindUpstream5xx, ClassifyError(errors.New("502 bad gateway")))
}

func TestClassifyErrorUpstream4xxOther(t *testing.T) {
	assert.Equal(t, KindUpstream4xxOther, ClassifyError(errors.New("404 not found")))
}

func TestClassifyErrorParseError(t *testing.T) {
	assert.Equal(t, KindParseError, ClassifyError(errors.New("json: unexpected end of JSON input")))
}

func TestIsNotApplicable(t *testing.T) {
	err := &NotApplicable{SourceID: "alpha", Reason: "no date range support"}
	na, ok := IsNotApplicable(err)
	assert.True(t, ok)
	assert.Equal(t, "alpha", na.SourceID)

	_, ok = IsNotApplicable(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := NewError("alpha", KindTimeout, cause)
	assert.ErrorIs(t, wrapped, cause)
}
