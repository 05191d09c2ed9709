package llmgw

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyErrorNil(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(nil))
}

func TestClassifyErrorContextCanceled(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(context.Canceled))
}

func TestClassifyErrorRateLimit(t *testing.T) {
	assert.Equal(t, RetryAfterBackoff, ClassifyError(errors.New("rate limit exceeded, please retry")))
}

func TestClassifyErrorQuota(t *testing.T) {
	assert.Equal(t, QuotaExhausted, ClassifyError(errors.New("error code: insufficient_quota")))
}

func TestClassifyErrorAuth(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(errors.New("401 Unauthorized: invalid_api_key")))
}

func TestClassifyErrorUnknown(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(errors.New("something completely unexpected")))
}
