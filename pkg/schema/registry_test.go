package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDoc struct {
	Name string `json:"name" jsonschema:"required"`
	Age  int    `json:"age" jsonschema:"minimum=0"`
}

func TestRegistryValidateSuccess(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("sample", &sampleDoc{}))

	errs, err := r.Validate("sample", []byte(`{"name":"alice","age":30}`))
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestRegistryValidateFailure(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("sample", &sampleDoc{}))

	errs, err := r.Validate("sample", []byte(`{"age":-5}`))
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}

func TestRegistryValidateUnknownSchema(t *testing.T) {
	r := NewRegistry()
	_, err := r.Validate("missing", []byte(`{}`))
	require.Error(t, err)
}

func TestRawSchema(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("sample", &sampleDoc{}))

	raw, ok := r.RawSchema("sample")
	require.True(t, ok)
	assert.Contains(t, string(raw), "name")
}

func TestDefaultRegistryHasAllCallSites(t *testing.T) {
	for _, name := range []string{
		RelevanceCheck, QueryGeneration, Decomposition,
		FollowUpGeneration, EntityExtraction, MonitorQueryGen, SensitivityCheck,
	} {
		_, ok := Default.RawSchema(name)
		assert.True(t, ok, "expected schema registered for %s", name)
	}
}

func TestDefaultRegistryValidatesRelevanceResult(t *testing.T) {
	errs, err := Default.Validate(RelevanceCheck, []byte(`{"score":7,"reasoning":"matches objective"}`))
	require.NoError(t, err)
	assert.Empty(t, errs)
}
