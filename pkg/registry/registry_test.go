package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

type fakeAdapter struct {
	id         string
	strategies []integration.SearchStrategy
}

func (f *fakeAdapter) Metadata() integration.SourceMetadata {
	return integration.SourceMetadata{ID: f.id, DisplayName: f.id, SearchStrategies: f.strategies}
}
func (f *fakeAdapter) IsRelevant(ctx context.Context, question string) bool { return true }
func (f *fakeAdapter) GenerateQuery(ctx context.Context, question string) (integration.QueryParams, error) {
	return integration.QueryParams{}, nil
}
func (f *fakeAdapter) ExecuteSearch(ctx context.Context, params integration.QueryParams, limit int) integration.QueryResult {
	return integration.QueryResult{SourceID: f.id, Success: true}
}

func TestRegisterAndNew(t *testing.T) {
	r := New()
	err := r.Register("alpha", func() integration.Adapter { return &fakeAdapter{id: "alpha"} })
	require.NoError(t, err)

	assert.True(t, r.Has("alpha"))
	assert.Equal(t, 1, r.Len())

	a, err := r.New("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", a.Metadata().ID)
}

func TestRegisterRejectsMismatchedID(t *testing.T) {
	r := New()
	err := r.Register("alpha", func() integration.Adapter { return &fakeAdapter{id: "beta"} })
	assert.Error(t, err)
}

func TestRegisterRejectsNilFactory(t *testing.T) {
	r := New()
	assert.Error(t, r.Register("alpha", nil))
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("alpha", func() integration.Adapter { return &fakeAdapter{id: "alpha"} }))
	assert.Error(t, r.Register("alpha", func() integration.Adapter { return &fakeAdapter{id: "alpha"} }))
}

func TestRegisterRejectsEmptyStrategyMethodName(t *testing.T) {
	r := New()
	err := r.Register("alpha", func() integration.Adapter {
		return &fakeAdapter{id: "alpha", strategies: []integration.SearchStrategy{{MethodName: ""}}}
	})
	assert.Error(t, err)
}

func TestNewUnregisteredReturnsError(t *testing.T) {
	r := New()
	_, err := r.New("ghost")
	assert.Error(t, err)
}

func TestListSourcesAndMetadata(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("alpha", func() integration.Adapter { return &fakeAdapter{id: "alpha"} }))
	require.NoError(t, r.Register("beta", func() integration.Adapter { return &fakeAdapter{id: "beta"} }))

	sources := r.ListSources()
	assert.Len(t, sources, 2)

	meta, ok := r.Metadata("alpha")
	assert.True(t, ok)
	assert.Equal(t, "alpha", meta.ID)
}
