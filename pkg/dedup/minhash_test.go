package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureIdentical(t *testing.T) {
	a := signatureOf("the quick brown fox jumps over the lazy dog")
	b := signatureOf("the quick brown fox jumps over the lazy dog")
	assert.Equal(t, 1.0, EstimateJaccard(a, b))
}

func TestSignatureNearDuplicate(t *testing.T) {
	a := signatureOf("Contractor awarded $50M deal for satellite communications upgrade program")
	b := signatureOf("Contractor awarded $50M deal for satellite communications upgrade program.")
	assert.True(t, EstimateJaccard(a, b) > 0.9)
	assert.True(t, IsNearDuplicate(a, b))
}

func TestSignatureDissimilar(t *testing.T) {
	a := signatureOf("completely unrelated text about cooking recipes and ingredients")
	b := signatureOf("satellite communications contract awarded to aerospace firm")
	assert.False(t, IsNearDuplicate(a, b))
}

func TestSignatureEmptyText(t *testing.T) {
	a := signatureOf("")
	b := signatureOf("")
	assert.Equal(t, a, b)
}
