package crypto_test

import (
	"testing"

	"code.assetex.io/assetex/internal/crypto"

	"github.com/stretchr/testify/assert"
)

func TestHashID(t *testing.T) {
	// derived ids must be a pure function of the input
	assert.Equal(t, crypto.HashID("A1"), crypto.HashID("A1"))
	assert.NotEqual(t, crypto.HashID("A1"), crypto.HashID("A2"))
	assert.Len(t, crypto.HashID("A1"), 64)
}
