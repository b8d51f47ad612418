package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromChainID(t *testing.T) {
	assert.Equal(t, Mainnet, FromChainID(1))
	assert.Equal(t, ArbitrumOne, FromChainID(42161))
	assert.Equal(t, Matic, FromChainID(137))
	assert.Equal(t, Unknown, FromChainID(999999))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(56))
	assert.False(t, Known(0))
}
